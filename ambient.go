package main

import (
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
)

// DrifterKind distinguishes ambient populations
type DrifterKind uint8

const (
	DrifterCloud DrifterKind = iota
	DrifterBird
)

// Drifter is a background entity that moves steadily and wraps to the far side
// of its span once it leaves it.
type Drifter struct {
	Kind   DrifterKind
	Pos    Vector3
	Vel    Vector3 // units per second
	BaseY  float64
	Wobble float64
	seed   float64
}

// AmbientField animates clouds and birds. It never interacts with gameplay.
type AmbientField struct {
	Drifters []Drifter
	spans    [2]DrifterConfig
	noise    opensimplex.Noise
	rng      *rand.Rand
}

// NewAmbientField scatters the configured populations.
func NewAmbientField(cfg AmbientConfig, rng *rand.Rand, seed int64) *AmbientField {
	a := &AmbientField{
		Drifters: make([]Drifter, 0, cfg.Clouds.Count+cfg.Birds.Count),
		spans:    [2]DrifterConfig{DrifterCloud: cfg.Clouds, DrifterBird: cfg.Birds},
		noise:    opensimplex.New(seed),
		rng:      rng,
	}
	for i := 0; i < cfg.Clouds.Count; i++ {
		a.Drifters = append(a.Drifters, a.spawn(DrifterCloud, false))
	}
	for i := 0; i < cfg.Birds.Count; i++ {
		a.Drifters = append(a.Drifters, a.spawn(DrifterBird, false))
	}
	return a
}

func (a *AmbientField) uniform(r Range) float64 {
	return r.Min + a.rng.Float64()*(r.Max-r.Min)
}

// spawn places a drifter anywhere in its span, or at the entry edge when
// atEdge is set.
func (a *AmbientField) spawn(kind DrifterKind, atEdge bool) Drifter {
	c := a.spans[kind]
	travel := (a.rng.Float64()*2 - 1) * c.Span
	if atEdge {
		travel = -c.Span
	}
	cross := (a.rng.Float64()*2 - 1) * c.Spread
	speed := a.uniform(c.Speed)
	d := Drifter{
		Kind:   kind,
		BaseY:  a.uniform(c.Height),
		Wobble: c.Wobble,
		seed:   a.rng.Float64() * 1000,
	}
	d.Pos.Y = d.BaseY
	if c.Lateral {
		d.Pos.X, d.Pos.Z = travel, -cross-c.Spread
		d.Vel.X = speed
	} else {
		d.Pos.X, d.Pos.Z = cross, travel
		d.Vel.Z = speed
	}
	return d
}

// Update advances every drifter by dt and recycles the ones that left their
// span.
func (a *AmbientField) Update(dt, elapsed float64) {
	for i := range a.Drifters {
		d := &a.Drifters[i]
		d.Pos = d.Pos.Add(d.Vel.Scale(dt))
		if d.Wobble != 0 {
			d.Pos.Y = d.BaseY + d.Wobble*a.noise.Eval2(elapsed*0.5, d.seed)
		}
		c := a.spans[d.Kind]
		travel := d.Pos.Z
		if c.Lateral {
			travel = d.Pos.X
		}
		if travel > c.Span {
			*d = a.spawn(d.Kind, true)
		}
	}
}

// ToState converts to protocol state
func (a *AmbientField) ToState() []DrifterState {
	out := make([]DrifterState, len(a.Drifters))
	for i, d := range a.Drifters {
		out[i] = DrifterState{Kind: uint8(d.Kind), Pos: d.Pos.ToState()}
	}
	return out
}
