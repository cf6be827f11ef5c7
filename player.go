package main

import "math/rand/v2"

// Player is the boat. Its lateral position is clamped on every mutation and it
// owns its two spray emitters.
type Player struct {
	ID        string
	Name      string
	Pos       Vector3
	Footprint float64
	Bow       *ParticleEmitter
	Impact    *ParticleEmitter
	Fallback  bool // true when the renderer could not load the boat model

	bound float64
}

// NewPlayer creates the boat at the origin. When modelLoaded is false the
// player gets the fallback spray sizes and resting height, but the same bound,
// footprint and pair of emitters.
func NewPlayer(id, name string, cfg *Tuning, modelLoaded bool, rng *rand.Rand) *Player {
	p := &Player{
		ID:        id,
		Name:      name,
		Footprint: cfg.Player.Footprint,
		Fallback:  !modelLoaded,
		bound:     cfg.Player.LateralBound,
	}
	bow, impact := cfg.Particles.Bow, cfg.Particles.Impact
	p.Pos.Y = cfg.Player.ModelY
	if !modelLoaded {
		bow, impact = cfg.Particles.FallbackBow, cfg.Particles.FallbackImpact
		p.Pos.Y = cfg.Player.FallbackY
	}
	p.Bow = NewParticleEmitter(bow, cfg.Particles, rng)
	p.Impact = NewParticleEmitter(impact, cfg.Particles, rng)
	return p
}

// UseFallback swaps in the fallback spray pair and resting height, keeping
// position, bound and footprint.
func (p *Player) UseFallback(cfg *Tuning, rng *rand.Rand) {
	p.Fallback = true
	p.Pos.Y = cfg.Player.FallbackY
	p.Bow = NewParticleEmitter(cfg.Particles.FallbackBow, cfg.Particles, rng)
	p.Impact = NewParticleEmitter(cfg.Particles.FallbackImpact, cfg.Particles, rng)
}

// MoveLateral shifts the boat sideways, clamped to the lateral bound.
func (p *Player) MoveLateral(dx float64) {
	p.SetX(p.Pos.X + dx)
}

// SetX places the boat laterally, clamped to the lateral bound.
func (p *Player) SetX(x float64) {
	p.Pos.X = Clamp(x, -p.bound, p.bound)
}

// UpdateEmitters advances both spray bursts
func (p *Player) UpdateEmitters(dt float64) {
	p.Bow.Update(dt)
	p.Impact.Update(dt)
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:       p.ID,
		Name:     p.Name,
		Pos:      p.Pos.ToState(),
		Fallback: p.Fallback,
		Bow:      p.Bow.ToState(),
		Impact:   p.Impact.ToState(),
	}
}
