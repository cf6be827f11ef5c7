package main

import "math"

// WaveTerm is one sinusoid of the water heightfield:
// Amplitude * f(Frequency*axis + PhaseSpeed*t), f being sin or cos.
type WaveTerm struct {
	Axis       string  `yaml:"axis" json:"axis"` // "x" or "y" (plane coordinates)
	Func       string  `yaml:"func" json:"fn"`   // "sin" or "cos"
	Amplitude  float64 `yaml:"amplitude" json:"a"`
	Frequency  float64 `yaml:"frequency" json:"f"`
	PhaseSpeed float64 `yaml:"phase_speed" json:"w"`
}

func (w WaveTerm) eval(x, y, t float64) float64 {
	u := x
	if w.Axis == "y" {
		u = y
	}
	arg := w.Frequency*u + w.PhaseSpeed*t
	if w.Func == "cos" {
		return w.Amplitude * math.Cos(arg)
	}
	return w.Amplitude * math.Sin(arg)
}

// WaterSurface is a stateless procedural heightfield.
type WaterSurface struct {
	Terms []WaveTerm
}

// Height returns the surface displacement at plane coordinates (x, y) and time t.
func (s WaterSurface) Height(x, y, t float64) float64 {
	h := 0.0
	for _, term := range s.Terms {
		h += term.eval(x, y, t)
	}
	return h
}

// WaterGrid is the vertex grid of the water plane. Plane coordinates are
// centered on the origin; the plane lies flat so plane y maps to world -z.
type WaterGrid struct {
	Surface WaterSurface
	Cols    int // vertices per row
	Rows    int
	xs      []float64
	ys      []float64
	Heights []float64 // row-major, overwritten by Recompute
	t       float64
}

// NewWaterGrid lays out a width x depth plane with the given segment counts.
func NewWaterGrid(cfg WaterConfig) *WaterGrid {
	cols := cfg.SegmentsX + 1
	rows := cfg.SegmentsY + 1
	g := &WaterGrid{
		Surface: WaterSurface{Terms: append([]WaveTerm(nil), cfg.Terms...)},
		Cols:    cols,
		Rows:    rows,
		xs:      make([]float64, cols),
		ys:      make([]float64, rows),
		Heights: make([]float64, cols*rows),
	}
	for i := range g.xs {
		g.xs[i] = -cfg.Width/2 + cfg.Width*float64(i)/float64(cfg.SegmentsX)
	}
	// Row 0 is the far edge, matching a plane built top-down.
	for j := range g.ys {
		g.ys[j] = cfg.Depth/2 - cfg.Depth*float64(j)/float64(cfg.SegmentsY)
	}
	return g
}

// VertexCount returns the number of grid vertices
func (g *WaterGrid) VertexCount() int {
	return len(g.Heights)
}

// Recompute evaluates every vertex for time t in place.
func (g *WaterGrid) Recompute(t float64) {
	g.t = t
	for j, y := range g.ys {
		row := g.Heights[j*g.Cols : (j+1)*g.Cols]
		for i, x := range g.xs {
			row[i] = g.Surface.Height(x, y, t)
		}
	}
}

// At returns the last computed height at grid vertex (col, row)
func (g *WaterGrid) At(col, row int) float64 {
	return g.Heights[row*g.Cols+col]
}

// Time returns the time of the last Recompute
func (g *WaterGrid) Time() float64 {
	return g.t
}
