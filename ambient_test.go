package main

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestAmbientPopulation(t *testing.T) {
	cfg := DefaultTuning().Ambient
	a := NewAmbientField(cfg, rand.New(rand.NewPCG(3, 4)), 3)
	if len(a.Drifters) != cfg.Clouds.Count+cfg.Birds.Count {
		t.Fatalf("expected %d drifters, got %d", cfg.Clouds.Count+cfg.Birds.Count, len(a.Drifters))
	}
	if st := a.ToState(); len(st) != len(a.Drifters) {
		t.Errorf("state has %d drifters", len(st))
	}
}

func TestAmbientDriftersStayInSpan(t *testing.T) {
	cfg := DefaultTuning().Ambient
	a := NewAmbientField(cfg, rand.New(rand.NewPCG(5, 6)), 5)
	dt := 1.0 / 60
	for i := 1; i <= 60*120; i++ {
		a.Update(dt, float64(i)*dt)
	}
	for i, d := range a.Drifters {
		c := cfg.Clouds
		travel := d.Pos.X
		if d.Kind == DrifterBird {
			c = cfg.Birds
			travel = d.Pos.Z
		}
		if math.Abs(travel) > c.Span+c.Speed.Max*dt {
			t.Errorf("drifter %d escaped its span: %v", i, travel)
		}
		if d.Kind == DrifterBird && math.Abs(d.Pos.Y-d.BaseY) > c.Wobble+1e-9 {
			t.Errorf("bird %d wobble %v exceeds %v", i, d.Pos.Y-d.BaseY, c.Wobble)
		}
		if d.Kind == DrifterCloud && d.Pos.Y != d.BaseY {
			t.Errorf("cloud %d should not wobble", i)
		}
	}
}
