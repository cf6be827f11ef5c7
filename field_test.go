package main

import (
	"math"
	"testing"
)

func newTestObstacle(kind ObstacleKind, pos Vector3) *Obstacle {
	cfg := DefaultTuning()
	profile := cfg.Obstacles.Rock
	if kind == KindLog {
		profile = cfg.Obstacles.Log
	}
	return &Obstacle{ID: GenerateID(4), Kind: kind, Pos: pos, BaseY: profile.BaseY, profile: profile}
}

func TestFieldRecycleCountsEachObstacleOnce(t *testing.T) {
	f := NewObstacleField(DefaultTuning().Obstacles)
	f.Add(newTestObstacle(KindRock, Vec3(2, 0.5, 4.8)))
	f.Add(newTestObstacle(KindRock, Vec3(-2, 0.5, 5.1)))
	f.Add(newTestObstacle(KindRock, Vec3(0, 0.5, -20)))

	if n := f.Recycle(0); n != 1 {
		t.Fatalf("first recycle removed %d, want 1", n)
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 obstacles left, got %d", f.Len())
	}
	if n := f.Recycle(0); n != 0 {
		t.Errorf("second recycle removed %d, want 0", n)
	}

	f.Advance(0.3, 0)
	if n := f.Recycle(0); n != 1 {
		t.Errorf("after advance removed %d, want 1", n)
	}
	if math.Abs(f.Obstacles()[0].Pos.Z+19.7) > 1e-9 {
		t.Errorf("survivor z = %v", f.Obstacles()[0].Pos.Z)
	}
}

func TestFieldRecycleClearsTail(t *testing.T) {
	f := NewObstacleField(DefaultTuning().Obstacles)
	for i := 0; i < 4; i++ {
		f.Add(newTestObstacle(KindRock, Vec3(0, 0.5, 10)))
	}
	backing := f.obstacles[:4]
	f.Recycle(0)
	for i, o := range backing {
		if o != nil {
			t.Errorf("slot %d still references a recycled obstacle", i)
		}
	}
}

func TestFieldFirstCollision(t *testing.T) {
	f := NewObstacleField(DefaultTuning().Obstacles)
	f.Add(newTestObstacle(KindRock, Vec3(2.5, 0.5, 0)))
	boat := Vec3(0, 1.2, 0)
	if f.FirstCollision(boat, 1) != nil {
		t.Fatal("no obstacle should touch the boat")
	}
	hit := newTestObstacle(KindLog, Vec3(0.5, 0.25, 0.5))
	f.Add(hit)
	if got := f.FirstCollision(boat, 1); got != hit {
		t.Errorf("FirstCollision = %v, want the log", got)
	}
}

func TestLogBobsWhileAdvancing(t *testing.T) {
	cfg := DefaultTuning()
	o := newTestObstacle(KindLog, Vec3(0, 0.25, -40))
	o.SpawnIndex = 3
	for i := 1; i <= 120; i++ {
		elapsed := float64(i) / 60
		o.Advance(0.3, elapsed)
		want := 0.25 + cfg.Obstacles.Log.BobAmplitude*math.Sin(elapsed*cfg.Obstacles.Log.BobSpeed+3)
		if math.Abs(o.Pos.Y-want) > 1e-12 {
			t.Fatalf("tick %d: y = %v, want %v", i, o.Pos.Y, want)
		}
	}

	rock := newTestObstacle(KindRock, Vec3(0, 0.5, -40))
	rock.Advance(0.3, 1.0)
	if rock.Pos.Y != 0.5 {
		t.Errorf("rock should not bob, y = %v", rock.Pos.Y)
	}
}
