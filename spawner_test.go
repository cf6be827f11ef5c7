package main

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func newTestSpawner(seed uint64) *ObstacleSpawner {
	cfg := DefaultTuning()
	return NewObstacleSpawner(cfg.Spawner, cfg.Obstacles, rand.New(rand.NewPCG(seed, seed+1)))
}

func TestSpawnerRateOverManyTicks(t *testing.T) {
	const ticks = 100000
	const want = ticks * 0.02

	counts := make([]float64, 0, 5)
	for seed := uint64(1); seed <= 5; seed++ {
		s := newTestSpawner(seed)
		n := 0
		for i := 0; i < ticks; i++ {
			if s.Roll(0, float64(i)/60) != nil {
				n++
			}
		}
		if math.Abs(float64(n)-want) > want*0.10 {
			t.Errorf("seed %d: %d spawns, want ~%v", seed, n, want)
		}
		counts = append(counts, float64(n))
	}
	if mean := stat.Mean(counts, nil); math.Abs(mean-want) > want*0.05 {
		t.Errorf("mean spawn count %v, want %v +-5%%", mean, want)
	}
}

func TestSpawnerPlacement(t *testing.T) {
	cfg := DefaultTuning()
	s := newTestSpawner(42)

	xs := make([]float64, 0, 4000)
	kinds := map[ObstacleKind]int{}
	for i := 0; i < 4000; i++ {
		kind := KindRock
		if i%2 == 1 {
			kind = KindLog
		}
		o := s.Spawn(kind, 0, 0)
		kinds[o.Kind]++
		if o.Pos.Z != -cfg.Spawner.LeadDistance {
			t.Fatalf("spawned at z=%v, want %v", o.Pos.Z, -cfg.Spawner.LeadDistance)
		}
		if math.Abs(o.Pos.X) > cfg.Spawner.LateralRange {
			t.Fatalf("spawned at x=%v outside range", o.Pos.X)
		}
		if o.SpawnIndex != uint64(i) {
			t.Fatalf("spawn index %d, want %d", o.SpawnIndex, i)
		}
		xs = append(xs, o.Pos.X)
	}
	if kinds[KindRock] != 2000 || kinds[KindLog] != 2000 {
		t.Errorf("kinds = %v", kinds)
	}

	// Uniform on [-3,3]: mean 0, variance 3
	mean, std := stat.MeanStdDev(xs, nil)
	if math.Abs(mean) > 0.15 {
		t.Errorf("lateral mean %v, want ~0", mean)
	}
	if math.Abs(std*std-3) > 0.3 {
		t.Errorf("lateral variance %v, want ~3", std*std)
	}
}

func TestSpawnerKindHeights(t *testing.T) {
	cfg := DefaultTuning()
	s := newTestSpawner(7)

	rock := s.Spawn(KindRock, 0, 10)
	if rock.Pos.Y != cfg.Obstacles.Rock.BaseY {
		t.Errorf("rock y = %v, want %v", rock.Pos.Y, cfg.Obstacles.Rock.BaseY)
	}
	log := s.Spawn(KindLog, 0, 10)
	if math.Abs(log.Pos.Y-cfg.Obstacles.Log.BaseY) > cfg.Obstacles.Log.BobAmplitude+1e-9 {
		t.Errorf("log y = %v outside bob range", log.Pos.Y)
	}
	if log.Rotation.Z != math.Pi/2 {
		t.Errorf("log should lie flat, rotation %+v", log.Rotation)
	}
}

func TestSpawnerZeroProbability(t *testing.T) {
	cfg := DefaultTuning()
	cfg.Spawner.Probability = 0
	s := NewObstacleSpawner(cfg.Spawner, cfg.Obstacles, rand.New(rand.NewPCG(1, 1)))
	for i := 0; i < 10000; i++ {
		if s.Roll(0, 0) != nil {
			t.Fatal("p=0 should never spawn")
		}
	}
}
