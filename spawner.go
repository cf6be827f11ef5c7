package main

import (
	"math"
	"math/rand/v2"
)

// ObstacleSpawner decides once per Running tick whether a new obstacle
// appears ahead of the player, and places it.
type ObstacleSpawner struct {
	cfg       SpawnerConfig
	rock, log ObstacleProfile
	rng       *rand.Rand
	next      uint64
}

// NewObstacleSpawner creates a spawner drawing from rng
func NewObstacleSpawner(cfg SpawnerConfig, obs ObstaclesConfig, rng *rand.Rand) *ObstacleSpawner {
	return &ObstacleSpawner{
		cfg:  cfg,
		rock: obs.Rock,
		log:  obs.Log,
		rng:  rng,
	}
}

// Roll spawns with the configured probability. It returns nil when nothing
// spawns this tick.
func (s *ObstacleSpawner) Roll(playerZ, elapsed float64) *Obstacle {
	if s.rng.Float64() >= s.cfg.Probability {
		return nil
	}
	kind := KindRock
	if s.rng.Float64() < 0.5 {
		kind = KindLog
	}
	return s.Spawn(kind, playerZ, elapsed)
}

// Spawn places one obstacle of the given kind lead distance ahead of playerZ.
func (s *ObstacleSpawner) Spawn(kind ObstacleKind, playerZ, elapsed float64) *Obstacle {
	idx := s.next
	s.next++

	profile := s.rock
	if kind == KindLog {
		profile = s.log
	}
	o := &Obstacle{
		ID:         GenerateID(4),
		Kind:       kind,
		BaseY:      profile.BaseY,
		SpawnIndex: idx,
		profile:    profile,
	}
	o.Pos = Vector3{
		X: (s.rng.Float64()*2 - 1) * s.cfg.LateralRange,
		Y: profile.BaseY,
		Z: playerZ - s.cfg.LeadDistance,
	}
	if profile.Floats && profile.BobAmplitude != 0 {
		o.Pos.Y = profile.BaseY + profile.BobAmplitude*math.Sin(elapsed*profile.BobSpeed+float64(idx))
	}

	switch kind {
	case KindLog:
		// Lies flat across the water with a random heading.
		o.Rotation = Vector3{Y: s.rng.Float64() * 2 * math.Pi, Z: math.Pi / 2}
	default:
		o.Rotation = Vector3{
			X: s.rng.Float64() * math.Pi,
			Y: s.rng.Float64() * math.Pi,
			Z: s.rng.Float64() * math.Pi,
		}
	}
	return o
}

// Spawned returns how many obstacles this spawner has produced
func (s *ObstacleSpawner) Spawned() uint64 {
	return s.next
}
