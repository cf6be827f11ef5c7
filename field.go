package main

// ObstacleField owns the active obstacles of one run.
type ObstacleField struct {
	obstacles  []*Obstacle
	passMargin float64
}

// NewObstacleField creates an empty field
func NewObstacleField(cfg ObstaclesConfig) *ObstacleField {
	return &ObstacleField{
		obstacles:  make([]*Obstacle, 0, 64),
		passMargin: cfg.PassMargin,
	}
}

// Add takes ownership of o
func (f *ObstacleField) Add(o *Obstacle) {
	f.obstacles = append(f.obstacles, o)
}

// Advance moves every obstacle toward the player by speed.
func (f *ObstacleField) Advance(speed, elapsed float64) {
	for _, o := range f.obstacles {
		o.Advance(speed, elapsed)
	}
}

// FirstCollision returns any obstacle touching the player footprint, or nil.
// Which one is returned when several overlap is unspecified.
func (f *ObstacleField) FirstCollision(pos Vector3, footprint float64) *Obstacle {
	for _, o := range f.obstacles {
		if o.Collides(pos, footprint) {
			return o
		}
	}
	return nil
}

// Recycle removes every obstacle that is past the player by the pass margin
// and returns how many were removed. Survivors are compacted in place, so the
// slice is never mutated under a live range.
func (f *ObstacleField) Recycle(playerZ float64) int {
	kept := f.obstacles[:0]
	removed := 0
	for _, o := range f.obstacles {
		if o.Passed(playerZ, f.passMargin) {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	// Drop references held by the tail so recycled obstacles can be collected.
	for i := len(kept); i < len(f.obstacles); i++ {
		f.obstacles[i] = nil
	}
	f.obstacles = kept
	return removed
}

// Len returns the number of active obstacles
func (f *ObstacleField) Len() int {
	return len(f.obstacles)
}

// Obstacles exposes the active obstacles for read-only use
func (f *ObstacleField) Obstacles() []*Obstacle {
	return f.obstacles
}
