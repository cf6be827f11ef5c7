package main

import "math/rand/v2"

// Particle is one point of a spray burst. Positions are local to the emitter
// origin.
type Particle struct {
	Local Vector3
	Vel   Vector3
}

// ParticleEmitter is a fixed pool of spray particles fired as one burst.
// The pool is allocated once and never resized.
type ParticleEmitter struct {
	particles []Particle
	size      float64
	tier      SprayTier
	origin    Vector3
	life      float64
	active    bool
	decay     float64 // life lost per second
	gravity   float64 // per reference step
	refStep   float64
	rng       *rand.Rand
}

// NewParticleEmitter allocates an inactive pool of count particles.
func NewParticleEmitter(cfg EmitterConfig, pc ParticlesConfig, rng *rand.Rand) *ParticleEmitter {
	return &ParticleEmitter{
		particles: make([]Particle, cfg.Count),
		size:      cfg.Size,
		tier:      cfg.Tier,
		decay:     pc.LifeDecay,
		gravity:   pc.Gravity,
		refStep:   pc.RefStep,
		rng:       rng,
	}
}

// Trigger restarts the burst at origin: every particle returns to the origin,
// life resets to 1 and velocities are redrawn from the spray tier.
func (e *ParticleEmitter) Trigger(origin Vector3) {
	e.origin = origin
	e.life = 1.0
	e.active = true
	for i := range e.particles {
		p := &e.particles[i]
		p.Local = Vector3{}
		p.Vel = Vector3{
			X: e.draw(e.tier.Lateral),
			Y: e.draw(e.tier.Upward),
			Z: e.draw(e.tier.Depth),
		}
	}
}

func (e *ParticleEmitter) draw(r Range) float64 {
	return r.Min + e.rng.Float64()*(r.Max-r.Min)
}

// Update decays the burst and integrates particle motion. Motion constants are
// expressed per reference step and scaled by dt/refStep.
func (e *ParticleEmitter) Update(dt float64) {
	if !e.active {
		return
	}
	e.life -= dt * e.decay
	if e.life <= 0 {
		e.active = false
		return
	}
	k := dt / e.refStep
	for i := range e.particles {
		p := &e.particles[i]
		p.Vel.Y -= e.gravity * k
		p.Local.X += p.Vel.X * k
		p.Local.Y += p.Vel.Y * k
		p.Local.Z += p.Vel.Z * k
	}
}

// Active reports whether the burst is visible
func (e *ParticleEmitter) Active() bool { return e.active }

// Life returns the remaining burst life in [0,1]
func (e *ParticleEmitter) Life() float64 { return e.life }

// Origin returns where the current burst was fired
func (e *ParticleEmitter) Origin() Vector3 { return e.origin }

// Size returns the point size for the renderer
func (e *ParticleEmitter) Size() float64 { return e.size }

// Len returns the pool size
func (e *ParticleEmitter) Len() int { return len(e.particles) }

// Particles exposes the pool for read-only use by the frame builder
func (e *ParticleEmitter) Particles() []Particle { return e.particles }

// ToState converts to protocol state. Inactive emitters carry no points.
func (e *ParticleEmitter) ToState() EmitterState {
	s := EmitterState{
		Active: e.active,
		Life:   round2(e.life),
		Size:   e.size,
		Origin: e.origin.ToState(),
	}
	if !e.active {
		return s
	}
	s.Points = make([]Vec3State, len(e.particles))
	for i, p := range e.particles {
		s.Points[i] = p.Local.ToState()
	}
	return s
}
