package main

import (
	"fmt"
	"math"
)

// ObstacleKind distinguishes obstacle profiles
type ObstacleKind int

const (
	KindRock ObstacleKind = iota
	KindLog
)

func (k ObstacleKind) String() string {
	switch k {
	case KindRock:
		return "rock"
	case KindLog:
		return "log"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Obstacle is something in the water to dodge. Its collision footprint is the
// fixed unit box regardless of how the renderer dresses it.
type Obstacle struct {
	ID         string
	Kind       ObstacleKind
	Pos        Vector3
	BaseY      float64
	Rotation   Vector3 // Euler angles, radians
	SpawnIndex uint64
	profile    ObstacleProfile
}

// Advance moves the obstacle toward the player by speed and updates bobbing.
func (o *Obstacle) Advance(speed, elapsed float64) {
	o.Pos.Z += speed
	if o.profile.Floats && o.profile.BobAmplitude != 0 {
		phase := float64(o.SpawnIndex)
		o.Pos.Y = o.BaseY + o.profile.BobAmplitude*math.Sin(elapsed*o.profile.BobSpeed+phase)
	}
}

// Collides tests the obstacle against a player footprint at pos.
func (o *Obstacle) Collides(pos Vector3, footprint float64) bool {
	return CheckBoxCollision(pos, o.Pos, footprint, o.profile.VerticalReach)
}

// Passed reports whether the obstacle is past the player by margin
func (o *Obstacle) Passed(playerZ, margin float64) bool {
	return o.Pos.Z > playerZ+margin
}

// ToState converts to protocol state
func (o *Obstacle) ToState() ObstacleState {
	return ObstacleState{
		ID:   o.ID,
		Kind: uint8(o.Kind),
		Pos:  o.Pos.ToState(),
		Rot:  o.Rotation.ToState(),
	}
}
