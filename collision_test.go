package main

import "testing"

func TestCheckBoxCollision(t *testing.T) {
	player := Vec3(0, 1, 0)

	// Diagonal overlap
	if !CheckBoxCollision(player, Vec3(0.5, 1, 0.5), 1, 1) {
		t.Error("boxes should collide (|dx|=0.5, |dz|=0.5)")
	}

	// Lateral miss
	if CheckBoxCollision(player, Vec3(1.5, 1, 0), 1, 1) {
		t.Error("boxes should not collide (|dx|=1.5)")
	}

	// Touching edges do not collide
	if CheckBoxCollision(player, Vec3(1, 1, 0), 1, 1) {
		t.Error("touching boxes should not collide")
	}

	// Same position
	if !CheckBoxCollision(player, player, 1, 1) {
		t.Error("same position should collide")
	}
}

func TestCheckBoxCollisionVerticalReach(t *testing.T) {
	boat := Vec3(0, 1.2, 0)
	log := Vec3(0, 0.25, 0) // |dy| = 0.95

	if !CheckBoxCollision(boat, log, 1, 1.5) {
		t.Error("floating log should reach the boat")
	}
	if CheckBoxCollision(boat, Vec3(0, -0.5, 0), 1, 1.5) {
		t.Error("|dy|=1.7 should be out of reach")
	}
	if CheckBoxCollision(Vec3(0, 2.5, 0), Vec3(0, 0.5, 0), 1, 1) {
		t.Error("rock should not reach a boat 2 units above it")
	}
}

func TestObstacleCollidesUsesProfileReach(t *testing.T) {
	cfg := DefaultTuning()
	rock := &Obstacle{Kind: KindRock, Pos: Vec3(0, 0.5, 0), profile: cfg.Obstacles.Rock}
	log := &Obstacle{Kind: KindLog, Pos: Vec3(0, 0.25, 0), profile: cfg.Obstacles.Log}

	// Boat with the loaded model sits at 1.2
	pos := Vec3(0.3, cfg.Player.ModelY, 0.3)
	if !rock.Collides(pos, cfg.Player.Footprint) {
		t.Error("rock at |dy|=0.7 should collide")
	}
	if !log.Collides(pos, cfg.Player.Footprint) {
		t.Error("log at |dy|=0.95 should collide")
	}
	pos.X = 1.2
	if rock.Collides(pos, cfg.Player.Footprint) || log.Collides(pos, cfg.Player.Footprint) {
		t.Error("lateral miss should not collide")
	}
}
