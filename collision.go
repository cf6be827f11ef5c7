package main

import "math"

// CheckBoxCollision reports whether two logical footprints overlap: strictly
// within reach on the lateral and travel axes, and within reachY vertically.
func CheckBoxCollision(a, b Vector3, reach, reachY float64) bool {
	return math.Abs(a.X-b.X) < reach &&
		math.Abs(a.Z-b.Z) < reach &&
		math.Abs(a.Y-b.Y) < reachY
}
