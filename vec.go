package main

import "math"

// Vector3 is a plain 3D value type. X is lateral, Y is up and Z runs along the
// travel axis (obstacles approach with increasing Z).
type Vector3 struct {
	X, Y, Z float64
}

// Vec3 is shorthand for Vector3{x, y, z}
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, or the zero vector for zero length
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// Lerp moves v toward o by fraction t per axis
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return Vector3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// ToState converts to the rounded wire form
func (v Vector3) ToState() Vec3State {
	return Vec3State{round2(v.X), round2(v.Y), round2(v.Z)}
}
