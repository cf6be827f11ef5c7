package main

// CameraRig follows the player with per-axis exponential smoothing.
type CameraRig struct {
	Pos     Vector3
	LookAt  Vector3
	Forward Vector3 // unit vector from Pos toward LookAt

	offset Vector3
	smooth float64
}

// NewCameraRig places the camera at the offset from the origin, aimed at it.
func NewCameraRig(cfg CameraConfig) *CameraRig {
	c := &CameraRig{
		Pos:    cfg.Offset,
		offset: cfg.Offset,
		smooth: cfg.SmoothFactor,
	}
	c.aim(Vector3{})
	return c
}

// Follow eases toward target+offset, then re-aims at target.
func (c *CameraRig) Follow(target Vector3) {
	c.Pos = c.Pos.Lerp(target.Add(c.offset), c.smooth)
	c.aim(target)
}

func (c *CameraRig) aim(target Vector3) {
	c.LookAt = target
	c.Forward = target.Sub(c.Pos).Normalize()
}

// ToState converts to protocol state
func (c *CameraRig) ToState() CameraState {
	return CameraState{
		Pos:    c.Pos.ToState(),
		LookAt: c.LookAt.ToState(),
	}
}
