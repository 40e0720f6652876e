package scene

// Camera is a perspective camera looking at Target. Aspect is width/height of the render surface.
type Camera struct {
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position Vec3
	Target   Vec3
	Up       Vec3
}

// NewPerspectiveCamera returns a camera at the origin looking down -Z with +Y up.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: Vec3{Z: -1},
		Up:     Vec3{Y: 1},
	}
}

// SetAspect derives the aspect ratio from a viewport size. Non-positive sizes are ignored and false is returned.
func (c *Camera) SetAspect(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	return true
}

// Offset is the vector from Target to Position.
func (c *Camera) Offset() Vec3 {
	return c.Position.Sub(c.Target)
}

// PlaceAround moves the camera to look at target from radius units away at the given azimuth.
// The polar angle is whatever the current offset from target implies.
func (c *Camera) PlaceAround(target Vec3, radius, azimuthDeg float32) {
	s := SphericalFromVector(c.Position.Sub(target))
	s.Radius = radius
	s.Theta = DegToRad(azimuthDeg)
	c.Target = target
	c.Position = target.Add(s.Vector())
}

// Forward is the unit view direction.
func (c *Camera) Forward() Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right is the unit screen-right direction.
func (c *Camera) Right() Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}
