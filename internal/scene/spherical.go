package scene

import "github.com/chewxy/math32"

// polarEpsilon keeps the polar angle off the poles, where the azimuth is undefined.
const polarEpsilon = 1e-6

// Spherical is a Y-up spherical coordinate: Radius, Phi (polar angle from +Y) and Theta
// (azimuth around Y, measured from +Z toward +X).
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVector converts a cartesian offset. The zero vector maps to the zero Spherical.
func SphericalFromVector(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	y := v.Y / r
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	return Spherical{
		Radius: r,
		Theta:  math32.Atan2(v.X, v.Z),
		Phi:    math32.Acos(y),
	}
}

// Vector converts back to a cartesian offset.
func (s Spherical) Vector() Vec3 {
	sinPhi, cosPhi := math32.Sincos(s.Phi)
	sinTheta, cosTheta := math32.Sincos(s.Theta)
	r := sinPhi * s.Radius
	return Vec3{
		X: r * sinTheta,
		Y: cosPhi * s.Radius,
		Z: r * cosTheta,
	}
}

// MakeSafe clamps Phi into (0, π) so the offset never lies exactly on the Y axis.
func (s Spherical) MakeSafe() Spherical {
	s.Phi = math32.Max(polarEpsilon, math32.Min(math32.Pi-polarEpsilon, s.Phi))
	return s
}
