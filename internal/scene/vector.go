package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a 3D vector in world units. Y is up.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3From converts an mgl32 vector.
func Vec3From(v mgl32.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Mgl returns v as an mgl32 vector.
func (v Vec3) Mgl() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3From(v.Mgl().Add(o.Mgl())) }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3From(v.Mgl().Sub(o.Mgl())) }
func (v Vec3) Scale(s float32) Vec3 { return Vec3From(v.Mgl().Mul(s)) }
func (v Vec3) Dot(o Vec3) float32   { return v.Mgl().Dot(o.Mgl()) }
func (v Vec3) Cross(o Vec3) Vec3    { return Vec3From(v.Mgl().Cross(o.Mgl())) }
func (v Vec3) Length() float32      { return v.Mgl().Len() }

// Normalize returns v scaled to unit length; the zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	if v.Length() == 0 {
		return v
	}
	return Vec3From(v.Mgl().Normalize())
}

// Min and Max are component-wise.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y), math32.Min(v.Z, o.Z)}
}

func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y), math32.Max(v.Z, o.Z)}
}

// Quat is a unit rotation quaternion (x, y, z, w), glTF order.
type Quat struct {
	X, Y, Z, W float32
}

// QuatFrom converts an mgl32 quaternion.
func QuatFrom(q mgl32.Quat) Quat { return Quat{q.V[0], q.V[1], q.V[2], q.W} }

// Mgl returns q as an mgl32 quaternion.
func (q Quat) Mgl() mgl32.Quat { return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}} }

// IdentityQuat is the no-rotation quaternion.
func IdentityQuat() Quat { return QuatFrom(mgl32.QuatIdent()) }

// QuatFromAxisAngle returns the rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return QuatFrom(mgl32.QuatRotate(angle, axis.Normalize().Mgl()))
}

// IsZero reports whether q is the all-zero value, which callers treat as "unset".
func (q Quat) IsZero() bool { return q == Quat{} }

// Mul returns q*o (apply o first, then q).
func (q Quat) Mul(o Quat) Quat { return QuatFrom(q.Mgl().Mul(o.Mgl())) }

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 { return Vec3From(q.Mgl().Rotate(v.Mgl())) }

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 { return mgl32.DegToRad(deg) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 { return mgl32.RadToDeg(rad) }
