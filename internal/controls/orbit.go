package controls

import (
	"github.com/chewxy/math32"

	"figure-viewer/internal/scene"
)

// changeEpsilon is the smallest camera movement Update reports as a change.
const changeEpsilon = 1e-6

// Orbit rotates, zooms and pans a camera around its target. Input calls accumulate deltas;
// Update applies them once per frame. With damping on, each Update applies DampingFactor of the
// outstanding delta and keeps the rest, so motion eases out instead of snapping.
type Orbit struct {
	Camera *scene.Camera
	Target scene.Vec3

	Damping       bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32

	// MinDistance and MaxDistance clamp the camera distance; MaxDistance 0 means unbounded.
	MinDistance float32
	MaxDistance float32

	delta     scene.Spherical // only Phi and Theta are used
	scale     float32
	panOffset scene.Vec3
}

// NewOrbit returns controls for cam around target with damping factor 0.05.
func NewOrbit(cam *scene.Camera, target scene.Vec3) *Orbit {
	cam.Target = target
	return &Orbit{
		Camera:        cam,
		Target:        target,
		Damping:       true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		scale:         1,
	}
}

// Rotate feeds a pointer drag of (dx, dy) pixels on a viewport viewportHeight pixels tall.
// A drag across the full height turns the camera by one revolution times RotateSpeed.
func (o *Orbit) Rotate(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	o.RotateLeft(2 * math32.Pi * dx / viewportHeight * o.RotateSpeed)
	o.RotateUp(2 * math32.Pi * dy / viewportHeight * o.RotateSpeed)
}

// RotateLeft turns the camera around the target's vertical axis by angle radians.
func (o *Orbit) RotateLeft(angle float32) {
	o.delta.Theta -= angle
}

// RotateUp tilts the camera over the target by angle radians.
func (o *Orbit) RotateUp(angle float32) {
	o.delta.Phi -= angle
}

// Zoom feeds wheel steps; positive steps move the camera closer.
func (o *Orbit) Zoom(steps float32) {
	if steps == 0 {
		return
	}
	s := math32.Pow(0.95, o.ZoomSpeed*math32.Abs(steps))
	if steps > 0 {
		o.scale *= s
	} else {
		o.scale /= s
	}
}

// Pan feeds a drag of (dx, dy) pixels that moves camera and target together in the view plane.
func (o *Orbit) Pan(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	cam := o.Camera
	dist := cam.Position.Sub(o.Target).Length()
	// distance covered by the full viewport height at the target
	extent := 2 * dist * math32.Tan(scene.DegToRad(cam.FOV/2))
	right := cam.Right()
	up := right.Cross(cam.Forward()).Normalize()
	move := right.Scale(-dx * extent / viewportHeight * o.PanSpeed).
		Add(up.Scale(dy * extent / viewportHeight * o.PanSpeed))
	o.panOffset = o.panOffset.Add(move)
}

// Update applies outstanding input to the camera and reports whether the camera moved.
func (o *Orbit) Update() bool {
	cam := o.Camera
	before := cam.Position

	s := scene.SphericalFromVector(cam.Position.Sub(o.Target))
	if o.Damping {
		s.Theta += o.delta.Theta * o.DampingFactor
		s.Phi += o.delta.Phi * o.DampingFactor
	} else {
		s.Theta += o.delta.Theta
		s.Phi += o.delta.Phi
	}
	s = s.MakeSafe()

	s.Radius *= o.scale
	s.Radius = math32.Max(o.MinDistance, s.Radius)
	if o.MaxDistance > 0 {
		s.Radius = math32.Min(o.MaxDistance, s.Radius)
	}

	if o.Damping {
		o.Target = o.Target.Add(o.panOffset.Scale(o.DampingFactor))
	} else {
		o.Target = o.Target.Add(o.panOffset)
	}

	cam.Target = o.Target
	cam.Position = o.Target.Add(s.Vector())

	if o.Damping {
		keep := 1 - o.DampingFactor
		o.delta.Theta *= keep
		o.delta.Phi *= keep
		o.panOffset = o.panOffset.Scale(keep)
	} else {
		o.delta = scene.Spherical{}
		o.panOffset = scene.Vec3{}
	}
	o.scale = 1

	moved := cam.Position.Sub(before)
	return moved.Dot(moved) > changeEpsilon
}

// Pending reports whether damped input is still being applied.
func (o *Orbit) Pending() bool {
	return math32.Abs(o.delta.Theta) > changeEpsilon ||
		math32.Abs(o.delta.Phi) > changeEpsilon ||
		o.panOffset.Length() > changeEpsilon
}
