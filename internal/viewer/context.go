// Package viewer assembles the figure scene and drives it: camera, lights, ground, orbit controls,
// the asynchronous model load and the per-tick update/render step.
package viewer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chewxy/math32"

	"figure-viewer/internal/controls"
	"figure-viewer/internal/modelload"
	"figure-viewer/internal/scene"
	"figure-viewer/internal/viewerconfig"
)

// Renderer draws a scene from a camera. Implementations own whatever GPU state they need.
type Renderer interface {
	Render(s *scene.Scene, cam *scene.Camera)
	SetSize(width, height int)
}

// LoadState is where the model load is at.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadPending
	LoadAttached
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadPending:
		return "loading"
	case LoadAttached:
		return "ready"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}

// Context is the viewer's state. Everything except the model fetch runs on the goroutine calling Step.
type Context struct {
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *controls.Orbit
	Renderer Renderer
	Ground   *scene.Node
	// Model is the attached model subtree, nil until a load succeeds.
	Model *scene.Node

	neutral modelload.NeutralSpec
	log     *slog.Logger
	pending *modelload.Pending
	state   LoadState
}

// New builds the scene described by cfg.Scene and sizes the camera and renderer to cfg.Viewer.
// r and log may be nil.
func New(cfg viewerconfig.Config, r Renderer, log *slog.Logger) *Context {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sc := cfg.Scene
	c := &Context{
		Scene:    scene.New(),
		Renderer: r,
		log:      log,
		neutral: modelload.NeutralSpec{
			Color:     sc.Neutral.Color.RGBA(),
			Roughness: sc.Neutral.Roughness,
			Metalness: sc.Neutral.Metalness,
		},
	}
	c.Scene.Background = sc.Background.RGBA()

	cam := scene.NewPerspectiveCamera(sc.Camera.FOV, 1, sc.Camera.Near, sc.Camera.Far)
	cam.Position = vec(sc.Camera.Position)
	target := vec(sc.Camera.Target)
	cam.PlaceAround(target, sc.Camera.Distance, sc.Camera.AzimuthDeg)
	c.Camera = cam

	orbit := controls.NewOrbit(cam, target)
	orbit.Damping = sc.Controls.Damping
	orbit.DampingFactor = sc.Controls.DampingFactor
	orbit.RotateSpeed = sc.Controls.RotateSpeed
	orbit.ZoomSpeed = sc.Controls.ZoomSpeed
	orbit.PanSpeed = sc.Controls.PanSpeed
	orbit.MinDistance = sc.Controls.MinDistance
	orbit.MaxDistance = sc.Controls.MaxDistance
	c.Controls = orbit

	c.Scene.Add(lightNode(sc.Ambient, scene.AmbientLight))
	for _, l := range sc.Directional {
		c.Scene.Add(lightNode(l, scene.DirectionalLight))
	}

	gm := sc.Ground.Material
	ground := scene.NewMeshNode("ground", scene.NewMesh(
		scene.CircleGeometry(sc.Ground.Radius, sc.Ground.Segments),
		scene.NewMaterial("ground", gm.Color.RGBA(), gm.Roughness, gm.Metalness),
	))
	ground.Rotation = scene.QuatFromAxisAngle(scene.V3(1, 0, 0), -math32.Pi/2)
	ground.ReceiveShadow = true
	c.Scene.Add(ground)
	c.Ground = ground

	c.Resize(cfg.Viewer.Width, cfg.Viewer.Height)
	return c
}

func vec(v viewerconfig.Vec3) scene.Vec3 {
	return scene.V3(v[0], v[1], v[2])
}

func lightNode(cfg viewerconfig.LightConfig, kind scene.LightKind) *scene.Node {
	l := &scene.Light{
		Kind:       kind,
		Color:      cfg.Color.RGBA(),
		Intensity:  cfg.Intensity,
		CastShadow: cfg.CastShadow,
		Shadow: scene.Shadow{
			MapSize: cfg.Shadow.MapSize,
			Bias:    cfg.Shadow.Bias,
			Radius:  cfg.Shadow.Radius,
		},
	}
	name := cfg.Name
	if name == "" {
		name = kind.String()
	}
	return scene.NewLightNode(name, l, vec(cfg.Position))
}

// StartModelLoad begins fetching ref with loader. The result is attached by a later Step.
// A load already in flight is canceled first.
func (c *Context) StartModelLoad(ctx context.Context, loader *modelload.Loader, ref string) {
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.log.Info("loading model", "ref", ref)
	c.pending = loader.LoadAsync(ctx, ref)
	c.state = LoadPending
}

// State reports the model load state.
func (c *Context) State() LoadState {
	return c.state
}

// Step attaches a finished model, advances the controls and renders one frame.
func (c *Context) Step() {
	c.attachModel()
	c.Controls.Update()
	if c.Renderer != nil {
		c.Renderer.Render(c.Scene, c.Camera)
	}
}

func (c *Context) attachModel() {
	if c.pending == nil {
		return
	}
	res, ok := c.pending.Poll()
	if !ok {
		return
	}
	c.pending = nil
	switch {
	case errors.Is(res.Err, modelload.ErrCanceled):
		c.state = LoadIdle
	case errors.Is(res.Err, modelload.ErrNoScene):
		c.state = LoadFailed
		c.log.Error("model has no scene", "source", res.Source)
	case res.Err != nil:
		c.state = LoadFailed
		c.log.Error("model load failed", "source", res.Source, "err", res.Err)
	default:
		meshes := modelload.Normalize(res.Root, c.neutral)
		c.Scene.Add(res.Root)
		c.Model = res.Root
		c.state = LoadAttached
		c.log.Info("model attached", "source", res.Source, "meshes", meshes)
	}
}

// Resize matches the camera aspect and renderer to a width x height viewport. Non-positive sizes are ignored.
func (c *Context) Resize(width, height int) {
	if !c.Camera.SetAspect(width, height) {
		return
	}
	if c.Renderer != nil {
		c.Renderer.SetSize(width, height)
	}
}

// Close cancels a model load still in flight.
func (c *Context) Close() {
	if c.pending != nil {
		c.pending.Cancel()
	}
}
