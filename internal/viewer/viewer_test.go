package viewer

import (
	"context"
	"image/color"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figure-viewer/internal/gltftest"
	"figure-viewer/internal/logger"
	"figure-viewer/internal/modelload"
	"figure-viewer/internal/scene"
	"figure-viewer/internal/viewerconfig"
)

type fakeRenderer struct {
	frames        int
	width, height int
	lastScene     *scene.Scene
}

func (f *fakeRenderer) Render(s *scene.Scene, _ *scene.Camera) {
	f.frames++
	f.lastScene = s
}

func (f *fakeRenderer) SetSize(w, h int) {
	f.width, f.height = w, h
}

func newTestContext(t *testing.T) (*Context, *fakeRenderer, *logger.Logger) {
	t.Helper()
	l := logger.New(filepath.Join(t.TempDir(), "viewer.txt"), slog.LevelInfo)
	l.SetConsole(nil)
	r := &fakeRenderer{}
	return New(viewerconfig.Default(), r, l.Slog()), r, l
}

func errorLines(l *logger.Logger) []string {
	var out []string
	for _, line := range l.Lines() {
		if strings.Contains(line, " ERROR ") {
			out = append(out, line)
		}
	}
	return out
}

// stepUntil runs Step until the load leaves the pending state.
func stepUntil(t *testing.T, c *Context) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.State() == LoadPending {
		if time.Now().After(deadline) {
			t.Fatal("model load did not finish")
		}
		c.Step()
		time.Sleep(time.Millisecond)
	}
}

func TestNewCameraPlacement(t *testing.T) {
	c, r, _ := newTestContext(t)
	cam := c.Camera

	assert.Equal(t, float32(75), cam.FOV)
	assert.Equal(t, float32(0.1), cam.Near)
	assert.Equal(t, float32(1000), cam.Far)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect, 1e-5)
	assert.Equal(t, 1280, r.width)
	assert.Equal(t, 720, r.height)

	target := scene.V3(0, 1.1, 0)
	assert.Equal(t, target, cam.Target)
	off := cam.Position.Sub(target)
	assert.InDelta(t, 5.35, off.Length(), 1e-4)
	assert.InDelta(t, 25, scene.RadToDeg(math32.Atan2(off.X, off.Z)), 1e-3)
	// polar angle of the default (0, 1.5, 3) offset is kept
	wantPhi := math32.Acos(0.4 / math32.Sqrt(0.4*0.4+9))
	assert.InDelta(t, wantPhi, math32.Acos(off.Y/off.Length()), 1e-4)
}

func TestNewLightsAndGround(t *testing.T) {
	c, _, _ := newTestContext(t)
	assert.Equal(t, color.RGBA{0xf4, 0xf4, 0xf4, 0xff}, c.Scene.Background)

	lights := c.Scene.Lights()
	require.Len(t, lights, 4)
	amb := lights[0].Light
	assert.Equal(t, scene.AmbientLight, amb.Kind)
	assert.Equal(t, color.RGBA{0xff, 0xf0, 0xe5, 0xff}, amb.Color)
	assert.Equal(t, float32(0.6), amb.Intensity)

	sun := c.Scene.Root.Find("sun")
	require.NotNil(t, sun)
	assert.Equal(t, scene.V3(-6, 9, 6), sun.Position)
	assert.True(t, sun.Light.CastShadow)
	assert.Equal(t, 2048, sun.Light.Shadow.MapSize)
	assert.Equal(t, float32(4), sun.Light.Shadow.Radius)
	assert.Equal(t, float32(-0.0002), sun.Light.Shadow.Bias)

	key := c.Scene.Root.Find("key")
	require.NotNil(t, key)
	assert.Equal(t, float32(0.8), key.Light.Intensity)
	assert.Equal(t, float32(-0.0005), key.Light.Shadow.Bias)

	rim := c.Scene.Root.Find("rim")
	require.NotNil(t, rim)
	assert.False(t, rim.Light.CastShadow)
	assert.Equal(t, scene.V3(-4, 4, -3), rim.Position)

	g := c.Ground
	assert.True(t, g.ReceiveShadow)
	assert.False(t, g.CastShadow)
	assert.Equal(t, 50, g.Mesh.Geometry.VertexCount())
	assert.Equal(t, 48, g.Mesh.Geometry.TriangleCount())
	assert.Equal(t, color.RGBA{0xfa, 0xf5, 0xf0, 0xff}, g.Mesh.Material().Color)
	// rotated flat: the disc normal +Z now points up
	up := g.Rotation.Rotate(scene.V3(0, 0, 1))
	assert.InDelta(t, 1, up.Y, 1e-5)
}

func TestResize(t *testing.T) {
	c, r, _ := newTestContext(t)
	c.Resize(800, 400)
	assert.InDelta(t, 2, c.Camera.Aspect, 1e-6)
	assert.Equal(t, 800, r.width)

	c.Resize(0, 400)
	c.Resize(800, -1)
	assert.InDelta(t, 2, c.Camera.Aspect, 1e-6)
	assert.Equal(t, 800, r.width)
	assert.Equal(t, 400, r.height)
}

func TestStepAttachesModelOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "figure.glb"), gltftest.Figure(), 0644))

	c, r, l := newTestContext(t)
	before := c.Scene.Root.Count()
	c.StartModelLoad(context.Background(), &modelload.Loader{Base: dir}, "figure.glb")
	assert.Equal(t, LoadPending, c.State())

	stepUntil(t, c)
	require.Equal(t, LoadAttached, c.State())
	require.NotNil(t, c.Model)
	assert.Same(t, c.Scene.Root, c.Model.Parent())
	assert.Equal(t, before+c.Model.Count(), c.Scene.Root.Count())

	c.Step()
	c.Step()
	assert.Equal(t, before+c.Model.Count(), c.Scene.Root.Count())
	assert.Empty(t, errorLines(l))
	assert.Same(t, c.Scene, r.lastScene)

	for _, mn := range c.Model.Meshes() {
		assert.True(t, mn.CastShadow)
		for _, m := range mn.Mesh.Materials {
			assert.Equal(t, color.RGBA{0x80, 0x80, 0x80, 0xff}, m.Color)
		}
	}
	assert.True(t, c.Model.Find("Body").Mesh.Materials[1].Skinning)
}

func TestStepLogsOneErrorOnFailure(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		want string
	}{
		{"noscene", gltftest.Empty(), "model has no scene"},
		{"garbage", []byte("garbage"), "model load failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "m.glb"), tc.data, 0644))

			c, r, l := newTestContext(t)
			before := c.Scene.Root.Count()
			c.StartModelLoad(context.Background(), &modelload.Loader{Base: dir}, "m.glb")
			stepUntil(t, c)
			c.Step()

			assert.Equal(t, LoadFailed, c.State())
			assert.Nil(t, c.Model)
			assert.Equal(t, before, c.Scene.Root.Count())
			errs := errorLines(l)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tc.want)
			assert.Greater(t, r.frames, 0)
		})
	}
}

func TestRunWithStepper(t *testing.T) {
	c, r, _ := newTestContext(t)
	start := c.Camera.Position
	err := Run(context.Background(), Stepper{N: 30, Before: func(i int) {
		if i == 0 {
			c.Controls.RotateLeft(0.5)
		}
	}}, c)
	require.NoError(t, err)
	assert.Equal(t, 30, r.frames)
	assert.NotEqual(t, start, c.Camera.Position)
	assert.InDelta(t, 5.35, c.Camera.Position.Sub(c.Camera.Target).Length(), 1e-3)
}

func TestRunStopsWithContext(t *testing.T) {
	c, r, _ := newTestContext(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, Run(ctx, Interval{Period: time.Millisecond}, c))
	assert.Greater(t, r.frames, 0)

	ctx, cancel2 := context.WithCancel(context.Background())
	cancel2()
	assert.ErrorIs(t, Run(ctx, Stepper{N: 5}, c), context.Canceled)
}

func TestCloseCancelsLoad(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _, l := newTestContext(t)
	c.StartModelLoad(context.Background(), &modelload.Loader{Base: srv.URL + "/", Client: srv.Client()}, "x.glb")
	c.Close()
	stepUntil(t, c)
	assert.Equal(t, LoadIdle, c.State())
	assert.Empty(t, errorLines(l))
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "loading", LoadPending.String())
	assert.Equal(t, "ready", LoadAttached.String())
	assert.Equal(t, "unknown", LoadState(99).String())
}
