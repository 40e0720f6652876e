package graphics

import (
	"image/color"
	"log/slog"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"figure-viewer/internal/scene"
)

// gpuPart is one uploaded geometry group.
type gpuPart struct {
	mesh          rl.Mesh
	materialIndex int
	// pin keeps the Go-owned vertex arrays in place while raylib holds pointers to them.
	pin *runtime.Pinner
}

// Renderer draws scene graphs with raylib. Geometry is uploaded on first draw and cached by pointer, so
// it must be created after the window exists and used only on the window's thread.
type Renderer struct {
	// Overlay, if set, is drawn in screen space after the 3D pass.
	Overlay func()

	log      *slog.Logger
	lit      litShader
	material rl.Material
	parts    map[*scene.Geometry][]gpuPart
	width    int
	height   int
}

// NewRenderer loads the lit shader. Call after Open.
func NewRenderer(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Renderer{
		log:      log,
		lit:      loadLitShader(),
		material: rl.LoadMaterialDefault(),
		parts:    make(map[*scene.Geometry][]gpuPart),
		width:    int(rl.GetScreenWidth()),
		height:   int(rl.GetScreenHeight()),
	}
	if r.lit.valid() {
		r.material.Shader = r.lit.shader
	} else {
		log.Warn("lit shader failed to compile; falling back to flat colors")
	}
	return r
}

// SetSize resizes the window when the requested size differs from the current one.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	if int(rl.GetScreenWidth()) != width || int(rl.GetScreenHeight()) != height {
		rl.SetWindowSize(width, height)
	}
}

// Render draws one frame of s seen from cam.
func (r *Renderer) Render(s *scene.Scene, cam *scene.Camera) {
	rl.BeginDrawing()
	rl.ClearBackground(toColor(s.Background))

	if r.lit.valid() {
		r.lit.setFrame(gatherLights(s), cam.Position)
	}
	rl.BeginMode3D(rl.Camera3D{
		Position:   vec3(cam.Position),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up),
		Fovy:       cam.FOV,
		Projection: rl.CameraPerspective,
	})
	walk(s.Root, rl.MatrixIdentity(), func(n *scene.Node, world rl.Matrix) {
		if n.IsMesh() {
			r.drawMesh(n.Mesh, world)
		}
	})
	rl.EndMode3D()

	if r.Overlay != nil {
		r.Overlay()
	}
	rl.EndDrawing()
}

func (r *Renderer) drawMesh(m *scene.Mesh, world rl.Matrix) {
	for _, p := range r.upload(m.Geometry) {
		mat := slot(m, p.materialIndex)
		if mat == nil {
			continue
		}
		if albedo := r.material.GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = toColor(mat.Color)
		}
		if r.lit.valid() {
			r.lit.setSurface(mat)
		}
		if mat.DoubleSided {
			rl.DisableBackfaceCulling()
		}
		rl.DrawMesh(p.mesh, r.material, world)
		if mat.DoubleSided {
			rl.EnableBackfaceCulling()
		}
	}
}

// slot picks the material for a group. Single-slot meshes use their one material for every group;
// groups with no material are skipped.
func slot(m *scene.Mesh, index int) *scene.Material {
	if !m.MultiMaterial {
		return m.Material()
	}
	if index < 0 || index >= len(m.Materials) {
		return nil
	}
	return m.Materials[index]
}

// upload returns the cached GPU parts of g, uploading them on first use.
func (r *Renderer) upload(g *scene.Geometry) []gpuPart {
	if parts, ok := r.parts[g]; ok {
		return parts
	}
	var parts []gpuPart
	for _, grp := range groups(g) {
		pos, nrm := expand(g, grp)
		if len(pos) == 0 {
			continue
		}
		pin := new(runtime.Pinner)
		pin.Pin(&pos[0])
		pin.Pin(&nrm[0])
		mesh := rl.Mesh{
			VertexCount:   int32(len(pos) / 3),
			TriangleCount: int32(len(pos) / 9),
			Vertices:      &pos[0],
			Normals:       &nrm[0],
		}
		rl.UploadMesh(&mesh, false)
		parts = append(parts, gpuPart{mesh: mesh, materialIndex: grp.MaterialIndex, pin: pin})
	}
	r.parts[g] = parts
	return parts
}

// Close releases uploaded meshes and the shader.
func (r *Renderer) Close() {
	for g, parts := range r.parts {
		for i := range parts {
			p := &parts[i]
			// the CPU arrays belong to Go; only the GPU buffers are raylib's to free
			p.mesh.Vertices = nil
			p.mesh.Normals = nil
			rl.UnloadMesh(&p.mesh)
			p.pin.Unpin()
		}
		delete(r.parts, g)
	}
	if r.lit.valid() {
		rl.UnloadShader(r.lit.shader)
	}
}

func vec3(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
