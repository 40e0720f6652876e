package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"figure-viewer/internal/scene"
)

// maxLights is the number of directional lights the lit shader takes. Unused slots are black.
const maxLights = 4

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	// litFS: ambient plus up to maxLights directional lights, Blinn-Phong highlight shrinking with roughness.
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 ambient;
uniform vec3 lightDirs[4];
uniform vec3 lightColors[4];
uniform float roughness;
uniform float metalness;
out vec4 finalColor;
void main() {
  vec3 base = colDiffuse.rgb;
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  vec3 V = normalize(viewPos - fragPosition);
  vec3 color = ambient * base;
  float shininess = mix(96.0, 4.0, roughness);
  float strength = (1.0 - roughness) * mix(0.25, 1.0, metalness);
  vec3 specTint = mix(vec3(1.0), base, metalness);
  for (int i = 0; i < 4; i++) {
    vec3 L = normalize(-lightDirs[i]);
    float NdotL = max(dot(N, L), 0.0);
    vec3 H = normalize(L + V);
    float spec = pow(max(dot(N, H), 0.0), shininess) * strength;
    color += lightColors[i] * (base * (1.0 - metalness * 0.5) * NdotL + specTint * spec * step(0.0, NdotL));
  }
  finalColor = vec4(color, colDiffuse.a);
}
`
)

// litShader is the compiled shader plus its uniform locations.
type litShader struct {
	shader      rl.Shader
	viewPos     int32
	ambient     int32
	lightDirs   int32
	lightColors int32
	roughness   int32
	metalness   int32
}

func loadLitShader() litShader {
	sh := rl.LoadShaderFromMemory(litVS, litFS)
	return litShader{
		shader:      sh,
		viewPos:     rl.GetShaderLocation(sh, "viewPos"),
		ambient:     rl.GetShaderLocation(sh, "ambient"),
		lightDirs:   rl.GetShaderLocation(sh, "lightDirs"),
		lightColors: rl.GetShaderLocation(sh, "lightColors"),
		roughness:   rl.GetShaderLocation(sh, "roughness"),
		metalness:   rl.GetShaderLocation(sh, "metalness"),
	}
}

func (l litShader) valid() bool {
	return rl.IsShaderValid(l.shader)
}

// lightRig is the per-frame light state gathered from the scene.
type lightRig struct {
	ambient [3]float32
	dirs    [maxLights * 3]float32
	colors  [maxLights * 3]float32
}

// gatherLights sums ambient lights and takes the first maxLights directional lights of s.
// Directional lights shine from their world position toward the origin.
func gatherLights(s *scene.Scene) lightRig {
	var rig lightRig
	n := 0
	for _, node := range s.Lights() {
		l := node.Light
		c := scaled(l.Color, l.Intensity)
		switch l.Kind {
		case scene.AmbientLight:
			for i := range c {
				rig.ambient[i] += c[i]
			}
		case scene.DirectionalLight:
			if n == maxLights {
				continue
			}
			d := l.Direction(worldPosition(node))
			copy(rig.dirs[n*3:], []float32{d.X, d.Y, d.Z})
			copy(rig.colors[n*3:], c[:])
			n++
		}
	}
	return rig
}

func scaled(c color.RGBA, intensity float32) [3]float32 {
	return [3]float32{
		float32(c.R) / 255 * intensity,
		float32(c.G) / 255 * intensity,
		float32(c.B) / 255 * intensity,
	}
}

func (l litShader) setFrame(rig lightRig, viewPos scene.Vec3) {
	vp := []float32{viewPos.X, viewPos.Y, viewPos.Z}
	rl.SetShaderValue(l.shader, l.viewPos, vp, rl.ShaderUniformVec3)
	rl.SetShaderValue(l.shader, l.ambient, rig.ambient[:], rl.ShaderUniformVec3)
	rl.SetShaderValueV(l.shader, l.lightDirs, rig.dirs[:], rl.ShaderUniformVec3, maxLights)
	rl.SetShaderValueV(l.shader, l.lightColors, rig.colors[:], rl.ShaderUniformVec3, maxLights)
}

func (l litShader) setSurface(m *scene.Material) {
	rl.SetShaderValue(l.shader, l.roughness, []float32{m.Roughness}, rl.ShaderUniformFloat)
	rl.SetShaderValue(l.shader, l.metalness, []float32{m.Metalness}, rl.ShaderUniformFloat)
}
