package scene

import "image/color"

// LightKind distinguishes the supported light types.
type LightKind int

const (
	AmbientLight LightKind = iota
	DirectionalLight
)

func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case DirectionalLight:
		return "directional"
	}
	return "unknown"
}

// Shadow holds shadow map parameters. Bias is a small negative depth offset against shadow acne.
type Shadow struct {
	MapSize int
	Bias    float32
	Radius  float32
}

// Light is attached to a Node. A directional light shines from its node position toward the origin.
type Light struct {
	Kind       LightKind
	Color      color.RGBA
	Intensity  float32
	CastShadow bool
	Shadow     Shadow
}

// Direction is the unit vector a directional light at pos travels along.
func (l *Light) Direction(pos Vec3) Vec3 {
	return pos.Scale(-1).Normalize()
}
