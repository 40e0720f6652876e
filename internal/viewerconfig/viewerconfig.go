package viewerconfig

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"figure-viewer/internal/env"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the path to the viewer config file, relative to the process working directory.
const ConfigPath = "config/viewer.yaml"

// DefaultPort is used when neither the config file nor PORT set one.
const DefaultPort = "3000"

// Config holds everything the server and the viewer read at startup. Nothing here is written back at runtime.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Viewer ViewerConfig `yaml:"viewer"`
	Scene  SceneConfig  `yaml:"scene"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the static asset server.
type ServerConfig struct {
	Port      string `yaml:"port"`
	PublicDir string `yaml:"public_dir"`
	// ModelsDir is served under /models (the project root in the default layout).
	ModelsDir string `yaml:"models_dir"`
}

// ViewerConfig configures the native window and the model reference.
type ViewerConfig struct {
	// ModelURL is resolved against the viewer's base location: an http(s) URL or a path.
	ModelURL string `yaml:"model_url"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	ShowFPS  bool   `yaml:"show_fps"`
	ShowLog  bool   `yaml:"show_log"`
	// Serve starts the static asset server in-process and fetches the model from it over HTTP.
	Serve bool `yaml:"serve"`
}

// SceneConfig is the fixed scene rig: camera, controls, lights, ground and the neutral material.
type SceneConfig struct {
	Background  Hex            `yaml:"background"`
	Camera      CameraConfig   `yaml:"camera"`
	Controls    ControlsConfig `yaml:"controls"`
	Ambient     LightConfig    `yaml:"ambient"`
	Directional []LightConfig  `yaml:"directional"`
	Ground      GroundConfig   `yaml:"ground"`
	Neutral     MaterialConfig `yaml:"neutral"`
}

// Vec3 is an x, y, z triple.
type Vec3 [3]float32

// CameraConfig places the perspective camera. Distance and AzimuthDeg override the spherical
// radius and azimuth of Position relative to Target; the polar angle is kept.
type CameraConfig struct {
	FOV        float32 `yaml:"fov"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Position   Vec3    `yaml:"position"`
	Target     Vec3    `yaml:"target"`
	Distance   float32 `yaml:"distance"`
	AzimuthDeg float32 `yaml:"azimuth_deg"`
}

// ControlsConfig tunes the orbit controls.
type ControlsConfig struct {
	Damping       bool    `yaml:"damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	PanSpeed      float32 `yaml:"pan_speed"`
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"`
}

// LightConfig describes an ambient or directional light.
type LightConfig struct {
	Name       string       `yaml:"name"`
	Color      Hex          `yaml:"color"`
	Intensity  float32      `yaml:"intensity"`
	Position   Vec3         `yaml:"position,omitempty"`
	CastShadow bool         `yaml:"cast_shadow,omitempty"`
	Shadow     ShadowConfig `yaml:"shadow,omitempty"`
}

// ShadowConfig holds shadow map parameters for a shadow-casting light.
type ShadowConfig struct {
	MapSize int     `yaml:"map_size,omitempty"`
	Bias    float32 `yaml:"bias,omitempty"`
	Radius  float32 `yaml:"radius,omitempty"`
}

// GroundConfig describes the ground disc.
type GroundConfig struct {
	Radius   float32        `yaml:"radius"`
	Segments int            `yaml:"segments"`
	Material MaterialConfig `yaml:"material"`
}

// MaterialConfig is a plain surface description.
type MaterialConfig struct {
	Color     Hex     `yaml:"color"`
	Roughness float32 `yaml:"roughness"`
	Metalness float32 `yaml:"metalness"`
}

// LogConfig selects the log level and file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Hex is a "#rrggbb" color string.
type Hex string

// Parse returns the opaque color for h.
func (h Hex) Parse() (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(string(h)), "#")
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("viewerconfig: color %q: want #rrggbb", string(h))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("viewerconfig: color %q: %w", string(h), err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// RGBA is Parse for colors already checked by Validate; invalid input yields opaque black.
func (h Hex) RGBA() color.RGBA {
	c, err := h.Parse()
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// Default returns the stock rig: a 75° camera 5.35 units from (0, 1.1, 0) at 25° azimuth,
// a warm ambient fill, sun/key/rim directional lights (sun and key cast shadows) and a 5-unit ground disc.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:      DefaultPort,
			PublicDir: "public",
			ModelsDir: ".",
		},
		Viewer: ViewerConfig{
			ModelURL: "human_model_sit_possition_003.glb",
			Width:    1280,
			Height:   720,
			Title:    "figure viewer",
			ShowFPS:  false,
			ShowLog:  true,
			Serve:    false,
		},
		Scene: SceneConfig{
			Background: "#f4f4f4",
			Camera: CameraConfig{
				FOV:        75,
				Near:       0.1,
				Far:        1000,
				Position:   Vec3{0, 1.5, 3},
				Target:     Vec3{0, 1.1, 0},
				Distance:   5.35,
				AzimuthDeg: 25,
			},
			Controls: ControlsConfig{
				Damping:       true,
				DampingFactor: 0.05,
				RotateSpeed:   1,
				ZoomSpeed:     1,
				PanSpeed:      1,
				MinDistance:   0,
				MaxDistance:   0,
			},
			Ambient: LightConfig{Name: "ambient", Color: "#fff0e5", Intensity: 0.6},
			Directional: []LightConfig{
				{
					Name: "sun", Color: "#fff6cf", Intensity: 1.1, Position: Vec3{-6, 9, 6},
					CastShadow: true, Shadow: ShadowConfig{MapSize: 2048, Bias: -0.0002, Radius: 4},
				},
				{
					Name: "key", Color: "#ffffff", Intensity: 0.8, Position: Vec3{5, 7, 4},
					CastShadow: true, Shadow: ShadowConfig{MapSize: 512, Bias: -0.0005, Radius: 1},
				},
				{Name: "rim", Color: "#fff5f0", Intensity: 0.5, Position: Vec3{-4, 4, -3}},
			},
			Ground: GroundConfig{
				Radius:   5,
				Segments: 48,
				Material: MaterialConfig{Color: "#faf5f0", Roughness: 0.95, Metalness: 0},
			},
			Neutral: MaterialConfig{Color: "#808080", Roughness: 0.65, Metalness: 0.05},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config at path (ConfigPath when empty) over Default(). A missing file yields Default()
// and no error; an unreadable or invalid file yields Default() and the error so the caller can report it.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("viewerconfig: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("viewerconfig: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// Save writes c to path (ConfigPath when empty), creating the config directory if needed.
func Save(path string, c Config) error {
	if path == "" {
		path = ConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PORT, MODEL_URL and LOG_LEVEL when they are set.
func (c *Config) ApplyEnv() {
	c.Server.Port = env.Get("PORT", c.Server.Port)
	c.Viewer.ModelURL = env.Get("MODEL_URL", c.Viewer.ModelURL)
	c.Log.Level = env.Get("LOG_LEVEL", c.Log.Level)
}

// Validate checks colors, camera clip planes and ground tessellation.
func (c Config) Validate() error {
	sc := c.Scene
	colors := []Hex{sc.Background, sc.Ambient.Color, sc.Ground.Material.Color, sc.Neutral.Color}
	for _, l := range sc.Directional {
		colors = append(colors, l.Color)
	}
	for _, h := range colors {
		if _, err := h.Parse(); err != nil {
			return err
		}
	}
	if sc.Camera.Near <= 0 || sc.Camera.Far <= sc.Camera.Near {
		return fmt.Errorf("viewerconfig: camera clip planes near=%v far=%v", sc.Camera.Near, sc.Camera.Far)
	}
	if sc.Ground.Segments < 3 {
		return fmt.Errorf("viewerconfig: ground needs at least 3 segments, got %d", sc.Ground.Segments)
	}
	return nil
}
