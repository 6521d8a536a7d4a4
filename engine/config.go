package engine

import (
	"flag"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
	"github.com/spaghettifunk/meshview/engine/systems"
)

const DefaultConfigPath = "assets/config.toml"

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Camera      CameraConfig      `toml:"camera"`
	Scene       SceneConfig       `toml:"scene"`
	Overlay     OverlayConfig     `toml:"overlay"`
	Jobs        JobsConfig        `toml:"jobs"`
}

type RendererConfig struct {
	Validation    bool       `toml:"validation"`
	PreferMailbox bool       `toml:"prefer_mailbox"`
	Wireframe     bool       `toml:"wireframe"`
	CullMode      string     `toml:"cull_mode"`
	ClearColor    [4]float32 `toml:"clear_color"`
	// SPIR-V asset names, looked up in the shaders directory.
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
}

type CameraConfig struct {
	Position          [3]float32 `toml:"position"`
	Target            [3]float32 `toml:"target"`
	FOVDegrees        float32    `toml:"fov"`
	Near              float32    `toml:"near"`
	Far               float32    `toml:"far"`
	ZoomSensitivity   float32    `toml:"zoom_sensitivity"`
	RotateSensitivity float32    `toml:"rotate_sensitivity"`
	MoveSpeed         float32    `toml:"move_speed"`
	MaxCameras        uint16     `toml:"max_cameras"`
}

type ModelConfig struct {
	Path            string     `toml:"path"`
	Position        [3]float32 `toml:"position"`
	RotationDegrees [3]float32 `toml:"rotation"`
	Scale           [3]float32 `toml:"scale"`
}

type SceneConfig struct {
	Models []ModelConfig `toml:"models"`
	// Re-upload models when their files change on disk.
	WatchModels bool `toml:"watch_models"`
}

type OverlayConfig struct {
	Enabled bool `toml:"enabled"`
	// Empty uses the built-in face; .ttf/.otf and .fnt files are loaded from fonts.
	Font           string  `toml:"font"`
	FontSize       float64 `toml:"font_size"`
	Margin         int     `toml:"margin"`
	VertexShader   string  `toml:"vertex_shader"`
	FragmentShader string  `toml:"fragment_shader"`
}

type JobsConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

func DefaultConfig() *Config {
	camera := components.DefaultCameraSettings()
	return &Config{
		Application: ApplicationConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Name:        "meshview",
			LogLevel:    "info",
			AssetPath:   "assets",
		},
		Renderer: RendererConfig{
			CullMode:       "back",
			ClearColor:     [4]float32{0.1, 0.1, 0.12, 1.0},
			VertexShader:   "mesh.vert.spv",
			FragmentShader: "mesh.frag.spv",
		},
		Camera: CameraConfig{
			Position:          camera.Position,
			Target:            camera.Target,
			FOVDegrees:        camera.FOVDegrees,
			Near:              camera.Near,
			Far:               camera.Far,
			ZoomSensitivity:   camera.ZoomSensitivity,
			RotateSensitivity: camera.RotateSensitivity,
			MoveSpeed:         camera.MoveSpeed,
			MaxCameras:        8,
		},
		Overlay: OverlayConfig{
			Enabled:        true,
			FontSize:       14,
			Margin:         8,
			VertexShader:   "overlay.vert.spv",
			FragmentShader: "overlay.frag.spv",
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 64,
		},
	}
}

// ParseFlags reads the -config flag. Other flags are rejected.
func ParseFlags(args []string) (string, error) {
	fs := flag.NewFlagSet("meshview", flag.ContinueOnError)
	path := fs.String("config", DefaultConfigPath, "path to the TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *path, nil
}

/**
 * @brief Decodes the TOML file at path over DefaultConfig. A missing file
 * yields the defaults; a malformed or invalid one is an error.
 */
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogWarn("Config file '%s' not found, using defaults.", path)
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	for i := range cfg.Scene.Models {
		if cfg.Scene.Models[i].Scale == [3]float32{} {
			cfg.Scene.Models[i].Scale = [3]float32{1, 1, 1}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return errors.New("application window size must be non-zero")
	}
	if _, err := c.Renderer.FaceCullMode(); err != nil {
		return err
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Newf("camera clip planes must satisfy 0 < near < far, got %g and %g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return errors.Newf("camera fov must be within (0, 180), got %g", c.Camera.FOVDegrees)
	}
	if c.Camera.MoveSpeed < 0 {
		return errors.Newf("camera move_speed must not be negative, got %g", c.Camera.MoveSpeed)
	}
	if c.Camera.MaxCameras == 0 {
		return errors.New("camera max_cameras must be positive")
	}
	if c.Jobs.Workers <= 0 {
		return errors.New("jobs workers must be positive")
	}
	if c.Overlay.Enabled && c.Overlay.FontSize <= 0 {
		return errors.New("overlay font_size must be positive")
	}
	for _, m := range c.Scene.Models {
		if m.Path == "" {
			return errors.New("scene model without a path")
		}
	}
	return nil
}

func (c RendererConfig) FaceCullMode() (vulkan.FaceCullMode, error) {
	switch c.CullMode {
	case "none":
		return vulkan.FaceCullModeNone, nil
	case "front":
		return vulkan.FaceCullModeFront, nil
	case "back", "":
		return vulkan.FaceCullModeBack, nil
	case "both":
		return vulkan.FaceCullModeFrontAndBack, nil
	}
	return vulkan.FaceCullModeNone, errors.Newf("unknown cull mode %q", c.CullMode)
}

func (c CameraConfig) Settings() components.CameraSettings {
	return components.CameraSettings{
		Position:          c.Position,
		Target:            c.Target,
		FOVDegrees:        c.FOVDegrees,
		Near:              c.Near,
		Far:               c.Far,
		ZoomSensitivity:   c.ZoomSensitivity,
		RotateSensitivity: c.RotateSensitivity,
		MoveSpeed:         c.MoveSpeed,
	}
}

func (m ModelConfig) Transform() *math.Transform {
	r := m.RotationDegrees
	rotation := mgl32.AnglesToQuat(mgl32.DegToRad(r[0]), mgl32.DegToRad(r[1]), mgl32.DegToRad(r[2]), mgl32.XYZ)
	return math.TransformFromPositionRotationScale(m.Position, rotation, m.Scale)
}

func (c *Config) Systems() systems.SystemManagerConfig {
	return systems.SystemManagerConfig{
		Camera: systems.CameraSystemConfig{
			MaxCameraCount: c.Camera.MaxCameras,
			Defaults:       c.Camera.Settings(),
		},
		Jobs: systems.JobSystemConfig{
			Workers:   c.Jobs.Workers,
			QueueSize: c.Jobs.QueueSize,
		},
	}
}
