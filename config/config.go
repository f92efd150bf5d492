package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"graphics_engine/model"
	vm "local/vector_math"

	"gopkg.in/yaml.v3"
)

const DEFAULT_CONFIG_FILE = "config.yaml"

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
}

type ValidationConfig struct {
	Enabled bool     `yaml:"enabled"`
	Layers  []string `yaml:"layers"`
}

type ShaderConfig struct {
	Path       string `yaml:"path"`
	EntryPoint string `yaml:"entry_point"`
	Profile    string `yaml:"profile"`
}

type ShadersConfig struct {
	// Compiler is the HLSL to SPIR-V compiler binary, looked up in PATH
	Compiler string       `yaml:"compiler"`
	Vertex   ShaderConfig `yaml:"vertex"`
	Pixel    ShaderConfig `yaml:"pixel"`
}

// TransformConfig holds the initial values of the GUI controlled transform parameters
type TransformConfig struct {
	Scale       [3]float32 `yaml:"scale"`
	Translation [3]float32 `yaml:"translation"`
	Rotation    [3]float32 `yaml:"rotation"`
	Eye         [3]float32 `yaml:"eye"`
	Direction   [3]float32 `yaml:"direction"`
	Up          [3]float32 `yaml:"up"`
	FovY        float32    `yaml:"fov_y"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Perspective bool       `yaml:"perspective"`
}

type Config struct {
	Window            WindowConfig     `yaml:"window"`
	Shape             string           `yaml:"shape"`
	TransformControls bool             `yaml:"transform_controls"`
	Validation        ValidationConfig `yaml:"validation"`
	Shaders           ShadersConfig    `yaml:"shaders"`
	Transform         TransformConfig  `yaml:"transform"`
}

func Default() Config {
	tp := model.DefaultTransformParams(1)
	return Config{
		Window: WindowConfig{
			Title:  "Graphics Engine",
			Width:  1280,
			Height: 720,
		},
		Shape:             model.SHAPE_SQUARE.String(),
		TransformControls: true,
		Validation: ValidationConfig{
			Enabled: true,
			Layers:  []string{"VK_LAYER_KHRONOS_validation"},
		},
		Shaders: ShadersConfig{
			Compiler: "dxc",
			Vertex:   ShaderConfig{Path: "shaders/ColorVertexShader.hlsl", EntryPoint: "main", Profile: "vs_6_0"},
			Pixel:    ShaderConfig{Path: "shaders/ColorPixelShader.hlsl", EntryPoint: "main", Profile: "ps_6_0"},
		},
		Transform: TransformConfig{
			Scale:       tp.Scale.Arr(),
			Translation: tp.Translation.Arr(),
			Rotation:    tp.Rotation.Arr(),
			Eye:         tp.EyePos.Arr(),
			Direction:   tp.EyeDir.Arr(),
			Up:          tp.Up.Arr(),
			FovY:        tp.FovYDeg,
			Near:        tp.NearZ,
			Far:         tp.FarZ,
			Perspective: tp.UsePerspective,
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is not an error, the defaults are
// returned instead. The result is not validated so callers can apply overrides first.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No config file at '%s', using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	log.Printf("Loaded config from '%s'", path)
	return cfg, nil
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := model.ParseShape(c.Shape); err != nil {
		errs = append(errs, err)
	}
	if c.Shaders.Vertex.Path == "" || c.Shaders.Pixel.Path == "" {
		errs = append(errs, errors.New("vertex and pixel shader paths are required"))
	}
	if c.Validation.Enabled && len(c.Validation.Layers) == 0 {
		errs = append(errs, errors.New("validation is enabled but no layers are configured"))
	}
	if !(c.Transform.Near > 0) || !(c.Transform.Far > c.Transform.Near) {
		errs = append(errs, fmt.Errorf("expected 0 < near < far, got near %v far %v", c.Transform.Near, c.Transform.Far))
	}
	return errors.Join(errs...)
}

// ShapeValue returns the parsed shape, Validate guarantees it to succeed
func (c *Config) ShapeValue() model.Shape {
	s, err := model.ParseShape(c.Shape)
	if err != nil {
		log.Panicf("Unvalidated config: %v", err)
	}
	return s
}

// ValidationLayers returns the layers to enable or nil when validation is disabled
func (c *Config) ValidationLayers() []string {
	if !c.Validation.Enabled {
		return nil
	}
	return c.Validation.Layers
}

// TransformParams converts the configured initial transform, the aspect ratio comes from the swap chain
func (c *Config) TransformParams(aspect float32) model.TransformParams {
	t := c.Transform
	return model.TransformParams{
		Translation:    vm.Vec3FromArr(t.Translation),
		Rotation:       vm.Vec3FromArr(t.Rotation),
		Scale:          vm.Vec3FromArr(t.Scale),
		EyePos:         vm.Vec3FromArr(t.Eye),
		EyeDir:         vm.Vec3FromArr(t.Direction),
		Up:             vm.Vec3FromArr(t.Up),
		FovYDeg:        t.FovY,
		NearZ:          t.Near,
		FarZ:           t.Far,
		Aspect:         aspect,
		UsePerspective: t.Perspective,
	}
}

func (c *Config) VertexShader() model.ShaderSource {
	return model.ShaderSource(c.Shaders.Vertex)
}

func (c *Config) PixelShader() model.ShaderSource {
	return model.ShaderSource(c.Shaders.Pixel)
}
