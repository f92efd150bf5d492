package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"graphics_engine/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.ShapeValue() != model.SHAPE_SQUARE {
		t.Errorf("Default shape should be the square, got %v", cfg.ShapeValue())
	}
	p := cfg.TransformParams(2)
	want := model.DefaultTransformParams(2)
	if p != want {
		t.Errorf("Default transform %+v differs from %+v", p, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file should fall back to defaults, got %v", err)
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Errorf("Expected default window width, got %d", cfg.Window.Width)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: Cube
  width: 800
shape: cube
transform_controls: false
validation:
  enabled: false
transform:
  eye: [0, 1, -3]
  perspective: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Window.Title != "Cube" || cfg.Window.Width != 800 || cfg.Window.Height != 720 {
		t.Errorf("Unexpected window config: %+v", cfg.Window)
	}
	if cfg.ShapeValue() != model.SHAPE_CUBE || cfg.TransformControls {
		t.Errorf("Unexpected shape/controls: %s %v", cfg.Shape, cfg.TransformControls)
	}
	if cfg.ValidationLayers() != nil {
		t.Errorf("Disabled validation should not return layers: %v", cfg.ValidationLayers())
	}
	p := cfg.TransformParams(1)
	if p.EyePos.Y != 1 || p.EyePos.Z != -3 || p.UsePerspective {
		t.Errorf("Transform overrides not applied: %+v", p)
	}
	if p.FarZ != 10 || p.Scale.X != 0.5 {
		t.Errorf("Unset transform values should keep their defaults: %+v", p)
	}
	if cfg.VertexShader().Profile != "vs_6_0" {
		t.Errorf("Unset shader values should keep their defaults: %+v", cfg.VertexShader())
	}
}

func TestValidateLoaded(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{"shape", "shape: teapot", "unknown shape"},
		{"window", "window: {width: 0}", "window size"},
		{"depth", "transform: {near: 5, far: 1}", "near < far"},
		{"shader", "shaders: {vertex: {path: ''}}", "shader paths"},
		{"syntax", "window: [", "failed to parse"},
	}
	for _, c := range cases {
		cfg, err := Load(writeConfig(t, c.content))
		if err == nil {
			err = cfg.Validate()
		}
		if err == nil {
			t.Errorf("%s: expected an error", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.errPart) {
			t.Errorf("%s: expected error containing %q, got %v", c.name, c.errPart, err)
		}
	}
}

func TestOverrideBeforeValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "shape: teapot"))
	if err != nil {
		t.Fatalf("Load must not validate, got %v", err)
	}
	if cfg.Validate() == nil {
		t.Fatalf("Unknown shape should not validate")
	}
	cfg.Shape = "cube"
	if err = cfg.Validate(); err != nil {
		t.Errorf("Overridden shape should validate: %v", err)
	}
	if cfg.ShapeValue() != model.SHAPE_CUBE {
		t.Errorf("Expected the cube, got %v", cfg.ShapeValue())
	}
}
