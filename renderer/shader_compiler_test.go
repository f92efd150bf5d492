package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"graphics_engine/model"
)

var spirvHeader = []byte{0x03, 0x02, 0x23, 0x07}

func TestCompilerArgs(t *testing.T) {
	sc := NewShaderCompiler("")
	if sc.Binary != "dxc" {
		t.Errorf("Expected dxc as default compiler, got %s", sc.Binary)
	}
	vs := model.ShaderSource{Path: "shaders/ColorVertexShader.hlsl", EntryPoint: "main", Profile: "vs_6_0"}
	want := []string{"-spirv", "-T", "vs_6_0", "-E", "main", "-fvk-invert-y", "-Fo", "out.spv", "shaders/ColorVertexShader.hlsl"}
	if got := sc.Args(vs, model.StageVertex, "out.spv"); !reflect.DeepEqual(got, want) {
		t.Errorf("Vertex args\n got %v\nwant %v", got, want)
	}

	ps := model.ShaderSource{Path: "shaders/ColorPixelShader.hlsl"}
	want = []string{"-spirv", "-T", "ps_6_0", "-E", "main", "-Fo", "out.spv", "shaders/ColorPixelShader.hlsl"}
	if got := sc.Args(ps, model.StagePixel, "out.spv"); !reflect.DeepEqual(got, want) {
		t.Errorf("Pixel args with defaults\n got %v\nwant %v", got, want)
	}
}

func TestCompileMissingFile(t *testing.T) {
	sc := NewShaderCompiler("dxc")
	_, err := sc.Compile(model.ShaderSource{Path: filepath.Join(t.TempDir(), "missing.hlsl")}, model.StageVertex)
	var compileErr *ShaderCompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Expected ShaderCompileError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) || compileErr.Diagnostics != "file not found" {
		t.Errorf("Expected a file not found error, got %v", err)
	}
}

func writeFile(t *testing.T, path string, content []byte, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, content, perm); err != nil {
		t.Fatalf("Failed to write %s: %s", path, err)
	}
}

func TestCompileWithFakeCompiler(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as compiler")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "shader.hlsl")
	writeFile(t, src, []byte("float4 main() : SV_TARGET { return 1; }"), 0o644)

	okCompiler := filepath.Join(dir, "ok-dxc")
	writeFile(t, okCompiler, []byte(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-Fo" ]; then out="$2"; fi
  shift
done
printf '\003\002\043\007' > "$out"
`), 0o755)
	code, err := NewShaderCompiler(okCompiler).Compile(model.ShaderSource{Path: src}, model.StagePixel)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !reflect.DeepEqual(code, spirvHeader) {
		t.Errorf("Expected the compiler output, got %v", code)
	}

	failingCompiler := filepath.Join(dir, "failing-dxc")
	writeFile(t, failingCompiler, []byte(`#!/bin/sh
echo "shader.hlsl:1:30: error: use of undeclared identifier 'colour'" >&2
exit 1
`), 0o755)
	_, err = NewShaderCompiler(failingCompiler).Compile(model.ShaderSource{Path: src}, model.StagePixel)
	var compileErr *ShaderCompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Expected ShaderCompileError, got %v", err)
	}
	if !strings.Contains(compileErr.Diagnostics, "undeclared identifier 'colour'") {
		t.Errorf("Diagnostics of the compiler are lost: %q", compileErr.Diagnostics)
	}
	if !strings.Contains(err.Error(), "pixel shader") || !strings.Contains(err.Error(), "undeclared identifier") {
		t.Errorf("Error message should name stage and diagnostics: %s", err)
	}
}

func TestLoadPrecompiledShader(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.spv")
	writeFile(t, valid, append(append([]byte{}, spirvHeader...), 0, 0, 1, 0), 0o644)
	// the compiler must not be invoked for .spv files
	sc := NewShaderCompiler(filepath.Join(dir, "no-such-compiler"))
	code, err := LoadShaderCode(sc, model.ShaderSource{Path: valid}, model.StageVertex)
	if err != nil || len(code) != 8 {
		t.Errorf("Expected 8 Byte of code, got %d (%v)", len(code), err)
	}

	truncated := filepath.Join(dir, "truncated.spv")
	writeFile(t, truncated, spirvHeader[:3], 0o644)
	if _, err = LoadShaderCode(sc, model.ShaderSource{Path: truncated}, model.StageVertex); err == nil {
		t.Errorf("Code size that is not a multiple of 4 must be rejected")
	}

	garbage := filepath.Join(dir, "garbage.SPV")
	writeFile(t, garbage, []byte("notSPIRV"), 0o644)
	if _, err = LoadShaderCode(sc, model.ShaderSource{Path: garbage}, model.StageVertex); err == nil {
		t.Errorf("Code without magic number must be rejected")
	}
}
