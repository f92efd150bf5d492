package renderer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"graphics_engine/model"
)

const SPIRV_EXTENSION = ".spv"
const SPIRV_MAGIC = uint32(0x07230203)

const DEFAULT_COMPILER = "dxc"
const DEFAULT_ENTRY_POINT = "main"

var defaultProfiles = map[model.ShaderStage]string{
	model.StageVertex: "vs_6_0",
	model.StagePixel:  "ps_6_0",
}

// ShaderCompileError carries the diagnostics of a failed shader compilation so they can be shown to the user
type ShaderCompileError struct {
	Path        string
	Stage       model.ShaderStage
	Diagnostics string
	Err         error
}

func (e *ShaderCompileError) Error() string {
	msg := fmt.Sprintf("failed to compile %s shader '%s': %v", e.Stage, e.Path, e.Err)
	if d := strings.TrimSpace(e.Diagnostics); d != "" {
		msg += "\n" + d
	}
	return msg
}

func (e *ShaderCompileError) Unwrap() error {
	return e.Err
}

// ShaderCompiler turns HLSL sources into SPIR-V by invoking the DirectX shader compiler. The generated code keeps
// the D3D conventions: matrices in constant buffers are read like HLSL does and the clip space y axis is flipped
// for vertex shaders.
type ShaderCompiler struct {
	Binary string
}

func NewShaderCompiler(binary string) *ShaderCompiler {
	if binary == "" {
		binary = DEFAULT_COMPILER
	}
	return &ShaderCompiler{Binary: binary}
}

// Args builds the command line compiling src as stage into out
func (sc *ShaderCompiler) Args(src model.ShaderSource, stage model.ShaderStage, out string) []string {
	entry := src.EntryPoint
	if entry == "" {
		entry = DEFAULT_ENTRY_POINT
	}
	profile := src.Profile
	if profile == "" {
		profile = defaultProfiles[stage]
	}
	args := []string{"-spirv", "-T", profile, "-E", entry}
	if stage == model.StageVertex {
		args = append(args, "-fvk-invert-y")
	}
	return append(args, "-Fo", out, src.Path)
}

// Compile runs the compiler on src and returns the validated SPIR-V code
func (sc *ShaderCompiler) Compile(src model.ShaderSource, stage model.ShaderStage) ([]byte, error) {
	if _, err := os.Stat(src.Path); err != nil {
		return nil, &ShaderCompileError{Path: src.Path, Stage: stage, Diagnostics: "file not found", Err: err}
	}
	tmpDir, err := os.MkdirTemp("", "shader-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	out := filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))+SPIRV_EXTENSION)
	var diagnostics bytes.Buffer
	cmd := exec.Command(sc.Binary, sc.Args(src, stage, out)...)
	cmd.Stdout = &diagnostics
	cmd.Stderr = &diagnostics
	if err = cmd.Run(); err != nil {
		return nil, &ShaderCompileError{Path: src.Path, Stage: stage, Diagnostics: diagnostics.String(), Err: err}
	}
	if diagnostics.Len() > 0 {
		// warnings only
		log.Printf("Shader compiler output for '%s':\n%s", src.Path, diagnostics.String())
	}

	code, err := readSpirv(out)
	if err != nil {
		return nil, &ShaderCompileError{Path: src.Path, Stage: stage, Err: err}
	}
	log.Printf("Compiled %s shader '%s' (%s) to %d Byte SPIR-V", stage, src.Path, src.EntryPoint, len(code))
	return code, nil
}

// LoadShaderCode returns SPIR-V for src, reading '.spv' files directly and compiling everything else
func LoadShaderCode(sc *ShaderCompiler, src model.ShaderSource, stage model.ShaderStage) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(src.Path), SPIRV_EXTENSION) {
		code, err := readSpirv(src.Path)
		if err != nil {
			return nil, &ShaderCompileError{Path: src.Path, Stage: stage, Err: err}
		}
		return code, nil
	}
	return sc.Compile(src, stage)
}

func readSpirv(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = validateSpirv(code); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}

func validateSpirv(code []byte) error {
	if len(code) < 4 || len(code)%4 != 0 {
		return fmt.Errorf("SPIR-V code size %d is not a positive multiple of 4", len(code))
	}
	if binary.LittleEndian.Uint32(code) != SPIRV_MAGIC {
		return errors.New("missing SPIR-V magic number")
	}
	return nil
}
