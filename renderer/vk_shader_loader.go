package renderer

import (
	"fmt"
	"log"

	"graphics_engine/common"
	"graphics_engine/model"

	vk "github.com/goki/vulkan"
)

var stageBits = map[model.ShaderStage]vk.ShaderStageFlagBits{
	model.StageVertex: vk.ShaderStageVertexBit,
	model.StagePixel:  vk.ShaderStageFragmentBit,
}

// LoadShaderStage obtains the SPIR-V for src (compiling if needed) and wraps it into a shader module and the
// vk.PipelineShaderStageCreateInfo binding it to a pipeline. The module can be deleted right after pipeline
// creation.
func LoadShaderStage(d vk.Device, sc *ShaderCompiler, src model.ShaderSource, stage model.ShaderStage) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	code, err := LoadShaderCode(sc, src, stage)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, err
	}
	mod, err := createShaderModule(d, code)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, fmt.Errorf("failed to create %s shader module for '%s': %w", stage, src.Path, err)
	}
	log.Printf("Created %s shader module: %v", stage, mod)

	entry := src.EntryPoint
	if entry == "" {
		entry = DEFAULT_ENTRY_POINT
	}
	stageInfo := vk.PipelineShaderStageCreateInfo{
		SType:               vk.StructureTypePipelineShaderStageCreateInfo,
		PNext:               nil,
		Flags:               0,
		Stage:               stageBits[stage],
		Module:              mod,
		PName:               common.TerminatedStr(entry), // entrypoint -> function name in the shader
		PSpecializationInfo: nil,
	}
	return mod, stageInfo, nil
}

// DeleteShaderMod discards a shader module. As vk.ShaderModule is only meant as a container to move the shader code
// onto device memory, it can be destroyed right after creating a shader stage when binding to a rendering pipeline.
func DeleteShaderMod(d vk.Device, mod vk.ShaderModule) {
	if mod != nil {
		vk.DestroyShaderModule(d, mod, nil)
	}
}

func createShaderModule(d vk.Device, code []byte) (vk.ShaderModule, error) {
	createInfo := &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		PNext:    nil,
		Flags:    0,
		CodeSize: uint64(len(code)),
		PCode:    common.AsUint32Arr(code),
	}
	return common.VkCreateShaderModule(d, createInfo, nil)
}
