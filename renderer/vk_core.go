package renderer

import (
	"errors"
	"fmt"
	"log"

	com "graphics_engine/common"
	"graphics_engine/model"

	vk "github.com/goki/vulkan"
)

const MAX_FRAMES_IN_FLIGHT = 2

// MAX_MESHES bounds the number of meshes with a transform buffer alive at the same time
const MAX_MESHES = 4

var ErrNoPipeline = errors.New("no pipeline created")

type Options struct {
	// ShaderCompiler is the dxc binary used for HLSL sources
	ShaderCompiler string
}

// Core is the Vulkan graphics backend. It renders into the swap chain of a window it does not own, each frame
// going through BeginFrame -> UpdateTransform -> Draw -> Present.
type Core struct {
	// OS/Window level
	Win    *com.Window
	device *com.Device

	// Target level
	swapChain *com.SwapChain

	// Drawing infrastructure level
	renderPass     vk.RenderPass
	descriptors    *DescriptorProvisioner
	pipelineLayout vk.PipelineLayout
	pipeline       vk.Pipeline
	commandPool    vk.CommandPool
	compiler       *ShaderCompiler

	// Frame level
	commandBuffers     []vk.CommandBuffer
	currentFrameIdx    int32
	imageAvailableSems []vk.Semaphore
	renderFinishedSems []vk.Semaphore
	inFlightFens       []vk.Fence
	frame              frameState

	depthFormat    vk.Format
	depthImage     vk.Image
	depthImageMem  vk.DeviceMemory
	depthImageView vk.ImageView

	meshes []*model.Mesh
}

// Externally facing functions

func NewRenderCore(win *com.Window, opts Options) (*Core, error) {
	c := &Core{
		Win:      win,
		compiler: NewShaderCompiler(opts.ShaderCompiler),
	}
	if err := c.initialize(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Core) initialize() error {
	var err error
	if c.device, err = com.NewDevice(c.Win); err != nil {
		return err
	}
	if c.depthFormat, err = c.findDepthFormat(); err != nil {
		return err
	}
	if c.swapChain, err = com.NewSwapChain(c.device, c.Win); err != nil {
		return err
	}
	if err = c.createRenderPass(); err != nil {
		return err
	}
	if c.descriptors, err = NewDescriptorProvisioner(c.device.Device, MAX_MESHES*MAX_FRAMES_IN_FLIGHT); err != nil {
		return err
	}
	if err = c.createPipelineLayout(); err != nil {
		return err
	}
	if err = c.createCommandPool(); err != nil {
		return err
	}
	if err = c.createDepthResources(); err != nil {
		return err
	}
	if err = c.swapChain.CreateFrameBuffers(c.device, c.renderPass, c.depthImageView); err != nil {
		return err
	}
	if err = c.createCommandBuffers(); err != nil {
		return err
	}
	if err = c.createSyncObjects(); err != nil {
		return err
	}
	log.Printf("Render core ready, %d frames in flight", MAX_FRAMES_IN_FLIGHT)
	return nil
}

// Destroy releases everything created by the core. Meshes still alive are destroyed with a warning, the window
// is left to its owner.
func (c *Core) Destroy() {
	if c.device == nil {
		return
	}
	// We need to wait for the last asynchronous call to finish before tear down
	c.device.WaitIdle()

	if len(c.meshes) > 0 {
		log.Printf("Leftover meshes in render core!: %v", len(c.meshes))
		for len(c.meshes) > 0 {
			c.DestroyMesh(c.meshes[0])
		}
	}
	c.destroySwapChainAndDerivatives()

	for i := range c.inFlightFens {
		vk.DestroyFence(c.device.Device, c.inFlightFens[i], nil)
	}
	for i := range c.imageAvailableSems {
		vk.DestroySemaphore(c.device.Device, c.imageAvailableSems[i], nil)
	}
	for i := range c.renderFinishedSems {
		vk.DestroySemaphore(c.device.Device, c.renderFinishedSems[i], nil)
	}
	if c.commandPool != nil {
		vk.DestroyCommandPool(c.device.Device, c.commandPool, nil)
	}
	if c.pipeline != nil {
		vk.DestroyPipeline(c.device.Device, c.pipeline, nil)
	}
	if c.pipelineLayout != nil {
		vk.DestroyPipelineLayout(c.device.Device, c.pipelineLayout, nil)
	}
	if c.descriptors != nil {
		c.descriptors.Destroy()
	}
	if c.renderPass != nil {
		vk.DestroyRenderPass(c.device.Device, c.renderPass, nil)
	}
	c.device.Destroy()
	c.device = nil
}

// ScreenSize is the size of the swap chain images, 0x0 while there is no swap chain (e.g. minimized window)
func (c *Core) ScreenSize() (uint32, uint32) {
	if c.swapChain == nil {
		return 0, 0
	}
	return c.swapChain.Extend.Width, c.swapChain.Extend.Height
}

func (c *Core) destroySwapChainAndDerivatives() {
	if c.depthImageView != nil {
		vk.DestroyImageView(c.device.Device, c.depthImageView, nil)
		vk.DestroyImage(c.device.Device, c.depthImage, nil)
		vk.FreeMemory(c.device.Device, c.depthImageMem, nil)
		c.depthImageView, c.depthImage, c.depthImageMem = nil, nil, nil
	}
	if c.swapChain != nil {
		c.swapChain.Destroy(c.device)
		c.swapChain = nil
	}
}

// recreateSwapChain rebuilds all size dependent objects. For a zero sized drawable no swap chain is created, this
// is retried on the next frame.
func (c *Core) recreateSwapChain() error {
	c.device.WaitIdle()
	c.destroySwapChainAndDerivatives()
	if w, h := c.Win.DrawableSize(); w == 0 || h == 0 {
		return nil
	}
	var err error
	if c.swapChain, err = com.NewSwapChain(c.device, c.Win); err != nil {
		return err
	}
	if err = c.createDepthResources(); err != nil {
		return err
	}
	if err = c.swapChain.CreateFrameBuffers(c.device, c.renderPass, c.depthImageView); err != nil {
		return err
	}
	return nil
}

func (c *Core) createRenderPass() error {
	colorAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         c.swapChain.Format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	stencilLoadOp := vk.AttachmentLoadOpDontCare
	if hasStencilComponent(c.depthFormat) {
		stencilLoadOp = vk.AttachmentLoadOpClear
	}
	depthAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         c.depthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  stencilLoadOp,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	depthAttachmentRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		Flags:                   0,
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		InputAttachmentCount:    0,
		PInputAttachments:       nil,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorAttachmentRef},
		PResolveAttachments:     nil,
		PDepthStencilAttachment: &depthAttachmentRef,
		PreserveAttachmentCount: 0,
		PPreserveAttachments:    nil,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:      vk.SubpassExternal,
		DstSubpass:      0,
		SrcStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		SrcAccessMask:   0,
		DstAccessMask:   vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
		DependencyFlags: 0,
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		PNext:           nil,
		Flags:           0,
		AttachmentCount: 2,
		PAttachments:    []vk.AttachmentDescription{colorAttachment, depthAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var err error
	c.renderPass, err = com.VkCreateRenderPass(c.device.Device, &renderPassInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create render pass: %w", err)
	}
	return nil
}

// createPipelineLayout binds the transform descriptor set layout as set 0
func (c *Core) createPipelineLayout() error {
	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{c.descriptors.Layout},
		PushConstantRangeCount: 0,
		PPushConstantRanges:    nil,
	}
	layout, err := com.VkCreatePipelineLayout(c.device.Device, &pipelineLayoutInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	c.pipelineLayout = layout
	return nil
}

// CreatePipeline compiles both shaders of desc and creates the graphics pipeline all following draws use. A
// previously created pipeline is replaced.
func (c *Core) CreatePipeline(desc model.PipelineDesc) error {
	// Shader mode deletion can be done right after pipeline creation
	vertShaderMod, vertStageInfo, err := LoadShaderStage(c.device.Device, c.compiler, desc.VertexShader, model.StageVertex)
	if err != nil {
		return err
	}
	defer DeleteShaderMod(c.device.Device, vertShaderMod)
	fragShaderMod, fragStageInfo, err := LoadShaderStage(c.device.Device, c.compiler, desc.PixelShader, model.StagePixel)
	if err != nil {
		return err
	}
	defer DeleteShaderMod(c.device.Device, fragShaderMod)
	shaderStages := []vk.PipelineShaderStageCreateInfo{vertStageInfo, fragStageInfo}

	// Dynamic state
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		PNext:             nil,
		Flags:             0,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	bindingDesc, attributeDesc, err := vertexInputDescriptions(desc)
	if err != nil {
		return err
	}
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		PNext:                           nil,
		Flags:                           0,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{bindingDesc},
		VertexAttributeDescriptionCount: uint32(len(attributeDesc)),
		PVertexAttributeDescriptions:    attributeDesc,
	}
	topology, err := toVkTopology(desc.Topology)
	if err != nil {
		return err
	}
	inputAssemblyInfo := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		Topology:               topology,
		PrimitiveRestartEnable: vk.False,
	}
	viewportStateInfo := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		PNext:         nil,
		Flags:         0,
		ViewportCount: 1,
		PViewports:    nil,
		ScissorCount:  1,
		PScissors:     nil,
	}
	// No culling, both windings are drawn
	rasterizerInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeNone),
		FrontFace:               vk.FrontFaceClockwise,
		DepthBiasEnable:         vk.False,
		DepthBiasConstantFactor: 0,
		DepthBiasClamp:          0,
		DepthBiasSlopeFactor:    0,
		LineWidth:               1.0,
	}
	multisamplingInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		PSampleMask:           nil,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}
	colorBlendAttachmentInfo := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorOne,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask:      vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	colorBlendingInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		PNext:           nil,
		Flags:           0,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentInfo},
		BlendConstants:  [4]float32{0, 0, 0, 0},
	}
	depthStencil := depthStencilInfo(desc.DepthStencil)

	// The actual pipeline
	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               nil,
		Flags:               0,
		StageCount:          uint32(len(shaderStages)),
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssemblyInfo,
		PTessellationState:  nil,
		PViewportState:      &viewportStateInfo,
		PRasterizationState: &rasterizerInfo,
		PMultisampleState:   &multisamplingInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendingInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		Layout:              c.pipelineLayout,
		RenderPass:          c.renderPass,
		Subpass:             0,
		BasePipelineHandle:  nil,
		BasePipelineIndex:   -1,
	}
	pipelines, err := com.VkCreateGraphicsPipelines(c.device.Device, nil, 1, []vk.GraphicsPipelineCreateInfo{pipelineInfo}, nil)
	if err != nil {
		return fmt.Errorf("failed to create graphics pipeline: %w", err)
	}
	if c.pipeline != nil {
		c.device.WaitIdle()
		vk.DestroyPipeline(c.device.Device, c.pipeline, nil)
	}
	c.pipeline = pipelines[0]
	log.Printf("Created graphics pipeline (%s, %s)", desc.VertexShader.Path, desc.PixelShader.Path)
	return nil
}

// DestroyPipeline releases the pipeline created by CreatePipeline, draws fail with ErrNoPipeline until the next one
func (c *Core) DestroyPipeline() {
	if c.pipeline == nil {
		return
	}
	c.device.WaitIdle()
	vk.DestroyPipeline(c.device.Device, c.pipeline, nil)
	c.pipeline = nil
}

func (c *Core) createCommandPool() error {
	commandPool, err := com.VKSCreateCommandPool(
		c.device.Device,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		*c.device.QFamilies.GraphicsFamily,
	)
	if err != nil {
		return fmt.Errorf("failed to create command pool: %w", err)
	}
	c.commandPool = commandPool
	return nil
}

func (c *Core) createCommandBuffers() error {
	buffers, err := com.VKAllocateCommandBuffersPrimary(c.device.Device, c.commandPool, uint32(MAX_FRAMES_IN_FLIGHT))
	if err != nil {
		return fmt.Errorf("failed to allocate command buffers: %w", err)
	}
	c.commandBuffers = buffers
	return nil
}

func (c *Core) createSyncObjects() error {
	for i := 0; i < MAX_FRAMES_IN_FLIGHT; i++ {
		ias, err := com.VKSCreateSemaphore(c.device.Device)
		if err != nil {
			return fmt.Errorf("failed to create sync objects: %w", err)
		}
		c.imageAvailableSems = append(c.imageAvailableSems, ias)
		rfs, err := com.VKSCreateSemaphore(c.device.Device)
		if err != nil {
			return fmt.Errorf("failed to create sync objects: %w", err)
		}
		c.renderFinishedSems = append(c.renderFinishedSems, rfs)
		// Signaled so the very first wait on a frame does not block
		iff, err := com.VKSCreateFence(c.device.Device, true)
		if err != nil {
			return fmt.Errorf("failed to create sync objects: %w", err)
		}
		c.inFlightFens = append(c.inFlightFens, iff)
	}
	return nil
}

func (c *Core) createDepthResources() error {
	dImg, dImgMem, err := com.CreateImage(
		c.device,
		c.swapChain.Extend.Width,
		c.swapChain.Extend.Height,
		c.depthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return fmt.Errorf("failed to create depth image: %w", err)
	}
	dImgView, err := com.VKSCreate2DImageView(c.device.Device, dImg, c.depthFormat, depthAspect(c.depthFormat))
	if err != nil {
		vk.DestroyImage(c.device.Device, dImg, nil)
		vk.FreeMemory(c.device.Device, dImgMem, nil)
		return fmt.Errorf("failed to create depth image view: %w", err)
	}
	c.depthImage = dImg
	c.depthImageMem = dImgMem
	c.depthImageView = dImgView
	return nil
}
