package renderer

import (
	"errors"
	"fmt"
	"math"

	com "graphics_engine/common"
	"graphics_engine/model"

	vk "github.com/goki/vulkan"
)

var ErrFrameNotStarted = errors.New("no frame in progress, call BeginFrame first")

// frameState tracks the swap chain image acquired by BeginFrame until it is handed back by Present
type frameState struct {
	imgIdx    uint32
	active    bool
	recording bool
	drawn     bool
	err       error
}

// BeginFrame waits until the command buffer of the current frame is no longer in use and acquires the next swap
// chain image. It returns false when there is nothing to render into right now, e.g. the window being minimized or
// the swap chain having been recreated.
func (c *Core) BeginFrame() (bool, error) {
	if c.frame.active {
		return true, nil
	}
	if c.swapChain == nil {
		if err := c.recreateSwapChain(); err != nil {
			return false, err
		}
		if c.swapChain == nil {
			return false, nil
		}
	}
	// Wait for frame to be ready - signalled by the inFlightFens
	vk.WaitForFences(c.device.Device, 1, []vk.Fence{c.inFlightFens[c.currentFrameIdx]}, vk.True, math.MaxUint64)

	var imgIdx uint32
	result := vk.AcquireNextImage(c.device.Device, c.swapChain.Handle, math.MaxUint64, c.imageAvailableSems[c.currentFrameIdx], vk.NullFence, &imgIdx)
	// React on surface changes and other possible causes for failure (e.g.: Window resizing)
	if result == vk.ErrorOutOfDate {
		return false, c.recreateSwapChain()
	} else if result != vk.Success && result != vk.Suboptimal {
		return false, fmt.Errorf("failed to acquire image, AcquireNextImage(...) result code: %d", result)
	}
	c.frame = frameState{imgIdx: imgIdx, active: true}
	return true, nil
}

// Draw records the clears and the indexed draw described by dc into the current frame's command buffer. Errors are
// kept until Present.
func (c *Core) Draw(dc model.DrawCall) {
	if !c.frame.active {
		c.frame.err = ErrFrameNotStarted
		return
	}
	if c.frame.err != nil {
		return
	}
	if c.pipeline == nil {
		c.frame.err = ErrNoPipeline
		return
	}
	if dc.Mesh == nil {
		c.frame.err = errors.New("draw call without mesh")
		return
	}
	tb, ok := dc.Mesh.TransformBuffer.(*TransformBuffer)
	if !ok || tb == nil {
		c.frame.err = fmt.Errorf("mesh '%s' has no transform buffer", dc.Mesh.Name)
		return
	}
	vBuf, iBuf, ok := meshBuffers(dc.Mesh)
	if !ok {
		c.frame.err = fmt.Errorf("mesh '%s' was not created by this render core", dc.Mesh.Name)
		return
	}
	if dc.StartIndex+dc.IndexCount > dc.Mesh.IndexCount {
		c.frame.err = fmt.Errorf("draw of indices [%d, %d) exceeds the %d indices of mesh '%s'",
			dc.StartIndex, dc.StartIndex+dc.IndexCount, dc.Mesh.IndexCount, dc.Mesh.Name)
		return
	}
	cmdBuf := c.commandBuffers[c.currentFrameIdx]
	if err := c.beginRecording(cmdBuf); err != nil {
		c.frame.err = err
		return
	}
	c.beginRenderPass(cmdBuf, clearValues(dc))

	vk.CmdSetViewport(cmdBuf, 0, 1, []vk.Viewport{toVkViewport(dc.Viewport)})
	vk.CmdSetScissor(cmdBuf, 0, 1, []vk.Rect2D{scissorFor(dc.Viewport, c.swapChain.Extend)})
	vk.CmdBindPipeline(cmdBuf, vk.PipelineBindPointGraphics, c.pipeline)

	vk.CmdBindVertexBuffers(cmdBuf, 0, 1, []vk.Buffer{vBuf}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmdBuf, iBuf, 0, vk.IndexTypeUint16)
	vk.CmdBindDescriptorSets(cmdBuf, vk.PipelineBindPointGraphics, c.pipelineLayout, 0, 1,
		[]vk.DescriptorSet{tb.sets[c.currentFrameIdx]}, 0, nil)
	vk.CmdDrawIndexed(cmdBuf, dc.IndexCount, 1, dc.StartIndex, dc.BaseVertex, 0)

	vk.CmdEndRenderPass(cmdBuf)
	c.frame.drawn = true
}

// Present submits the recorded commands and queues the image for presentation. Without any draw the image is
// only cleared.
func (c *Core) Present() error {
	if !c.frame.active {
		return ErrFrameNotStarted
	}
	defer func() {
		c.frame = frameState{}
	}()
	cmdBuf := c.commandBuffers[c.currentFrameIdx]
	if c.frame.err != nil {
		if c.frame.recording {
			vk.EndCommandBuffer(cmdBuf)
		}
		return c.frame.err
	}
	if err := c.beginRecording(cmdBuf); err != nil {
		return err
	}
	if !c.frame.drawn {
		c.beginRenderPass(cmdBuf, clearValues(model.DrawCall{ClearColor: [4]float32{0, 0, 0, 1}, ClearDepth: 1}))
		vk.CmdEndRenderPass(cmdBuf)
	}
	if err := com.CheckResult("vkEndCommandBuffer", vk.EndCommandBuffer(cmdBuf)); err != nil {
		return fmt.Errorf("failed to record command buffer: %w", err)
	}

	// Reset the fence only if we are actually going to execute work that will put the fence into the signalled state
	vk.ResetFences(c.device.Device, 1, []vk.Fence{c.inFlightFens[c.currentFrameIdx]})

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.imageAvailableSems[c.currentFrameIdx]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmdBuf},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{c.renderFinishedSems[c.currentFrameIdx]},
	}
	if err := com.CheckResult("vkQueueSubmit", vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.inFlightFens[c.currentFrameIdx])); err != nil {
		return fmt.Errorf("failed to submit command buffer: %w", err)
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.renderFinishedSems[c.currentFrameIdx]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
		PImageIndices:      []uint32{c.frame.imgIdx},
		PResults:           nil,
	}
	result := vk.QueuePresent(c.device.PresentQ, &presentInfo)
	c.currentFrameIdx = (c.currentFrameIdx + 1) % MAX_FRAMES_IN_FLIGHT

	// React on surface changes and other possible causes for failure (e.g.: Window resizing)
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal || c.Win.Resized {
		c.Win.Resized = false
		return c.recreateSwapChain()
	} else if result != vk.Success {
		return fmt.Errorf("failed to present image, QueuePresent(...) result code: %d", result)
	}
	return nil
}

func (c *Core) beginRecording(cmdBuf vk.CommandBuffer) error {
	if c.frame.recording {
		return nil
	}
	vk.ResetCommandBuffer(cmdBuf, 0)
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            0,
		PInheritanceInfo: nil,
	}
	if err := com.CheckResult("vkBeginCommandBuffer", vk.BeginCommandBuffer(cmdBuf, &beginInfo)); err != nil {
		return fmt.Errorf("failed to begin recording command buffer: %w", err)
	}
	c.frame.recording = true
	return nil
}

// beginRenderPass starts the render pass on the acquired image, clearing color, depth and stencil
func (c *Core) beginRenderPass(cmdBuf vk.CommandBuffer, clear []vk.ClearValue) {
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		PNext:       nil,
		RenderPass:  c.renderPass,
		Framebuffer: c.swapChain.FrameBuffers[c.frame.imgIdx],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: c.swapChain.Extend,
		},
		ClearValueCount: uint32(len(clear)),
		PClearValues:    clear,
	}
	vk.CmdBeginRenderPass(cmdBuf, &renderPassInfo, vk.SubpassContentsInline)
}

// meshBuffers returns the vertex and index buffer handles of a mesh created by CreateMesh
func meshBuffers(m *model.Mesh) (vk.Buffer, vk.Buffer, bool) {
	vBuf, vOk := m.VertexBuffer.(*com.Buffer)
	iBuf, iOk := m.IndexBuffer.(*com.Buffer)
	if !vOk || !iOk || vBuf == nil || iBuf == nil {
		return nil, nil, false
	}
	return vBuf.Handle, iBuf.Handle, true
}
