package common

import (
	"errors"
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// UNDEFINED_EXTENT is reported as current extent by surfaces that let the swap chain decide on its size
const UNDEFINED_EXTENT = ^uint32(0)

type SwapChain struct {
	supDetails SwapChainDetails
	Handle     vk.Swapchain

	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extend      vk.Extent2D

	Images   []vk.Image
	ImgViews []vk.ImageView
	Aspect   float32

	FrameBuffers []vk.Framebuffer
}

// NewSwapChain creates a swap chain presenting with the FIFO present mode, so each present waits for one
// vertical blank.
func NewSwapChain(dc *Device, w *Window) (*SwapChain, error) {
	sc := &SwapChain{}
	if err := sc.chooseConfiguration(dc, w); err != nil {
		return nil, err
	}
	if err := sc.createSwapChainHandle(dc, w); err != nil {
		return nil, err
	}
	var err error
	sc.Images, err = ReadSwapChainImages(dc.Device, sc.Handle)
	if err != nil {
		sc.Destroy(dc)
		return nil, err
	}
	if err = sc.createImageViews(dc); err != nil {
		sc.Destroy(dc)
		return nil, err
	}

	// Precalculate the images' aspect ratio for later
	sc.Aspect = float32(sc.Extend.Width) / float32(sc.Extend.Height)
	log.Printf("Created swap chain: %dx%d, %d images, present mode %d", sc.Extend.Width, sc.Extend.Height, len(sc.Images), sc.PresentMode)
	return sc, nil
}

func (sc *SwapChain) CreateFrameBuffers(dc *Device, renderPass vk.RenderPass, depthImageView vk.ImageView) error {
	sc.FrameBuffers = make([]vk.Framebuffer, 0, len(sc.ImgViews))
	for i := range sc.ImgViews {
		attachments := []vk.ImageView{sc.ImgViews[i]}
		if depthImageView != nil {
			attachments = append(attachments, depthImageView)
		}
		framebufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			PNext:           nil,
			Flags:           0,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           sc.Extend.Width,
			Height:          sc.Extend.Height,
			Layers:          1,
		}
		fb, err := VkCreateFrameBuffer(dc.Device, &framebufferInfo, nil)
		if err != nil {
			return fmt.Errorf("failed to create frame buffer [%d]: %w", i, err)
		}
		sc.FrameBuffers = append(sc.FrameBuffers, fb)
	}
	return nil
}

func (sc *SwapChain) chooseConfiguration(dc *Device, w *Window) error {
	sc.supDetails = ReadSwapChainSupportDetails(dc.PhysicalDevice, *w.Surf)
	if len(sc.supDetails.formats) == 0 {
		return errors.New("surface does not report any formats")
	}
	sc.Format = sc.supDetails.selectSwapSurfaceFormat(vk.FormatB8g8r8a8Unorm, vk.ColorSpaceSrgbNonlinear)
	sc.PresentMode = sc.supDetails.selectSwapPresentMode(vk.PresentModeFifo)
	dw, dh := w.DrawableSize()
	sc.Extend = selectSwapExtent(sc.supDetails.capabilities, dw, dh)
	if sc.Extend.Width == 0 || sc.Extend.Height == 0 {
		return errors.New("surface has a zero sized extent")
	}
	return nil
}

func (sc *SwapChain) createSwapChainHandle(dc *Device, w *Window) error {
	imgCount := selectImageCount(sc.supDetails.capabilities)

	// Depending on whether our queue families are the same for graphics and presentation, we need to choose different
	// swap chain configurations: https://vulkan-tutorial.com/Drawing_a_triangle/Presentation/Swap_chain
	indices := dc.QFamilies
	var sharingMode vk.SharingMode
	var indexCount uint32
	qFamIndices := []uint32{*indices.GraphicsFamily, *indices.PresentFamily}
	if *indices.GraphicsFamily != *indices.PresentFamily {
		sharingMode = vk.SharingModeConcurrent
		indexCount = 2
	} else {
		sharingMode = vk.SharingModeExclusive
		indexCount = 0
		qFamIndices = nil
	}

	// Reasonable default values for creating a swap chain
	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Surface:               *w.Surf,
		MinImageCount:         imgCount,
		ImageFormat:           sc.Format.Format,
		ImageColorSpace:       sc.Format.ColorSpace,
		ImageExtent:           sc.Extend,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		QueueFamilyIndexCount: indexCount,
		PQueueFamilyIndices:   qFamIndices,
		PreTransform:          sc.supDetails.capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           sc.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          nil,
	}

	var err error
	sc.Handle, err = VkCreateSwapChain(dc.Device, createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create swap chain: %w", err)
	}
	return nil
}

func (sc *SwapChain) createImageViews(dc *Device) error {
	sc.ImgViews = make([]vk.ImageView, 0, len(sc.Images))
	for i := range sc.Images {
		iv, err := VKSCreate2DImageView(dc.Device, sc.Images[i], sc.Format.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return fmt.Errorf("failed to create swap chain image view [%d]: %w", i, err)
		}
		sc.ImgViews = append(sc.ImgViews, iv)
	}
	return nil
}

func (sc *SwapChain) Destroy(dc *Device) {
	for i := range sc.FrameBuffers {
		vk.DestroyFramebuffer(dc.Device, sc.FrameBuffers[i], nil)
	}
	for i := range sc.ImgViews {
		vk.DestroyImageView(dc.Device, sc.ImgViews[i], nil)
	}
	if sc.Handle != nil {
		vk.DestroySwapchain(dc.Device, sc.Handle, nil)
	}
	sc.FrameBuffers, sc.ImgViews, sc.Images = nil, nil, nil
}

type SwapChainDetails struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func (s *SwapChainDetails) selectSwapSurfaceFormat(desiredFormat vk.Format, desiredColorSpace vk.ColorSpace) vk.SurfaceFormat {
	for _, af := range s.formats {
		if af.Format == desiredFormat && af.ColorSpace == desiredColorSpace {
			return af
		}
	}
	fallbackFormat := s.formats[0]
	log.Printf("Did not find preferred SurfaceFormat, selecting first one available. (%v)", fallbackFormat)
	return fallbackFormat
}

func (s *SwapChainDetails) selectSwapPresentMode(desiredMode vk.PresentMode) vk.PresentMode {
	for _, pm := range s.presentModes {
		if pm == desiredMode {
			return pm
		}
	}
	// FIFO is the only mode every implementation has to support
	return vk.PresentModeFifo
}

// selectSwapExtent takes the surface's current extent if defined, otherwise the drawable size of the window
// clamped to the supported range: https://vulkan-tutorial.com/Drawing_a_triangle/Presentation/Swap_chain
func selectSwapExtent(caps vk.SurfaceCapabilities, drawableW uint32, drawableH uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != UNDEFINED_EXTENT {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampU32(drawableW, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampU32(drawableH, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// selectImageCount asks for one image more than the minimum, respecting the maximum where one is set (> 0)
func selectImageCount(caps vk.SurfaceCapabilities) uint32 {
	imgCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imgCount > caps.MaxImageCount {
		imgCount = caps.MaxImageCount
	}
	return imgCount
}

func clampU32(v uint32, min uint32, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func checkSwapChainAdequacy(pd vk.PhysicalDevice, surface vk.Surface) bool {
	scDetails := ReadSwapChainSupportDetails(pd, surface)
	return len(scDetails.formats) > 0 && len(scDetails.presentModes) > 0
}
