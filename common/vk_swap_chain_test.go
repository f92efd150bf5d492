package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestSelectSwapExtent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1280, Height: 720},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	if ext := selectSwapExtent(caps, 640, 480); ext.Width != 1280 || ext.Height != 720 {
		t.Errorf("A defined current extent must be used as is, got %v", ext)
	}

	caps.CurrentExtent = vk.Extent2D{Width: UNDEFINED_EXTENT, Height: UNDEFINED_EXTENT}
	if ext := selectSwapExtent(caps, 640, 480); ext.Width != 640 || ext.Height != 480 {
		t.Errorf("Undefined current extent should fall back to the drawable size, got %v", ext)
	}
	if ext := selectSwapExtent(caps, 8000, 0); ext.Width != 4096 || ext.Height != 1 {
		t.Errorf("Drawable size has to be clamped to the supported range, got %v", ext)
	}
}

func TestSelectImageCount(t *testing.T) {
	if n := selectImageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}); n != 3 {
		t.Errorf("No maximum means min + 1, got %d", n)
	}
	if n := selectImageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}); n != 2 {
		t.Errorf("Maximum has to be respected, got %d", n)
	}
}

func TestSelectPresentMode(t *testing.T) {
	details := SwapChainDetails{presentModes: []vk.PresentMode{vk.PresentModeMailbox, vk.PresentModeFifo}}
	if pm := details.selectSwapPresentMode(vk.PresentModeFifo); pm != vk.PresentModeFifo {
		t.Errorf("Expected FIFO, got %d", pm)
	}
	details.presentModes = []vk.PresentMode{vk.PresentModeImmediate}
	if pm := details.selectSwapPresentMode(vk.PresentModeMailbox); pm != vk.PresentModeFifo {
		t.Errorf("Missing modes should fall back to FIFO, got %d", pm)
	}
}
