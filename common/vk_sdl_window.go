package common

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

const APPLICATION_NAME = "Graphics Engine"
const APP_MAJOR, APP_MINOR, APP_PATCH = 1, 0, 0
const ENGINE_NAME = "No Engine"
const ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH = 1, 0, 0

const SDL_MAJOR, SDL_MINOR, SDL_PATCH = int(sdl.MAJOR_VERSION), int(sdl.MINOR_VERSION), int(sdl.PATCHLEVEL)

// Instance level API version. Everything used is core 1.0 plus the swap chain extension.
const VK_API_MAJOR, VK_API_MINOR, VK_API_PATCH int = 1, 0, 0

// Window encapsulates all window handling components and vulkan access objects to talk, to actual draw on screen. It
// uses SDL for window management and user input, for a Vulkan application. Thus simplifying the process of getting a
// vk.surface to draw on and interact with.
type Window struct {
	sdlVersion string
	vkVersion  string

	Win       *sdl.Window
	Resized   bool
	Minimized bool
	Close     bool

	Inst *vk.Instance
	Surf *vk.Surface
	// Layers are the validation layers actually enabled on the instance
	Layers []string
}

// NewWindow constructs a new Window struct by default initializing things, stating some meta information and
// calling the corresponding init functions for the SDL window, Vulkan API instance and so on. On tear down,
// we need to destroy the: vk.surface, vk.instance and sdl.window.
func NewWindow(title string, w int32, h int32, validationLayers []string) (*Window, error) {
	window := &Window{
		sdlVersion: fmt.Sprintf("v%d.%d.%d", SDL_MAJOR, SDL_MINOR, SDL_PATCH),
		vkVersion:  fmt.Sprintf("v%d.%d.%d", VK_API_MAJOR, VK_API_MINOR, VK_API_PATCH),
	}
	if err := window.initSDLWindow(title, w, h); err != nil {
		return nil, err
	}
	if err := window.initVulkan(); err != nil {
		window.Destroy()
		return nil, err
	}
	if err := window.createVulkanInstance(validationLayers); err != nil {
		window.Destroy()
		return nil, err
	}
	if err := window.createSdlVkSurface(); err != nil {
		window.Destroy()
		return nil, err
	}
	log.Printf("Generated SDL/Vulkan window - SDL: %s Vulkan API: %s", window.sdlVersion, window.vkVersion)
	return window, nil
}

// Destroy is a convenience method to tear down all relevant instances (vk.surface, vk.instance and sdl.window)
// that have been initialized by itself.
func (w *Window) Destroy() {
	if w.Surf != nil {
		vk.DestroySurface(*w.Inst, *w.Surf, nil)
		w.Surf = nil
	}
	if w.Inst != nil {
		vk.DestroyInstance(*w.Inst, nil)
		w.Inst = nil
	}
	if w.Win != nil {
		if err := w.Win.Destroy(); err != nil {
			log.Printf("Failed to destroy SDL window: %s", err)
		}
		w.Win = nil
	}
	sdl.Quit()
}

// SetTitle replaces the window's title, it is the output of the text GUI
func (w *Window) SetTitle(title string) {
	w.Win.SetTitle(title)
}

// DrawableSize is the size of the window in pixels, which may differ from its size in screen coordinates
func (w *Window) DrawableSize() (uint32, uint32) {
	dw, dh := w.Win.VulkanGetDrawableSize()
	if dw < 0 || dh < 0 {
		return 0, 0
	}
	return uint32(dw), uint32(dh)
}

func (w *Window) initSDLWindow(title string, width int32, height int32) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	log.Println("Initialized SDL")
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_VULKAN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create SDL window for use with Vulkan: %w", err)
	}
	log.Printf("Created SDL window for use with Vulkan. Title: \"%s\", Width: %d, Height: %d", title, width, height)
	w.Win = win
	return nil
}

func (w *Window) initVulkan() error {
	// Find and load Vulkan addresses to be able to call driver level functions via provided mechanism
	vk.SetGetInstanceProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize Vulkan API: %w", err)
	}
	return nil
}

func (w *Window) createVulkanInstance(validationLayers []string) error {
	requiredExtensions := w.Win.VulkanGetInstanceExtensions()
	if err := checkInstanceExtensionSupport(requiredExtensions); err != nil {
		return err
	}
	if len(validationLayers) > 0 {
		log.Printf("Validation enabled, checking layer support")
		if err := checkValidationLayerSupport(validationLayers); err != nil {
			log.Printf("Continuing without validation: %s", err)
			validationLayers = nil
		}
	}
	applicationInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PNext:              nil,
		PApplicationName:   TerminatedStr(APPLICATION_NAME),
		ApplicationVersion: vk.MakeVersion(APP_MAJOR, APP_MINOR, APP_PATCH),
		PEngineName:        TerminatedStr(ENGINE_NAME),
		EngineVersion:      vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		ApiVersion:         vk.MakeVersion(VK_API_MAJOR, VK_API_MINOR, VK_API_PATCH),
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		PApplicationInfo:        applicationInfo,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(requiredExtensions),
	}
	if len(validationLayers) > 0 {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}
	ins, err := VkCreateInstance(createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create vk instance: %w", err)
	}
	w.Inst = &ins
	w.Layers = validationLayers
	return nil
}

func checkInstanceExtensionSupport(requiredInstanceExt []string) error {
	supportedExtNames, err := ReadInstanceExtensionPropertyNames()
	if err != nil {
		return err
	}
	log.Printf("Required instance extensions: %v", requiredInstanceExt)
	log.Printf("Available extensions (%d): %v", len(supportedExtNames), supportedExtNames)

	if missing := Missing(requiredInstanceExt, supportedExtNames); len(missing) > 0 {
		return fmt.Errorf("required instance extensions not supported: %v", missing)
	}
	log.Println("Success - All required instance extensions are supported")
	return nil
}

func checkValidationLayerSupport(requiredLayers []string) error {
	supportedLayerNames, err := ReadInstanceLayerPropertyNames()
	if err != nil {
		return err
	}
	log.Printf("Desired validation layers: %v", requiredLayers)
	log.Printf("Supported layers (%d): %v", len(supportedLayerNames), supportedLayerNames)

	if missing := Missing(requiredLayers, supportedLayerNames); len(missing) > 0 {
		return fmt.Errorf("validation layers not supported: %v", missing)
	}
	log.Println("Success - All desired validation layers are supported")
	return nil
}

func (w *Window) createSdlVkSurface() error {
	surf, err := SdlCreateVkSurface(w.Win, *w.Inst)
	if err != nil {
		return fmt.Errorf("failed to create SDL window's Vulkan-surface: %w", err)
	}
	w.Surf = &surf
	return nil
}
