package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"graphics_engine/app"
	com "graphics_engine/common"
	"graphics_engine/config"
	"graphics_engine/gui"
	"graphics_engine/renderer"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)
	log.Printf("Using GoLang: [%s]", runtime.Version())
	// SDL and Vulkan calls have to come from the thread that created the window
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", config.DEFAULT_CONFIG_FILE, "path to the YAML configuration")
	shape := flag.String("shape", "", "mesh to render: triangle, square or cube (overrides the config)")
	noControls := flag.Bool("no-controls", false, "only show frame statistics instead of the transform controls")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *shape != "" {
		cfg.Shape = *shape
	}
	if *noControls {
		cfg.TransformControls = false
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	win, err := com.NewWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.ValidationLayers())
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer win.Destroy()

	core, err := renderer.NewRenderCore(win, renderer.Options{ShaderCompiler: cfg.Shaders.Compiler})
	if err != nil {
		log.Fatalf("Failed to create render core: %v", err)
	}
	defer core.Destroy()

	// Aspect 0 lets the application use the one of the swap chain
	tp := cfg.TransformParams(0)
	application := app.NewApplication(app.Options{
		Shape:             cfg.ShapeValue(),
		TransformControls: cfg.TransformControls,
		VertexShader:      cfg.VertexShader(),
		PixelShader:       cfg.PixelShader(),
		Transform:         &tp,
	})
	if err = application.Initialize(core); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Destroy()

	panel := gui.NewPanel(win, cfg.Window.Title)
	if err = loop(win, application, panel); err != nil {
		log.Printf("Render loop stopped: %v", err)
	}
}

// loop is the event-loop for user interaction and drives one application frame per iteration. Rendering pauses
// while the window is minimized, ESC and the window's close button end it.
func loop(win *com.Window, a *app.Application, panel *gui.Panel) error {
	t0 := time.Now()
	last := t0
	frames := 0
	win.Close = false
	for !win.Close {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			handleEvent(win, panel, event)
		}
		if !win.Minimized {
			now := time.Now()
			dt := float32(now.Sub(last).Seconds())
			last = now
			if err := a.RunFrame(panel, dt); err != nil {
				return err
			}
			frames++
		} else {
			// Sleep until new events change win.Minimized, the waking event is handled like any other
			if event := sdl.WaitEvent(); event != nil {
				handleEvent(win, panel, event)
			}
			last = time.Now()
		}
	}
	dt := time.Since(t0)
	log.Printf("Elapsed: %v, rough avg fps: %v fps", dt, float64(frames)/dt.Seconds())
	return nil
}

type actionInput interface {
	Input(a gui.Action)
}

// handleEvent applies the basic window handling of event to win and forwards mapped key presses to input
func handleEvent(win *com.Window, input actionInput, event sdl.Event) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		win.Close = true
	case *sdl.WindowEvent:
		if ev.Event == sdl.WINDOWEVENT_RESIZED || ev.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			win.Resized = true
		} else if ev.Event == sdl.WINDOWEVENT_MINIMIZED {
			win.Minimized = true
		} else if ev.Event == sdl.WINDOWEVENT_RESTORED {
			win.Minimized = false
		}
	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYDOWN {
			return
		}
		if ev.Keysym.Sym == sdl.K_ESCAPE {
			win.Close = true
		} else if action, ok := keyActions[ev.Keysym.Sym]; ok {
			input.Input(action)
		}
	}
}

var keyActions = map[sdl.Keycode]gui.Action{
	sdl.K_DOWN:   gui.ACTION_NEXT,
	sdl.K_UP:     gui.ACTION_PREV,
	sdl.K_RIGHT:  gui.ACTION_INCREASE,
	sdl.K_LEFT:   gui.ACTION_DECREASE,
	sdl.K_SPACE:  gui.ACTION_TOGGLE,
	sdl.K_RETURN: gui.ACTION_TOGGLE,
}
