package gui

import (
	"math"
	"strings"
	"testing"
)

type titleRecorder struct {
	titles []string
}

func (r *titleRecorder) SetTitle(title string) {
	r.titles = append(r.titles, title)
}

// frame runs one full panel frame with a checkbox and two sliders
type widgets struct {
	enabled bool
	speed   float32
	pos     [3]float32
}

func (w *widgets) frame(p *Panel) {
	p.NewFrame(1.0 / 60.0)
	p.Begin("Scene Control")
	p.Text("static text")
	p.Checkbox("enabled", &w.enabled)
	p.SliderFloat("speed", &w.speed, 0, 10)
	p.SliderFloat3("pos", &w.pos, -2, 2)
	p.End()
	p.Render()
}

func TestPanelNavigation(t *testing.T) {
	p := NewPanel(nil, "")
	w := &widgets{}
	w.frame(p)
	if got := p.DrawData().Focused; got != "[ ] enabled" {
		t.Errorf("First item should be focused initially, got %q", got)
	}

	p.Input(ACTION_NEXT)
	w.frame(p) // focus moves at the end of this frame
	w.frame(p)
	if got := p.DrawData().Focused; !strings.HasPrefix(got, "speed") {
		t.Errorf("Expected speed slider to be focused, got %q", got)
	}

	// wrap around backwards: checkbox, speed, pos.x, pos.y, pos.z
	p.Input(ACTION_PREV)
	p.Input(ACTION_PREV)
	w.frame(p)
	w.frame(p)
	if got := p.DrawData().Focused; !strings.HasPrefix(got, "pos.z") {
		t.Errorf("Expected focus to wrap to pos.z, got %q", got)
	}
}

func TestPanelEditing(t *testing.T) {
	p := NewPanel(nil, "")
	w := &widgets{}
	w.frame(p)

	p.Input(ACTION_TOGGLE)
	w.frame(p)
	if !w.enabled {
		t.Errorf("Toggle should enable the focused checkbox")
	}

	p.Input(ACTION_NEXT)
	w.frame(p)
	p.Input(ACTION_INCREASE)
	p.Input(ACTION_INCREASE)
	w.frame(p)
	if math.Abs(float64(w.speed-0.2)) > 1e-5 {
		t.Errorf("Two increments of a 0..10 slider should result in 0.2, got %f", w.speed)
	}
	if w.pos != [3]float32{} {
		t.Errorf("Unfocused slider changed: %v", w.pos)
	}
}

func TestPanelClamping(t *testing.T) {
	p := NewPanel(nil, "")
	w := &widgets{speed: 42, pos: [3]float32{-5, 1, 5}}
	w.frame(p)
	if w.speed != 10 {
		t.Errorf("Slider value should be clamped to 10, got %f", w.speed)
	}
	if w.pos != [3]float32{-2, 1, 2} {
		t.Errorf("Slider3 values should be clamped to [-2, 2], got %v", w.pos)
	}

	p.Input(ACTION_NEXT)
	w.frame(p)
	for i := 0; i < 10; i++ {
		p.Input(ACTION_INCREASE)
	}
	w.frame(p)
	if w.speed != 10 {
		t.Errorf("Increasing beyond the maximum should stay at 10, got %f", w.speed)
	}
}

func TestPanelWidgetChangeReport(t *testing.T) {
	p := NewPanel(nil, "")
	v := float32(0.5)
	p.NewFrame(0.016)
	if p.SliderFloat("v", &v, 0, 1) {
		t.Errorf("Slider without input should not report a change")
	}
	p.Render()
	p.Input(ACTION_DECREASE)
	p.NewFrame(0.016)
	if !p.SliderFloat("v", &v, 0, 1) {
		t.Errorf("Slider with input should report a change")
	}
	p.Render()
}

func TestPanelFramerate(t *testing.T) {
	p := NewPanel(nil, "")
	if p.Framerate() != 0 {
		t.Errorf("No frames should result in a framerate of 0")
	}
	for i := 0; i < FRAMERATE_SAMPLES*2; i++ {
		p.NewFrame(0.02)
		p.Render()
	}
	if math.Abs(float64(p.Framerate()-50)) > 0.01 {
		t.Errorf("Expected 50 FPS, got %f", p.Framerate())
	}
}

func TestPanelSubmit(t *testing.T) {
	rec := &titleRecorder{}
	p := NewPanel(rec, "Sample")
	w := &widgets{}
	w.frame(p)
	p.Submit()
	if len(rec.titles) != 1 {
		t.Fatalf("Expected one submitted title, got %d", len(rec.titles))
	}
	title := rec.titles[0]
	if !strings.HasPrefix(title, "Sample | ") || !strings.Contains(title, "FPS") || !strings.HasSuffix(title, "[ ] enabled") {
		t.Errorf("Unexpected title %q", title)
	}
	dd := p.DrawData()
	if dd.Window != "Scene Control" || len(dd.Lines) != 6 {
		t.Errorf("Unexpected draw data: %+v", dd)
	}
}
