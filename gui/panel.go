package gui

import (
	"fmt"
	"log"
	"strings"

	vm "local/vector_math"
)

const FRAMERATE_SAMPLES = 120

// SLIDER_STEPS is the number of key presses it takes to move a slider from its minimum to its maximum
const SLIDER_STEPS = 100

// DrawData is the result of one rendered Panel frame
type DrawData struct {
	Window  string
	Lines   []string
	Focused string
}

// Panel is a keyboard driven implementation of Frontend. Every widget component is one focusable item, queued
// actions move the focus or edit the focused item on the next frame. The rendered result is submitted to the
// window title, the full draw data is logged whenever it changed.
type Panel struct {
	target TitleSetter
	prefix string

	focus   int
	items   int
	pending []Action
	active  []Action

	window  string
	lines   []string
	focused string

	frameTimes [FRAMERATE_SAMPLES]float32
	frameIdx   int
	frameCnt   int
	frameSum   float32

	drawData      DrawData
	lastSubmitted string
}

// NewPanel creates a Panel submitting to target. The prefix is put in front of the submitted window title. A nil
// target only keeps the draw data around.
func NewPanel(target TitleSetter, prefix string) *Panel {
	return &Panel{
		target: target,
		prefix: prefix,
	}
}

// Input queues a for the next frame
func (p *Panel) Input(a Action) {
	p.pending = append(p.pending, a)
}

func (p *Panel) NewFrame(dt float32) {
	p.trackFrameTime(dt)
	p.items = 0
	p.lines = p.lines[:0]
	p.window = ""
	p.focused = ""
	p.active, p.pending = p.pending, p.active[:0]
}

// Framerate is the average frames per second over the last FRAMERATE_SAMPLES frames
func (p *Panel) Framerate() float32 {
	if p.frameSum <= 0 {
		return 0
	}
	return float32(p.frameCnt) / p.frameSum
}

func (p *Panel) trackFrameTime(dt float32) {
	if dt < 0 {
		dt = 0
	}
	p.frameSum += dt - p.frameTimes[p.frameIdx]
	p.frameTimes[p.frameIdx] = dt
	p.frameIdx = (p.frameIdx + 1) % FRAMERATE_SAMPLES
	if p.frameCnt < FRAMERATE_SAMPLES {
		p.frameCnt++
	}
}

func (p *Panel) Begin(title string) bool {
	p.window = title
	return true
}

func (p *Panel) End() {}

func (p *Panel) Text(format string, args ...any) {
	p.lines = append(p.lines, "  "+fmt.Sprintf(format, args...))
}

func (p *Panel) Checkbox(label string, v *bool) bool {
	old := *v
	if p.nextItem() {
		for _, a := range p.active {
			if a == ACTION_TOGGLE || a == ACTION_INCREASE || a == ACTION_DECREASE {
				*v = !*v
			}
		}
	}
	mark := " "
	if *v {
		mark = "x"
	}
	p.addItemLine(fmt.Sprintf("[%s] %s", mark, label))
	return old != *v
}

func (p *Panel) SliderFloat(label string, v *float32, min float32, max float32) bool {
	old := *v
	*v = p.slide(*v, min, max)
	p.addItemLine(fmt.Sprintf("%s %.3f", label, *v))
	return old != *v
}

func (p *Panel) SliderFloat3(label string, v *[3]float32, min float32, max float32) bool {
	old := *v
	for i, c := range []string{"x", "y", "z"} {
		v[i] = p.slide(v[i], min, max)
		p.addItemLine(fmt.Sprintf("%s.%s %.3f", label, c, v[i]))
	}
	return old != *v
}

// slide applies the active actions if the next item is focused and clamps the value to [min, max] regardless
func (p *Panel) slide(v float32, min float32, max float32) float32 {
	if p.nextItem() {
		step := (max - min) / SLIDER_STEPS
		for _, a := range p.active {
			switch a {
			case ACTION_INCREASE:
				v += step
			case ACTION_DECREASE:
				v -= step
			}
		}
	}
	return vm.Clamp(v, min, max)
}

// nextItem registers a focusable item and reports whether it holds the focus
func (p *Panel) nextItem() bool {
	idx := p.items
	p.items++
	return idx == p.focus
}

func (p *Panel) addItemLine(s string) {
	if p.items-1 == p.focus {
		p.focused = s
		p.lines = append(p.lines, "> "+s)
		return
	}
	p.lines = append(p.lines, "  "+s)
}

// Render moves the focus according to the navigation actions of this frame and finalizes the draw data
func (p *Panel) Render() {
	for _, a := range p.active {
		switch a {
		case ACTION_NEXT:
			p.focus++
		case ACTION_PREV:
			p.focus--
		}
	}
	if p.items == 0 {
		p.focus = 0
	} else {
		p.focus = ((p.focus % p.items) + p.items) % p.items
	}
	p.active = p.active[:0]

	lines := make([]string, len(p.lines))
	copy(lines, p.lines)
	p.drawData = DrawData{
		Window:  p.window,
		Lines:   lines,
		Focused: p.focused,
	}
}

func (p *Panel) DrawData() DrawData {
	return p.drawData
}

// Title is the single line representation of the draw data
func (p *Panel) Title() string {
	parts := []string{}
	if p.prefix != "" {
		parts = append(parts, p.prefix)
	}
	parts = append(parts, fmt.Sprintf("%.1f FPS", p.Framerate()))
	if p.drawData.Focused != "" {
		parts = append(parts, p.drawData.Focused)
	}
	return strings.Join(parts, " | ")
}

// Submit hands the rendered frame to the target
func (p *Panel) Submit() {
	if p.target != nil {
		p.target.SetTitle(p.Title())
	}
	if p.drawData.Focused != p.lastSubmitted {
		log.Printf("%s\n%s", p.drawData.Window, strings.Join(p.drawData.Lines, "\n"))
		p.lastSubmitted = p.drawData.Focused
	}
}
