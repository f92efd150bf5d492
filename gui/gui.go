package gui

// UI is an immediate mode control surface. Widgets are declared anew every frame between Begin and End, the
// value pointers are read and written in place. Every widget reports whether it changed its value this frame.
type UI interface {
	Begin(title string) bool
	End()
	Text(format string, args ...any)
	Checkbox(label string, v *bool) bool
	SliderFloat(label string, v *float32, min float32, max float32) bool
	SliderFloat3(label string, v *[3]float32, min float32, max float32) bool
}

// Frontend is a UI including its per-frame lifecycle: NewFrame -> widgets -> Render -> Submit
type Frontend interface {
	UI
	NewFrame(dt float32)
	Render()
	Framerate() float32
	Submit()
}

// Action is a single navigation or edit input that the Panel applies on the next frame
type Action int

const (
	ACTION_NEXT Action = iota
	ACTION_PREV
	ACTION_INCREASE
	ACTION_DECREASE
	ACTION_TOGGLE
)

func (a Action) String() string {
	switch a {
	case ACTION_NEXT:
		return "next"
	case ACTION_PREV:
		return "prev"
	case ACTION_INCREASE:
		return "increase"
	case ACTION_DECREASE:
		return "decrease"
	case ACTION_TOGGLE:
		return "toggle"
	}
	return "unknown"
}

// TitleSetter is where the Panel submits its draw data to. *sdl.Window satisfies it.
type TitleSetter interface {
	SetTitle(title string)
}
