// Package input defines the viewer's input events and applies them to the
// view state. Events are produced by the window package from SDL.
package input

import (
	"github.com/Faultbox/objview/internal/engine/camera"
)

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventScroll
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyR
	KeyF12
)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     Key
	Width   int
	Height  int
	MouseX  int
	MouseY  int
	Button  camera.Button
	ScrollY float32 // positive scrolls away from the user
}

// Actions is what a batch of events asks the viewer loop to do besides
// updating the view state.
type Actions struct {
	Quit       bool
	Screenshot bool
	Resized    bool
	Width      int
	Height     int
}

// Input queues the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input queue.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset clears the queue at the start of a frame.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push appends an event.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events queued since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// Apply dispatches events to vs in order and collects the remaining actions.
// Events after a quit request are not applied.
func Apply(vs *camera.ViewState, events []Event) Actions {
	var a Actions
	for _, e := range events {
		switch e.Type {
		case EventQuit:
			a.Quit = true
			return a

		case EventMouseDown:
			vs.PointerDown(e.Button, float32(e.MouseX), float32(e.MouseY))

		case EventMouseUp:
			vs.PointerUp(e.Button)

		case EventMouseMove:
			vs.PointerMove(float32(e.MouseX), float32(e.MouseY))

		case EventScroll:
			if e.ScrollY != 0 {
				vs.Scroll(e.ScrollY)
			}

		case EventKeyDown:
			switch e.Key {
			case KeyEscape:
				a.Quit = true
				return a
			case KeyR:
				vs.Reset()
			case KeyF12:
				a.Screenshot = true
			}

		case EventWindowResize:
			if e.Width > 0 && e.Height > 0 {
				a.Resized = true
				a.Width, a.Height = e.Width, e.Height
			}
		}
	}
	return a
}
