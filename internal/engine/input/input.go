// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for frame use
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
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  int32
}

// Input keeps the events of the last frame plus held button and key state.
type Input struct {
	events []Event

	buttons     map[uint8]bool // Held
	buttonsDown map[uint8]bool // Went down this frame
	buttonsUp   map[uint8]bool // Went up this frame
	keys        map[sdl.Scancode]bool

	mouseX, mouseY int
	dx, dy         int
	wheel          int32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:      make([]Event, 0, 16),
		buttons:     make(map[uint8]bool),
		buttonsDown: make(map[uint8]bool),
		buttonsUp:   make(map[uint8]bool),
		keys:        make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to frame events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.beginFrame()
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

func (i *Input) beginFrame() {
	i.events = i.events[:0]
	clear(i.buttonsDown)
	clear(i.buttonsUp)
	i.dx, i.dy, i.wheel = 0, 0, 0
}

// handle records one SDL event. It reports whether the event asks to quit.
func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			if e.Repeat == 0 {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			}
			i.keys[e.Keysym.Scancode] = true
		} else if e.Type == sdl.KEYUP {
			i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			delete(i.keys, e.Keysym.Scancode)
		}

	case *sdl.MouseMotionEvent:
		i.dx += int(e.XRel)
		i.dy += int(e.YRel)
		i.mouseX, i.mouseY = int(e.X), int(e.Y)
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		})

	case *sdl.MouseButtonEvent:
		i.mouseX, i.mouseY = int(e.X), int(e.Y)
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
			i.buttons[e.Button] = true
			i.buttonsDown[e.Button] = true
		} else if e.Type == sdl.MOUSEBUTTONUP {
			ev.Type = EventMouseUp
			delete(i.buttons, e.Button)
			i.buttonsUp[e.Button] = true
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		i.wheel += e.Y
		i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: e.Y})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// IsButtonDown reports whether a mouse button is held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// IsButtonPressed reports whether a mouse button went down this frame.
func (i *Input) IsButtonPressed(button uint8) bool {
	return i.buttonsDown[button]
}

// IsButtonReleased reports whether a mouse button went up this frame.
func (i *Input) IsButtonReleased(button uint8) bool {
	return i.buttonsUp[button]
}

// MousePosition returns the last known pointer position in pixels.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}

// MouseDelta returns the pointer movement this frame.
func (i *Input) MouseDelta() (int, int) {
	return i.dx, i.dy
}

// Wheel returns the vertical wheel movement this frame.
func (i *Input) Wheel() int32 {
	return i.wheel
}
