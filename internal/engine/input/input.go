// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skinview/internal/engine/camera"
)

// EventType classifies processed events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
}

// movementKeys maps scancodes to camera movement.
var movementKeys = map[sdl.Scancode]camera.Key{
	sdl.SCANCODE_W:      camera.KeyForward,
	sdl.SCANCODE_S:      camera.KeyBackward,
	sdl.SCANCODE_A:      camera.KeyLeft,
	sdl.SCANCODE_D:      camera.KeyRight,
	sdl.SCANCODE_SPACE:  camera.KeyUp,
	sdl.SCANCODE_LSHIFT: camera.KeyDown,
}

// MovementKey returns the camera key bound to a scancode.
func MovementKey(sc sdl.Scancode) (camera.Key, bool) {
	k, ok := movementKeys[sc]
	return k, ok
}

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

// handle converts one SDL event. Returns true on quit.
func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		sc := e.Keysym.Scancode
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat == 0 {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: sc})
			}
			i.held[sc] = true
		case sdl.KEYUP:
			i.events = append(i.events, Event{Type: EventKeyUp, Key: sc})
			delete(i.held, sc)
		}

	case *sdl.MouseMotionEvent:
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			RelX:   int(e.XRel),
			RelY:   int(e.YRel),
		})
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// HeldMovement returns the camera keys currently held, in a fixed order.
func (i *Input) HeldMovement() []camera.Key {
	var keys []camera.Key
	for k := camera.KeyForward; k <= camera.KeyDown; k++ {
		for sc, mapped := range movementKeys {
			if mapped == k && i.held[sc] {
				keys = append(keys, k)
				break
			}
		}
	}
	return keys
}
