// Package input collects window events into per-frame state for the render loop.
package input

import (
	"slices"
	"sync"

	"github.com/seabiscuit-iv/meshview/common"
)

// stateImpl is the implementation of the State interface.
type stateImpl struct {
	mu *sync.Mutex

	held map[uint32]bool

	dragButton uint32
	dragging   bool
	lastX      float32
	lastY      float32
	dragX      float32
	dragY      float32
}

// State is the input snapshot shared between window callbacks and the render tick.
// Window callbacks write into it; the frame coordinator reads held keys and
// drains the drag delta once per frame.
type State interface {
	// KeyDown marks key as held. Repeats are idempotent.
	//
	// Parameters:
	//   - key: the key code (see common.Key*)
	KeyDown(key uint32)

	// KeyUp marks key as released.
	//
	// Parameters:
	//   - key: the key code
	KeyUp(key uint32)

	// Held reports whether key is currently pressed.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true while the key is down
	Held(key uint32) bool

	// HeldKeys returns the pressed keys in ascending order.
	//
	// Returns:
	//   - []uint32: a copy of the held key set
	HeldKeys() []uint32

	// MouseDown starts a drag when button is the drag button.
	//
	// Parameters:
	//   - button: the mouse button (see common.MouseButton*)
	//   - x, y: cursor position in window pixels
	MouseDown(button uint32, x, y float32)

	// MouseUp ends a drag when button is the drag button.
	//
	// Parameters:
	//   - button: the mouse button
	//   - x, y: cursor position in window pixels
	MouseUp(button uint32, x, y float32)

	// MouseMove accumulates cursor motion into the drag delta while dragging.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	MouseMove(x, y float32)

	// Dragging reports whether the drag button is held.
	Dragging() bool

	// TakeDrag returns the motion accumulated since the previous call and resets it.
	//
	// Returns:
	//   - float32: horizontal delta in pixels
	//   - float32: vertical delta in pixels (down is positive)
	TakeDrag() (dx, dy float32)

	// Reset releases all keys and drops any drag in progress, e.g. on focus loss.
	Reset()
}

var _ State = &stateImpl{}

// NewState creates an empty input state. Left mouse button drags by default.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - State: the input state
func NewState(options ...StateBuilderOption) State {
	s := &stateImpl{
		mu:         &sync.Mutex{},
		held:       make(map[uint32]bool),
		dragButton: common.MouseButtonLeft,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *stateImpl) KeyDown(key uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[key] = true
}

func (s *stateImpl) KeyUp(key uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
}

func (s *stateImpl) Held(key uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[key]
}

func (s *stateImpl) HeldKeys() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]uint32, 0, len(s.held))
	for k := range s.held {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *stateImpl) MouseDown(button uint32, x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if button != s.dragButton {
		return
	}
	s.dragging = true
	s.lastX, s.lastY = x, y
}

func (s *stateImpl) MouseUp(button uint32, x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if button != s.dragButton || !s.dragging {
		return
	}
	s.dragX += x - s.lastX
	s.dragY += y - s.lastY
	s.dragging = false
}

func (s *stateImpl) MouseMove(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return
	}
	s.dragX += x - s.lastX
	s.dragY += y - s.lastY
	s.lastX, s.lastY = x, y
}

func (s *stateImpl) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

func (s *stateImpl) TakeDrag() (float32, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dx, dy := s.dragX, s.dragY
	s.dragX, s.dragY = 0, 0
	return dx, dy
}

func (s *stateImpl) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.held)
	s.dragging = false
	s.dragX, s.dragY = 0, 0
}
