package common

import "fmt"

// Virtual key codes for the viewer's movement and control keys.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW   = 87  // W key (ASCII), move forward along look
	KeyA   = 65  // A key (ASCII), move left along -right
	KeyS   = 83  // S key (ASCII), move back along -look
	KeyD   = 68  // D key (ASCII), move right along right
	KeyQ   = 81  // Q key (ASCII), move down along -up
	KeyE   = 69  // E key (ASCII), move up along up
	KeyR   = 82  // R key (ASCII), reset the view
	KeyEsc = 256 // Escape key (GLFW)
)

// Mouse button codes, matching GLFW's numbering.
const (
	MouseButtonLeft  = 0
	MouseButtonRight = 1
)

// MovementKeys lists the six keys sampled by the frame coordinator each frame.
var MovementKeys = [...]uint32{KeyW, KeyS, KeyA, KeyD, KeyQ, KeyE}

// KeyName returns the printable name of a key code, e.g. "W" for KeyW.
// Keys outside the printable ASCII range are shown by number.
func KeyName(key uint32) string {
	if key == KeyEsc {
		return "Esc"
	}
	if key > 32 && key < 127 {
		return string(rune(key))
	}
	return fmt.Sprintf("key(%d)", key)
}
