package frame

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/common"
)

// Orientation is the accumulated view rotation in degrees.
// Pitch turns about X, yaw about Y and roll about Z.
type Orientation struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

// Matrix returns the rotation Rz(roll) * Ry(yaw) * Rx(pitch).
//
// Returns:
//   - mgl32.Mat3: the rotation applied to the canonical camera axes
func (o Orientation) Matrix() mgl32.Mat3 {
	return common.EulerRotation(o.Pitch, o.Yaw, o.Roll)
}

// applyDrag adds a drag delta scaled by -sensitivity: horizontal motion turns
// yaw, vertical motion turns pitch.
func (o Orientation) applyDrag(dx, dy, sensitivity float32) Orientation {
	o.Pitch += dy * -sensitivity
	o.Yaw += dx * -sensitivity
	return o
}
