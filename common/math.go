package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Canonical camera-space axes. Orientation is always applied to these, never
// to the previous frame's vectors.
var (
	CanonicalForward = mgl32.Vec3{0, 0, -1}
	CanonicalRight   = mgl32.Vec3{1, 0, 0}
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PadPositions flattens 3D positions into x,y,z,1 quadruples for a 4-wide
// vertex attribute.
//
// Parameters:
//   - positions: vertex positions
//
// Returns:
//   - []float32: 4*len(positions) floats
func PadPositions(positions []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(positions)*4)
	for _, p := range positions {
		out = append(out, p[0], p[1], p[2], 1.0)
	}
	return out
}

// EulerRotation builds a rotation matrix from angles given in degrees.
// Pitch rotates about X, yaw about Y and roll about Z, composed as
// R = Rz(roll) * Ry(yaw) * Rx(pitch), so pitch is applied first.
//
// Parameters:
//   - pitch, yaw, roll: rotation angles in degrees
//
// Returns:
//   - mgl32.Mat3: the rotation matrix
func EulerRotation(pitch, yaw, roll float32) mgl32.Mat3 {
	rx := mgl32.Rotate3DX(mgl32.DegToRad(pitch))
	ry := mgl32.Rotate3DY(mgl32.DegToRad(yaw))
	rz := mgl32.Rotate3DZ(mgl32.DegToRad(roll))
	return rz.Mul3(ry).Mul3(rx)
}
