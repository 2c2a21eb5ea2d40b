package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEulerRotationZeroIsIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident3(), EulerRotation(0, 0, 0))
}

func TestEulerRotationAxes(t *testing.T) {
	// 90 degrees of yaw turns forward (-Z) to -X.
	look := EulerRotation(0, 90, 0).Mul3x1(CanonicalForward)
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, look[:], 1e-6)

	// 90 degrees of pitch tilts forward (-Z) to +Y.
	look = EulerRotation(90, 0, 0).Mul3x1(CanonicalForward)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, look[:], 1e-6)

	// Pitch does not move the right vector.
	right := EulerRotation(45, 0, 0).Mul3x1(CanonicalRight)
	assert.InDeltaSlice(t, CanonicalRight[:], right[:], 1e-6)

	// 90 degrees of roll turns right (+X) to +Y.
	right = EulerRotation(0, 0, 90).Mul3x1(CanonicalRight)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, right[:], 1e-6)
}

func TestPadPositions(t *testing.T) {
	got := PadPositions([]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, []float32{1, 2, 3, 1, 4, 5, 6, 1}, got)
	assert.Empty(t, PadPositions(nil))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[uint32](nil))
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([]mgl32.Vec4{{}, {}}), 32)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "W", KeyName(KeyW))
	assert.Equal(t, "Q", KeyName(KeyQ))
	assert.Equal(t, "Esc", KeyName(KeyEsc))
	assert.Equal(t, "key(340)", KeyName(340))
}
