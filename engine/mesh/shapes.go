package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Quad returns a unit square in the XY plane made of two triangles with six
// unshared vertices, so each triangle gets its own flat color.
//
// Returns:
//   - []mgl32.Vec3: six positions
//   - []uint32: indices 0..5
func Quad() ([]mgl32.Vec3, []uint32) {
	positions := []mgl32.Vec3{
		{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0},
		{-0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
	}
	return positions, sequentialIndices(len(positions))
}

// Cube returns a unit cube centered at the origin with 36 unshared vertices,
// two triangles per face, counter-clockwise when viewed from outside.
//
// Returns:
//   - []mgl32.Vec3: 36 positions
//   - []uint32: indices 0..35
func Cube() ([]mgl32.Vec3, []uint32) {
	const h = 0.5
	corners := [8]mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}
	positions := make([]mgl32.Vec3, 0, 36)
	for _, f := range faces {
		positions = append(positions,
			corners[f[0]], corners[f[1]], corners[f[2]],
			corners[f[0]], corners[f[2]], corners[f[3]],
		)
	}
	return positions, sequentialIndices(len(positions))
}

// Shape returns the built-in mesh with the given name ("quad" or "cube").
//
// Parameters:
//   - name: shape name
//
// Returns:
//   - []mgl32.Vec3: positions
//   - []uint32: indices
//   - error: error if name is unknown
func Shape(name string) ([]mgl32.Vec3, []uint32, error) {
	switch name {
	case "quad":
		p, i := Quad()
		return p, i, nil
	case "cube":
		p, i := Cube()
		return p, i, nil
	default:
		return nil, nil, fmt.Errorf("unknown shape %q", name)
	}
}

func sequentialIndices(n int) []uint32 {
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}
