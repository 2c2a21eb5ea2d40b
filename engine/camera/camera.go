package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/common"
)

// ProjectionType selects how the camera maps view space to clip space.
type ProjectionType int

const (
	// ProjectionPerspective is a symmetric perspective frustum.
	ProjectionPerspective ProjectionType = iota

	// ProjectionOrthographic is an axis-aligned box centered on the view axis.
	ProjectionOrthographic
)

// Default camera pose and projection. NewCamera starts from exactly these values.
var (
	// DefaultPosition places the camera two units along +Z from the origin.
	DefaultPosition = mgl32.Vec3{0, 0, 2}
	// DefaultLook faces -Z, toward the origin.
	DefaultLook = common.CanonicalForward
	// DefaultRight points along +X.
	DefaultRight = common.CanonicalRight
)

const (
	DefaultFov        float32 = 45.0 * (math.Pi / 180.0) // radians
	DefaultAspect     float32 = 1.0
	DefaultNear       float32 = 0.1
	DefaultFar        float32 = 100.0
	DefaultOrthoScale float32 = 1.0
)

type cameraImpl struct {
	mu *sync.Mutex

	pos   mgl32.Vec3
	look  mgl32.Vec3
	right mgl32.Vec3

	projection ProjectionType
	fov        float32
	aspect     float32
	near       float32
	far        float32
	orthoScale float32
}

// Camera holds a world-space pose (position plus look and right vectors) and a
// fixed projection. The look and right vectors are set from outside, usually by
// rotating the canonical axes; the camera never normalizes them. Matrices are
// derived from the current state on every call.
type Camera interface {
	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: camera position
	Position() mgl32.Vec3

	// SetPosition moves the camera to p.
	//
	// Parameters:
	//   - p: new world-space position
	SetPosition(p mgl32.Vec3)

	// Look returns the forward direction.
	//
	// Returns:
	//   - mgl32.Vec3: forward vector
	Look() mgl32.Vec3

	// Right returns the right-hand direction.
	//
	// Returns:
	//   - mgl32.Vec3: right vector
	Right() mgl32.Vec3

	// Up returns right × look, orthogonal to both.
	//
	// Returns:
	//   - mgl32.Vec3: up vector
	Up() mgl32.Vec3

	// UpdateOrientation sets look and right to rot applied to the canonical
	// forward (0,0,-1) and right (1,0,0) axes. Position is unchanged.
	//
	// Parameters:
	//   - rot: rotation matrix
	UpdateOrientation(rot mgl32.Mat3)

	// TranslateAlong moves the camera by direction * distance.
	//
	// Parameters:
	//   - direction: movement direction, not normalized
	//   - distance: scale applied to direction
	TranslateAlong(direction mgl32.Vec3, distance float32)

	// ViewMatrix returns LookAt(pos, pos+look, up).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix, column-major
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the configured projection.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix, column-major
	ProjectionMatrix() mgl32.Mat4

	// ProjViewMatrix returns projection * view, recomputed on every call.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix, column-major
	ProjViewMatrix() mgl32.Mat4

	// Projection returns the projection type.
	Projection() ProjectionType

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio used by both projection types.
	//
	// Parameters:
	//   - aspect: width / height, ignored if not positive
	SetAspect(aspect float32)

	// Reset restores the default pose, keeping the projection settings.
	Reset()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at DefaultPosition looking along DefaultLook with
// DefaultRight, using a perspective projection of DefaultFov, DefaultAspect,
// DefaultNear and DefaultFar unless options override them.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		pos:        DefaultPosition,
		look:       DefaultLook,
		right:      DefaultRight,
		projection: ProjectionPerspective,
		fov:        DefaultFov,
		aspect:     DefaultAspect,
		near:       DefaultNear,
		far:        DefaultFar,
		orthoScale: DefaultOrthoScale,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = p
}

func (c *cameraImpl) Look() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.look
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up()
}

func (c *cameraImpl) UpdateOrientation(rot mgl32.Mat3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.look = rot.Mul3x1(common.CanonicalForward)
	c.right = rot.Mul3x1(common.CanonicalRight)
}

func (c *cameraImpl) TranslateAlong(direction mgl32.Vec3, distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.pos.Add(direction.Mul(distance))
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proj()
}

func (c *cameraImpl) ProjViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proj().Mul4(c.view())
}

func (c *cameraImpl) Projection() ProjectionType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *cameraImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = DefaultPosition
	c.look = DefaultLook
	c.right = DefaultRight
}

// up computes right × look. Caller must hold the mutex.
func (c *cameraImpl) up() mgl32.Vec3 {
	return c.right.Cross(c.look)
}

// view builds the view matrix from the current pose. Caller must hold the mutex.
func (c *cameraImpl) view() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.look), c.up())
}

// proj builds the projection matrix. Caller must hold the mutex.
func (c *cameraImpl) proj() mgl32.Mat4 {
	if c.projection == ProjectionOrthographic {
		hw := c.orthoScale * c.aspect
		hh := c.orthoScale
		return mgl32.Ortho(-hw, hw, -hh, hh, c.near, c.far)
	}
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}
