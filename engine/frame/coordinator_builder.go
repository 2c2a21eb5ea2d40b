package frame

// CoordinatorBuilderOption is a functional option used to configure a Coordinator during construction.
type CoordinatorBuilderOption func(*coordinator)

// WithStep sets the distance moved per frame for each held movement key.
//
// Parameters:
//   - step: world units per frame (default 0.1)
//
// Returns:
//   - CoordinatorBuilderOption: a function that sets the movement step
func WithStep(step float32) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.step = step
	}
}

// WithSensitivity sets the degrees of rotation per pixel of drag.
//
// Parameters:
//   - sensitivity: degrees per pixel (default 0.1)
//
// Returns:
//   - CoordinatorBuilderOption: a function that sets the drag sensitivity
func WithSensitivity(sensitivity float32) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.sensitivity = sensitivity
	}
}

// WithOffset sets the initial value uploaded to u_Offset.
//
// Parameters:
//   - offset: the offset value
//
// Returns:
//   - CoordinatorBuilderOption: a function that sets the offset
func WithOffset(offset float32) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.offset = offset
	}
}

// WithOrientation sets the starting rotation.
//
// Parameters:
//   - o: pitch, yaw and roll in degrees
//
// Returns:
//   - CoordinatorBuilderOption: a function that sets the orientation
func WithOrientation(o Orientation) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.orientation = o
	}
}
