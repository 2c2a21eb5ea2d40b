package input

// StateBuilderOption is a functional option used to configure a State during construction.
type StateBuilderOption func(*stateImpl)

// WithDragButton sets the mouse button that rotates the view while held.
//
// Parameters:
//   - button: the mouse button code (see common.MouseButton*)
//
// Returns:
//   - StateBuilderOption: a function that sets the drag button
func WithDragButton(button uint32) StateBuilderOption {
	return func(s *stateImpl) {
		s.dragButton = button
	}
}
