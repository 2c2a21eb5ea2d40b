package pipeline

// PipelineBuilderOption is a functional option used to configure a ShaderPipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithLabel sets the name used in diagnostics and link errors.
//
// Parameters:
//   - label: the pipeline label
//
// Returns:
//   - PipelineBuilderOption: a function that sets the label for this pipeline
func WithLabel(label string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.label = label
	}
}

// WithDepthTestEnabled sets whether Paint enables the LESS depth test.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}
