package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{samples: DefaultSamples}
	for _, opt := range []WindowBuilderOption{
		WithTitle("cube"),
		WithSize(640, 480),
		WithMinSize(100, 120),
		WithVSync(false),
		WithSamples(8),
	} {
		opt(w)
	}
	assert.Equal(t, "cube", w.title)
	assert.Equal(t, 640, w.width)
	assert.Equal(t, 480, w.height)
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 120, w.minHeight)
	assert.False(t, w.vsync)
	assert.Equal(t, 8, w.samples)
}

func TestNewWindowRejectsInvalidOptions(t *testing.T) {
	_, err := NewWindow(WithSize(0, 600))
	assert.ErrorContains(t, err, "invalid window size")

	_, err = NewWindow(WithSamples(-1))
	assert.ErrorContains(t, err, "invalid sample count")
}

func TestSetTitleBeforeOpen(t *testing.T) {
	w := &engineWindow{}
	assert.NotPanics(t, func() { w.SetTitle("meshview | keys -") })
	assert.Equal(t, "meshview | keys -", w.title)
}
