package frame

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/seabiscuit-iv/meshview/common"
)

// Status is a snapshot of the viewer pose and the keys held down.
type Status struct {
	Position    mgl32.Vec3
	Orientation Orientation
	Held        []uint32
}

// String formats the status for a one-line readout, e.g.
// "pos (0.00, 0.00, 2.00) | keys W D". No held keys reads "keys -".
func (s Status) String() string {
	keys := "-"
	if len(s.Held) > 0 {
		names := make([]string, len(s.Held))
		for i, k := range s.Held {
			names[i] = common.KeyName(k)
		}
		keys = strings.Join(names, " ")
	}
	return fmt.Sprintf("pos (%.2f, %.2f, %.2f) | keys %s", s.Position.X(), s.Position.Y(), s.Position.Z(), keys)
}
