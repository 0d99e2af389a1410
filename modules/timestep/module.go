// Package timestep provides the TimeStep trigger: it fires every Frequency
// steps, starting at step Start.
package timestep

import (
	"fmt"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/registry"
)

// TypeName is the registered trigger type.
const TypeName = "TimeStep"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a TimeStep trigger.
type Input struct {
	Frequency int `cty:"frequency"`
	Start     int `cty:"start"`
}

// Trigger implements extract.Trigger.
type Trigger struct {
	frequency int
	start     int
}

// New creates a trigger from its input.
func New(input *Input) (*Trigger, error) {
	if input.Frequency < 1 {
		return nil, fmt.Errorf("frequency must be at least 1, got %d", input.Frequency)
	}
	if input.Start < 0 {
		return nil, fmt.Errorf("start must not be negative, got %d", input.Start)
	}
	return &Trigger{frequency: input.Frequency, start: input.Start}, nil
}

// IsActivated reports whether the current time step is on the trigger's grid.
func (t *Trigger) IsActivated(ec extract.Context) bool {
	step := ec.TimeStep()
	return step >= t.start && (step-t.start)%t.frequency == 0
}

// Register registers the trigger type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode(extract.TriggersGroup, TypeName, &registry.RegisteredNode{
		Label:    "Time Step",
		NewInput: func() any { return &Input{Frequency: 1} },
		New: func(input any) (any, error) {
			in, ok := input.(*Input)
			if !ok {
				return nil, fmt.Errorf("unexpected input type %T", input)
			}
			return New(in)
		},
	})
}
