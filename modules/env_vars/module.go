// Package env_vars provides the EnvFlag trigger, which fires while an
// environment variable holds a true value. It lets operators request extracts
// from a running pipeline without editing its grid.
package env_vars

import (
	"fmt"
	"os"
	"strconv"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/registry"
)

// TypeName is the registered trigger type.
const TypeName = "EnvFlag"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Input defines the arguments of an EnvFlag trigger.
type Input struct {
	Name string `cty:"name"`
}

// Trigger implements extract.Trigger.
type Trigger struct {
	name   string
	lookup func(key string) (string, bool)
}

// IsActivated reports whether the variable is set to a value strconv.ParseBool
// accepts as true.
func (t *Trigger) IsActivated(extract.Context) bool {
	raw, ok := t.lookup(t.name)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// Register registers the trigger type.
func (m *Module) Register(r *registry.Registry) {
	lookup := m.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r.RegisterNode(extract.TriggersGroup, TypeName, &registry.RegisteredNode{
		Label:    "Environment Flag",
		NewInput: func() any { return &Input{Name: "EXTRACTGRID_EXTRACT"} },
		New: func(input any) (any, error) {
			in, ok := input.(*Input)
			if !ok {
				return nil, fmt.Errorf("unexpected input type %T", input)
			}
			if in.Name == "" {
				return nil, fmt.Errorf("name must not be empty")
			}
			return &Trigger{name: in.Name, lookup: lookup}, nil
		},
	})
}
