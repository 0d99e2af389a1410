package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of a grid file.
type Model struct {
	Extracts     *Extracts
	Run          *Run
	Coordination *Coordination
	Tracing      *Tracing

	Sources    []*Source
	Triggers   []*Trigger
	Generators []*Generator
}

// Extracts configures where extracts are written.
type Extracts struct {
	DataDir  string
	ImageDir string
}

// Run configures the driving loop.
type Run struct {
	Steps     int
	StartTime float64
	// TimeStep is the simulation time advanced per step.
	TimeStep float64
}

// Coordination selects the process group directory creation is coordinated
// through.
type Coordination struct {
	// Backend is one of "none", "local", "redis" or "socketio".
	Backend   string
	Rank      int
	Size      int
	URL       string
	Namespace string
}

// Tracing selects the trace collaborator.
type Tracing struct {
	// Backend is one of "none", "log" or "otel".
	Backend string
}

// Source is a pipeline node extracts can be taken from.
type Source struct {
	Name     string
	DataType string
	// Ports is the number of output ports the source exposes.
	Ports int
}

// Trigger is the format-agnostic representation of a `trigger` block.
type Trigger struct {
	Type      string
	Name      string
	Arguments map[string]hcl.Expression
}

// Generator is the format-agnostic representation of a `generator` block.
type Generator struct {
	WriterType string
	Name       string
	// Producer references a source, or one of its ports as `name[i]`.
	Producer string
	// Trigger names a trigger; empty means the generator fires every step.
	Trigger string
	// Enabled is nil when the block leaves the default in place.
	Enabled   *bool
	Arguments map[string]hcl.Expression
}
