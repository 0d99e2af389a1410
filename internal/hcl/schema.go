package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Extracts     []*ExtractsBlock     `hcl:"extracts,block"`
	Run          []*RunBlock          `hcl:"run,block"`
	Coordination []*CoordinationBlock `hcl:"coordination,block"`
	Tracing      []*TracingBlock      `hcl:"tracing,block"`
	Sources      []*SourceBlock       `hcl:"source,block"`
	Triggers     []*TriggerBlock      `hcl:"trigger,block"`
	Generators   []*GeneratorBlock    `hcl:"generator,block"`
	Remain       hcl.Body             `hcl:",remain"`
}

// ArgumentsBlock represents the content of an 'arguments' block.
type ArgumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// ExtractsBlock represents the `extracts` block.
type ExtractsBlock struct {
	DataDir  string `hcl:"data_dir,optional"`
	ImageDir string `hcl:"image_dir,optional"`
}

// RunBlock represents the `run` block.
type RunBlock struct {
	Steps     int     `hcl:"steps,optional"`
	StartTime float64 `hcl:"start_time,optional"`
	TimeStep  float64 `hcl:"time_step,optional"`
}

// CoordinationBlock represents the `coordination` block.
type CoordinationBlock struct {
	Backend   string `hcl:"backend"`
	Rank      int    `hcl:"rank,optional"`
	Size      int    `hcl:"size,optional"`
	URL       string `hcl:"url,optional"`
	Namespace string `hcl:"namespace,optional"`
}

// TracingBlock represents the `tracing` block.
type TracingBlock struct {
	Backend string `hcl:"backend"`
}

// SourceBlock represents a `source` block.
type SourceBlock struct {
	Name     string `hcl:"name,label"`
	DataType string `hcl:"data_type,optional"`
	Ports    int    `hcl:"ports,optional"`
}

// TriggerBlock represents a `trigger` block: a named instance of a trigger type.
type TriggerBlock struct {
	Type      string          `hcl:"trigger_type,label"`
	Name      string          `hcl:"instance_name,label"`
	Arguments *ArgumentsBlock `hcl:"arguments,block"`
}

// GeneratorBlock represents a `generator` block: an extract of a producer
// through a writer type.
type GeneratorBlock struct {
	WriterType string          `hcl:"writer_type,label"`
	Name       string          `hcl:"instance_name,label"`
	Producer   string          `hcl:"producer"`
	Trigger    string          `hcl:"trigger,optional"`
	Enabled    *bool           `hcl:"enabled,optional"`
	Arguments  *ArgumentsBlock `hcl:"arguments,block"`
}
