// Package extract defines the capability contracts of the extraction core:
// the writer bound to every generator, the trigger that gates it, and the
// context both receive from the dispatcher.
package extract

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/node"
)

// Group and schema names shared by every session.
const (
	GeneratorsGroup = "extract_generators"
	WritersGroup    = "extract_writers"
	TriggersGroup   = "extract_triggers"
	SourcesGroup    = "sources"

	// GeneratorType is the schema type of every generator node.
	GeneratorType = "Extractor"
)

// Generator attribute names.
const (
	AttrEnabled  = "Enabled"
	AttrTrigger  = "Trigger"
	AttrWriter   = "Writer"
	AttrProducer = "Producer"
)

// AttrDataType names the kind of data a source produces. Writers use it to
// decide what they can extract.
const AttrDataType = "DataType"

// Context is what triggers and writers see of the dispatcher: the current
// time and time step, the configured output directories, and collective
// directory creation.
type Context interface {
	Time() float64
	TimeStep() int
	DataExtractsOutputDirectory() string
	ImageExtractsOutputDirectory() string
	CreateDataExtractsOutputDirectory(ctx context.Context) bool
	CreateImageExtractsOutputDirectory(ctx context.Context) bool
}

// Writer serializes a producer's current state. Exactly one writer is bound
// to each generator.
type Writer interface {
	// CanExtract reports whether this writer type supports candidate.
	CanExtract(candidate *node.Node) bool
	// IsExtracting reports whether this writer is bound to candidate.
	IsExtracting(candidate *node.Node) bool
	// Write extracts the bound input and reports whether anything was written.
	Write(ctx context.Context, ec Context) bool
	// Input returns the producer the writer is bound to.
	Input() *node.Node
	// SetInput binds the writer to a producer.
	SetInput(producer *node.Node)
}

// Trigger decides, per invocation, whether a generator should fire.
type Trigger interface {
	IsActivated(ec Context) bool
}

// InputHolder is a ready-made implementation of the Input/SetInput/IsExtracting
// part of Writer. Writers embed it.
type InputHolder struct {
	input *node.Node
}

// Input returns the bound producer.
func (h *InputHolder) Input() *node.Node { return h.input }

// SetInput binds the producer.
func (h *InputHolder) SetInput(producer *node.Node) { h.input = producer }

// IsExtracting reports whether candidate is the bound producer. A port matches
// any lookup of the same port.
func (h *InputHolder) IsExtracting(candidate *node.Node) bool {
	return node.SameOutput(h.input, candidate)
}

// Configurable is implemented by writers that take options. Writers are
// created with default options; Configure applies the decoded input of the
// writer's type afterwards.
type Configurable interface {
	Configure(input any) error
}
