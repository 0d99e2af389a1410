// Package print provides the Print writer, which reports every extraction as
// a line of text instead of serializing data.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/registry"
)

// TypeName is the registered writer type.
const TypeName = "Print"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the report lines. Defaults to os.Stdout.
	Out io.Writer
}

// Input defines the arguments of a Print writer.
type Input struct {
	Prefix string `cty:"prefix"`
	// DataTypes restricts the sources the writer accepts. Empty accepts all.
	DataTypes []string `cty:"data_types"`
}

// Writer implements extract.Writer.
type Writer struct {
	extract.InputHolder

	out io.Writer

	mu    sync.Mutex
	input Input
}

// NewWriter creates a writer reporting to out.
func NewWriter(out io.Writer, input *Input) *Writer {
	w := &Writer{out: out}
	if input != nil {
		w.input = *input
	}
	return w
}

// Configure implements extract.Configurable.
func (w *Writer) Configure(input any) error {
	in, ok := input.(*Input)
	if !ok {
		return fmt.Errorf("unexpected input type %T", input)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.input = *in
	return nil
}

// CanExtract accepts any node whose data type is allowed.
func (w *Writer) CanExtract(candidate *node.Node) bool {
	if candidate == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.input.DataTypes) == 0 {
		return true
	}
	return slices.Contains(w.input.DataTypes, candidate.String(extract.AttrDataType))
}

// Write provisions the data extracts directory and reports the extraction.
func (w *Writer) Write(ctx context.Context, ec extract.Context) bool {
	logger := ctxlog.FromContext(ctx).With("writer", TypeName)

	producer := w.Input()
	if producer == nil {
		logger.Warn("Writer has no input.")
		return false
	}
	if !ec.CreateDataExtractsOutputDirectory(ctx) {
		logger.Warn("Data extracts directory is unavailable.", "dir", ec.DataExtractsOutputDirectory())
		return false
	}

	w.mu.Lock()
	prefix := w.input.Prefix
	w.mu.Unlock()
	if prefix == "" {
		prefix = "extract"
	}

	_, err := fmt.Fprintf(w.out, "%s step=%d time=%g producer=%s dir=%s\n",
		prefix, ec.TimeStep(), ec.Time(), producer.ID(), ec.DataExtractsOutputDirectory())
	if err != nil {
		logger.Error("Failed to write report.", "error", err)
		return false
	}
	logger.Debug("Extract written.", "producer", producer.ID(), "step", ec.TimeStep())
	return true
}

// Register registers the writer type.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.RegisterNode(extract.WritersGroup, TypeName, &registry.RegisteredNode{
		Label:    "Print",
		NewInput: func() any { return new(Input) },
		New: func(input any) (any, error) {
			in, ok := input.(*Input)
			if !ok {
				return nil, fmt.Errorf("unexpected input type %T", input)
			}
			return NewWriter(out, in), nil
		},
	})
}
