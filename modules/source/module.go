// Package source provides the Source node type: a named pipeline output that
// generators can extract from, either whole or through one of its ports.
package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the registered source type.
const TypeName = "Source"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a source.
type Input struct {
	DataType string `cty:"data_type"`
	Ports    int    `cty:"ports"`
}

// Source is the capability of a source node.
type Source struct {
	dataType string
	ports    int

	mu        sync.Mutex
	owner     *node.Node
	portNodes []*node.Node
}

// New creates a source from its input.
func New(input *Input) (*Source, error) {
	if input.Ports < 0 {
		return nil, fmt.Errorf("ports must not be negative, got %d", input.Ports)
	}
	return &Source{dataType: input.DataType, ports: input.Ports}, nil
}

// Ports returns the number of output ports.
func (s *Source) Ports() int { return s.ports }

// Port returns output port i of n, which must be a source node. Every lookup
// of the same port returns the same node.
func (s *Source) Port(n *node.Node, i int) (*node.Node, error) {
	if i < 0 || i >= s.ports {
		return nil, fmt.Errorf("source %q has no port %d (ports: %d)", n.Name(), i, s.ports)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != n {
		s.owner = n
		s.portNodes = make([]*node.Node, s.ports)
	}
	if s.portNodes[i] == nil {
		s.portNodes[i] = node.NewPort(n, i)
	}
	return s.portNodes[i], nil
}

// PostInitialize publishes the data type as a node attribute.
func (s *Source) PostInitialize(_ context.Context, n *node.Node) error {
	if s.dataType != "" {
		n.SetAttr(extract.AttrDataType, cty.StringVal(s.dataType))
	}
	return nil
}

// Register registers the source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode(extract.SourcesGroup, TypeName, &registry.RegisteredNode{
		Label:    "Source",
		NewInput: func() any { return new(Input) },
		New: func(input any) (any, error) {
			in, ok := input.(*Input)
			if !ok {
				return nil, fmt.Errorf("unexpected input type %T", input)
			}
			return New(in)
		},
	})
}
