package extract

import (
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Generator is the capability of an Extractor node. It has no behavior of its
// own; everything a generator does is delegated to its bound writer and trigger.
type Generator struct{}

// GeneratorInput holds the configuration a generator node is created from.
type GeneratorInput struct{}

// Module registers the generator schema.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) {
	r.RegisterNode(GeneratorsGroup, GeneratorType, &registry.RegisteredNode{
		Label:    "Extractor",
		NewInput: func() any { return new(GeneratorInput) },
		New:      func(any) (any, error) { return &Generator{}, nil },
		Defaults: map[string]cty.Value{
			AttrEnabled: cty.True,
		},
	})
}
