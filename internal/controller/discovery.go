package controller

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/session"
)

// FindExtractGenerators returns the generators of the producer's session that
// extract from producer, in registration order.
func (c *Controller) FindExtractGenerators(ctx context.Context, producer *node.Node) []*node.Node {
	s, ok := session.Of(producer)
	if !ok {
		return nil
	}

	var result []*node.Node
	for _, g := range s.Group(ctx, extract.GeneratorsGroup) {
		if IsExtractGenerator(g, producer) {
			result = append(result, g)
		}
	}
	return result
}

// GetSupportedExtractGeneratorPrototypes returns the writer prototypes that
// can extract from producer, in writer type registration order.
func (c *Controller) GetSupportedExtractGeneratorPrototypes(ctx context.Context, producer *node.Node) []*node.Node {
	s, ok := session.Of(producer)
	if !ok {
		return nil
	}

	var result []*node.Node
	for _, proto := range s.Prototypes(ctx, extract.WritersGroup) {
		if w, ok := node.As[extract.Writer](proto); ok && w.CanExtract(producer) {
			result = append(result, proto)
		}
	}
	return result
}

// CanExtract reports whether candidate, a generator or a writer prototype,
// can extract from inputs. Only single-input extracts exist, so any other
// number of inputs yields false.
func (c *Controller) CanExtract(candidate *node.Node, inputs []*node.Node) bool {
	if candidate == nil || len(inputs) != 1 {
		return false
	}

	w, ok := node.As[extract.Writer](candidate)
	if !ok {
		w, ok = writerOf(candidate)
	}
	return ok && w.CanExtract(inputs[0])
}

// IsExtractGenerator reports whether generator g extracts from producer.
func IsExtractGenerator(g, producer *node.Node) bool {
	if g == nil || producer == nil {
		return false
	}
	w, ok := writerOf(g)
	return ok && w.IsExtracting(producer)
}

// GetInputForGenerator returns the producer generator g's writer is bound to.
func (c *Controller) GetInputForGenerator(g *node.Node) *node.Node {
	if g == nil {
		return nil
	}
	if w, ok := writerOf(g); ok {
		return w.Input()
	}
	return nil
}
