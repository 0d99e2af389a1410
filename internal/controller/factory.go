package controller

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/session"
	"github.com/specialistvlad/extractgrid/internal/tracing"
)

// CreateExtractGenerator creates a generator that extracts from producer with
// a new writer of type writerType, and registers it in the producer's session.
// An empty registrationName is replaced by a unique name derived from the
// writer's label. It returns nil if the generator could not be created.
//
// When producer is an output port, the generator's Producer is the port's
// source node, so the generator is removed whenever that source is, whichever
// of its ports is extracted.
func (c *Controller) CreateExtractGenerator(ctx context.Context, producer *node.Node, writerType, registrationName string) *node.Node {
	logger := ctxlog.FromContext(ctx).With("writer_type", writerType)
	if producer == nil {
		logger.Error("Invalid producer: nil.")
		return nil
	}
	s, ok := session.Of(producer)
	if !ok {
		logger.Error("Producer does not belong to a session.", "producer", producer.ID())
		return nil
	}

	writerNode, err := s.NewNode(ctx, extract.WritersGroup, writerType, nil)
	if err != nil {
		logger.Warn("Could not create extract writer.", "error", err)
		return nil
	}
	writer, ok := node.As[extract.Writer](writerNode)
	if !ok {
		logger.Warn("Node type is not an extract writer.")
		return nil
	}

	name := registrationName
	if name == "" {
		name = s.UniqueName(ctx, extract.GeneratorsGroup, writerNode.Label)
	}

	generator, err := s.NewNode(ctx, extract.GeneratorsGroup, extract.GeneratorType, nil)
	if err != nil {
		logger.Error("Could not create extract generator.", "error", err)
		return nil
	}
	generator.AddToDomain(extract.AttrWriter, writerNode)

	if err := s.PreInitialize(ctx, generator); err != nil {
		logger.Error("Generator pre-initialization failed.", "error", err)
		return nil
	}
	writer.SetInput(producer)
	generator.SetRef(extract.AttrWriter, writerNode)

	owner := producer
	if producer.IsPort() {
		owner = producer.Source()
	}
	generator.SetRef(extract.AttrProducer, owner)

	if err := s.PostInitialize(ctx, generator); err != nil {
		logger.Error("Generator post-initialization failed.", "error", err)
		return nil
	}
	generator.Commit()

	if err := s.Register(ctx, extract.GeneratorsGroup, name, generator); err != nil {
		logger.Error("Could not register extract generator.", "name", name, "error", err)
		return nil
	}
	if err := s.AddConsumer(ctx, owner, generator); err != nil {
		// The generator works, it just will not follow its producer's removal.
		logger.Warn("Could not link generator to its producer.", "generator", generator.ID(), "error", err)
	}

	c.recorder.Record(ctx, "CreateExtractGenerator",
		tracing.A("producer", producer),
		tracing.A("generator", generator),
		tracing.A("xmlname", writerType),
		tracing.A("registrationName", name),
	)
	logger.Debug("Extract generator created.", "generator", generator.ID(), "producer", owner.ID())
	return generator
}
