package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/extractgrid/internal/config"
	"github.com/specialistvlad/extractgrid/internal/controller"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/specialistvlad/extractgrid/internal/session"
	"github.com/specialistvlad/extractgrid/internal/tracing"
	"github.com/specialistvlad/extractgrid/modules/source"
	"github.com/zclconf/go-cty/cty"
)

// pipeline is the session and extracts controller of one rank.
type pipeline struct {
	registry   *registry.Registry
	converter  config.Converter
	session    session.Session
	controller *controller.Controller
}

// newPipeline builds the session described by the model: sources first, then
// triggers, then generators, since each may reference the ones before it.
func (a *App) newPipeline(ctx context.Context, group procgroup.Group, recorder tracing.Recorder) (*pipeline, error) {
	s, err := a.sessions.NewSession(ctx, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	holder := &session.Holder{}
	holder.Set(s)

	p := &pipeline{
		registry:  a.registry,
		converter: a.converter,
		session:   s,
		controller: controller.New(controller.Options{
			Group:    group,
			Recorder: recorder,
			Sessions: holder,
		}),
	}
	p.applyExtracts(a.model.Extracts, a.config.ExtractsDir)

	for _, src := range a.model.Sources {
		if err := p.addSource(ctx, src); err != nil {
			return nil, err
		}
	}
	for _, t := range a.model.Triggers {
		if err := p.addTrigger(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, g := range a.model.Generators {
		if err := p.addGenerator(ctx, g); err != nil {
			return nil, err
		}
	}

	ctxlog.FromContext(ctx).Debug("Pipeline built.",
		"session", s.ID(),
		"generators", len(s.Group(ctx, extract.GeneratorsGroup)))
	return p, nil
}

// applyExtracts sets the output directories. The image directory defaults to
// the data directory, and override replaces both.
func (p *pipeline) applyExtracts(ex *config.Extracts, override string) {
	var dataDir, imageDir string
	if ex != nil {
		dataDir, imageDir = ex.DataDir, ex.ImageDir
	}
	if override != "" {
		dataDir, imageDir = override, override
	}
	if imageDir == "" {
		imageDir = dataDir
	}
	p.controller.SetDataExtractsOutputDirectory(dataDir)
	p.controller.SetImageExtractsOutputDirectory(imageDir)
}

func (p *pipeline) addSource(ctx context.Context, src *config.Source) error {
	input := &source.Input{DataType: src.DataType, Ports: src.Ports}
	n, err := p.session.NewNode(ctx, extract.SourcesGroup, source.TypeName, input)
	if err != nil {
		return fmt.Errorf("source %q: %w", src.Name, err)
	}
	if err := p.session.Register(ctx, extract.SourcesGroup, src.Name, n); err != nil {
		return fmt.Errorf("source %q: %w", src.Name, err)
	}
	if err := p.session.PostInitialize(ctx, n); err != nil {
		return fmt.Errorf("source %q: %w", src.Name, err)
	}
	return nil
}

func (p *pipeline) addTrigger(ctx context.Context, t *config.Trigger) error {
	input, err := p.decodeInput(ctx, extract.TriggersGroup, t.Type, t.Arguments)
	if err != nil {
		return fmt.Errorf("trigger %q: %w", t.Name, err)
	}
	n, err := p.session.NewNode(ctx, extract.TriggersGroup, t.Type, input)
	if err != nil {
		return fmt.Errorf("trigger %q: %w", t.Name, err)
	}
	if _, ok := node.As[extract.Trigger](n); !ok {
		return fmt.Errorf("trigger %q: type %q does not implement a trigger", t.Name, t.Type)
	}
	if err := p.session.Register(ctx, extract.TriggersGroup, t.Name, n); err != nil {
		return fmt.Errorf("trigger %q: %w", t.Name, err)
	}
	return nil
}

func (p *pipeline) addGenerator(ctx context.Context, g *config.Generator) error {
	producer, err := p.resolveProducer(ctx, g.Producer)
	if err != nil {
		return fmt.Errorf("generator %q: %w", g.Name, err)
	}
	if !p.supports(ctx, producer, g.WriterType) {
		return fmt.Errorf("generator %q: writer %q cannot extract %q", g.Name, g.WriterType, producer.ID())
	}

	// Look the trigger up before creating anything, so a bad reference leaves
	// no half-configured generator behind.
	var trigger *node.Node
	if g.Trigger != "" {
		var ok bool
		if trigger, ok = p.session.Lookup(ctx, extract.TriggersGroup, g.Trigger); !ok {
			return fmt.Errorf("generator %q: unknown trigger %q", g.Name, g.Trigger)
		}
	}

	gen := p.controller.CreateExtractGenerator(ctx, producer, g.WriterType, g.Name)
	if gen == nil {
		return fmt.Errorf("generator %q: creation failed, see the log for details", g.Name)
	}
	if trigger != nil {
		gen.SetRef(extract.AttrTrigger, trigger)
	}
	if g.Enabled != nil {
		gen.SetAttr(extract.AttrEnabled, cty.BoolVal(*g.Enabled))
	}
	if len(g.Arguments) > 0 {
		if err := p.configureWriter(ctx, gen, producer, g); err != nil {
			_ = p.session.Unregister(ctx, gen)
			return fmt.Errorf("generator %q: %w", g.Name, err)
		}
	}
	gen.Commit()
	return nil
}

// resolveProducer finds the source, or source port, a generator references.
func (p *pipeline) resolveProducer(ctx context.Context, ref string) (*node.Node, error) {
	addr, err := nodeid.ParseRef(extract.SourcesGroup, ref)
	if err != nil {
		return nil, fmt.Errorf("invalid producer: %w", err)
	}
	n, ok := p.session.Lookup(ctx, extract.SourcesGroup, addr.Name)
	if !ok {
		return nil, fmt.Errorf("unknown producer %q", addr.Name)
	}
	if !addr.HasPort() {
		return n, nil
	}
	src, ok := node.As[*source.Source](n)
	if !ok {
		return nil, fmt.Errorf("producer %q has no ports", addr.Name)
	}
	return src.Port(n, addr.Port)
}

// supports reports whether writerType is among the writer types able to
// extract producer.
func (p *pipeline) supports(ctx context.Context, producer *node.Node, writerType string) bool {
	for _, proto := range p.controller.GetSupportedExtractGeneratorPrototypes(ctx, producer) {
		if proto.TypeName == writerType {
			return true
		}
	}
	return false
}

// configureWriter decodes the generator's arguments into its writer's input.
func (p *pipeline) configureWriter(ctx context.Context, gen, producer *node.Node, g *config.Generator) error {
	writer := gen.Ref(extract.AttrWriter)
	configurable, ok := node.As[extract.Configurable](writer)
	if !ok {
		return fmt.Errorf("writer %q takes no arguments", g.WriterType)
	}
	input, err := p.decodeInput(ctx, extract.WritersGroup, g.WriterType, g.Arguments)
	if err != nil {
		return err
	}
	if err := configurable.Configure(input); err != nil {
		return fmt.Errorf("failed to configure writer %q: %w", g.WriterType, err)
	}
	if w, ok := node.As[extract.Writer](writer); ok && !w.CanExtract(producer) {
		return fmt.Errorf("writer %q is configured not to extract %q", g.WriterType, producer.ID())
	}
	return nil
}

// decodeInput returns the input of a node type with args decoded into it, or
// nil when the type takes no input and no arguments were given.
func (p *pipeline) decodeInput(ctx context.Context, group, typeName string, args map[string]hcl.Expression) (any, error) {
	def, ok := p.registry.Lookup(group, typeName)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	if def.NewInput == nil {
		if len(args) > 0 {
			return nil, fmt.Errorf("type %q takes no arguments", typeName)
		}
		return nil, nil
	}
	input := def.NewInput()
	if len(args) > 0 {
		if err := p.converter.DecodeArguments(ctx, input, args, nil); err != nil {
			return nil, fmt.Errorf("failed to decode arguments of %q: %w", typeName, err)
		}
	}
	return input, nil
}

// run drives the pipeline for the configured steps. onStep is called after
// every step.
func (p *pipeline) run(ctx context.Context, plan runPlan, onStep func(step int)) error {
	logger := ctxlog.FromContext(ctx)
	for step := 0; step < plan.steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.controller.SetTimeStep(step)
		p.controller.SetTime(plan.startTime + float64(step)*plan.timeStep)

		if p.controller.IsAnyTriggerActivated(ctx) {
			wrote := p.controller.Extract(ctx)
			logger.Debug("Extraction pass finished.", "step", step, "wrote", wrote)
		} else {
			logger.Debug("No trigger activated.", "step", step)
		}
		onStep(step)
	}
	return nil
}

func (p *pipeline) close(ctx context.Context) error {
	return p.session.Close(ctx)
}

// runPlan is the resolved driving-loop configuration.
type runPlan struct {
	steps     int
	startTime float64
	timeStep  float64
}

func (a *App) runPlan() runPlan {
	plan := runPlan{steps: 1, timeStep: 1}
	if r := a.model.Run; r != nil {
		if r.Steps > 0 {
			plan.steps = r.Steps
		}
		plan.startTime = r.StartTime
		if r.TimeStep != 0 {
			plan.timeStep = r.TimeStep
		}
	}
	if a.config.Steps > 0 {
		plan.steps = a.config.Steps
	}
	return plan
}
