package hcl

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/config"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
)

func translateExtracts(b *ExtractsBlock) *config.Extracts {
	return &config.Extracts{DataDir: b.DataDir, ImageDir: b.ImageDir}
}

func translateRun(b *RunBlock) *config.Run {
	return &config.Run{Steps: b.Steps, StartTime: b.StartTime, TimeStep: b.TimeStep}
}

func translateCoordination(b *CoordinationBlock) *config.Coordination {
	return &config.Coordination{
		Backend:   b.Backend,
		Rank:      b.Rank,
		Size:      b.Size,
		URL:       b.URL,
		Namespace: b.Namespace,
	}
}

func translateTracing(b *TracingBlock) *config.Tracing {
	return &config.Tracing{Backend: b.Backend}
}

func translateSource(b *SourceBlock) *config.Source {
	return &config.Source{Name: b.Name, DataType: b.DataType, Ports: b.Ports}
}

// translateTrigger converts the HCL-specific trigger schema into the agnostic model.
func (l *Loader) translateTrigger(ctx context.Context, b *TriggerBlock) *config.Trigger {
	t := &config.Trigger{
		Type:      b.Type,
		Name:      b.Name,
		Arguments: extractBodyAttributes(b.Arguments),
	}
	ctxlog.FromContext(ctx).Debug("Translated trigger block.", "type", t.Type, "name", t.Name, "arguments", len(t.Arguments))
	return t
}

// translateGenerator converts the HCL-specific generator schema into the agnostic model.
func (l *Loader) translateGenerator(ctx context.Context, b *GeneratorBlock) *config.Generator {
	g := &config.Generator{
		WriterType: b.WriterType,
		Name:       b.Name,
		Producer:   b.Producer,
		Trigger:    b.Trigger,
		Enabled:    b.Enabled,
		Arguments:  extractBodyAttributes(b.Arguments),
	}
	ctxlog.FromContext(ctx).Debug("Translated generator block.", "writer_type", g.WriterType, "name", g.Name, "producer", g.Producer)
	return g
}
