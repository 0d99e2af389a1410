// Package tracing records authoring events (such as the creation of an
// extract generator) so that a session can be reproduced or replayed as a
// script. Recorders are a side channel: they never influence control flow or
// return values of the code that calls them.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/node"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Arg is one named argument of a recorded event. Order is preserved.
type Arg struct {
	Key   string
	Value any
}

// A builds an Arg.
func A(key string, value any) Arg {
	return Arg{Key: key, Value: value}
}

// Recorder receives events. Implementations must not block.
type Recorder interface {
	Record(ctx context.Context, event string, args ...Arg)
}

// Nop discards every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, string, ...Arg) {}

// SlogRecorder writes each event as a debug record on the context logger.
type SlogRecorder struct {
	Level slog.Level
}

// NewSlogRecorder returns a recorder logging at debug level.
func NewSlogRecorder() *SlogRecorder {
	return &SlogRecorder{Level: slog.LevelDebug}
}

// Record implements Recorder.
func (r *SlogRecorder) Record(ctx context.Context, event string, args ...Arg) {
	attrs := make([]any, 0, len(args)+1)
	attrs = append(attrs, slog.String("event", event))
	for _, a := range args {
		attrs = append(attrs, slog.String(a.Key, format(a.Value)))
	}
	ctxlog.FromContext(ctx).Log(ctx, r.Level, "Trace event recorded.", attrs...)
}

// OtelRecorder emits one span per event, carrying the arguments as attributes.
type OtelRecorder struct {
	tracer trace.Tracer
}

// NewOtelRecorder creates a recorder on top of an OpenTelemetry tracer.
func NewOtelRecorder(tracer trace.Tracer) *OtelRecorder {
	return &OtelRecorder{tracer: tracer}
}

// Record implements Recorder.
func (r *OtelRecorder) Record(ctx context.Context, event string, args ...Arg) {
	attrs := make([]attribute.KeyValue, 0, len(args))
	for _, a := range args {
		attrs = append(attrs, attribute.String(a.Key, format(a.Value)))
	}
	_, span := r.tracer.Start(ctx, event, trace.WithAttributes(attrs...))
	span.End()
}

// format renders argument values; nodes are rendered by address.
func format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *node.Node:
		if val == nil {
			return ""
		}
		if id := val.ID(); id != "" {
			return id
		}
		return val.TypeName
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
