package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is the service name spans are attributed to.
const ServiceName = "extractgrid"

// LogSpanExporter implements sdktrace.SpanExporter by writing every finished
// span as an info record. Export errors never reach the trace pipeline.
type LogSpanExporter struct {
	logger *slog.Logger
}

// NewLogSpanExporter creates an exporter writing to logger.
func NewLogSpanExporter(logger *slog.Logger) *LogSpanExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSpanExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := make([]any, 0, len(span.Attributes())+2)
		attrs = append(attrs,
			slog.String("span", span.Name()),
			slog.String("trace_id", span.SpanContext().TraceID().String()),
		)
		for _, kv := range span.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.Info("Span finished.", attrs...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogSpanExporter) Shutdown(context.Context) error {
	return nil
}

// NewTracerProvider returns a provider exporting synchronously to logger.
// Callers own the provider and must shut it down.
func NewTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(attribute.String("service.name", ServiceName))
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(NewLogSpanExporter(logger))),
		sdktrace.WithResource(res),
	)
}
