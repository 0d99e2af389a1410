package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop{}.Record(context.Background(), "Anything", A("k", 1))
	})
}

func TestSlogRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	src := node.New("Source", "Source", nil)
	src.SetAddress(nodeid.New("sources", "wavelet"))

	NewSlogRecorder().Record(ctx, "CreateExtractGenerator", A("producer", src), A("xmlname", "PNG"))

	out := buf.String()
	assert.Contains(t, out, "event=CreateExtractGenerator")
	assert.Contains(t, out, "producer=sources.wavelet")
	assert.Contains(t, out, "xmlname=PNG")
}

func TestOtelRecorder(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	unregistered := node.New("Extractor", "Extractor", nil)
	rec := NewOtelRecorder(tp.Tracer("test"))
	rec.Record(context.Background(), "CreateExtractGenerator",
		A("generator", unregistered),
		A("registrationName", "PNG1"),
		A("step", 3),
	)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "CreateExtractGenerator", spans[0].Name())
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("generator", "Extractor"),
		attribute.String("registrationName", "PNG1"),
		attribute.String("step", "3"),
	}, spans[0].Attributes())
}
