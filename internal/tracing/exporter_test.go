package tracing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProvider_LogsFinishedSpans(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	tp := NewTracerProvider(logger)
	rec := NewOtelRecorder(tp.Tracer(ServiceName))
	rec.Record(context.Background(), "CreateExtractGenerator", A("registrationName", "csv"))
	require.NoError(t, tp.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `msg="Span finished."`)
	assert.Contains(t, out, "span=CreateExtractGenerator")
	assert.Contains(t, out, "registrationName=csv")
}

func TestLogSpanExporter_NilLogger(t *testing.T) {
	e := NewLogSpanExporter(nil)
	assert.NotNil(t, e.logger)
	assert.NoError(t, e.ExportSpans(context.Background(), nil))
	assert.NoError(t, e.Shutdown(context.Background()))
}
