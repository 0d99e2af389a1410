package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Info("hello from ctx")
	assert.Contains(t, buf.String(), "hello from ctx")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	FromContext(With(ctx, "rank", 2)).Info("step done")
	assert.Contains(t, buf.String(), "rank=2")

	buf.Reset()
	FromContext(ctx).Info("untouched")
	assert.NotContains(t, buf.String(), "rank=")
}
