package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/specialistvlad/extractgrid/internal/session"
	"github.com/stretchr/testify/require"
)

// Node types registered by NewExtractRegistry.
const (
	SpyWriterType     = "SpyWriter"
	PickyWriterType   = "PickyWriter"
	StaticTriggerType = "StaticTrigger"
	SourceType        = "Source"
)

// SpyWriter is an extract.Writer that counts its writes.
type SpyWriter struct {
	extract.InputHolder

	// Accept decides CanExtract. Nil accepts every non-nil candidate.
	Accept func(candidate *node.Node) bool
	// Result is what Write reports.
	Result bool

	mu     sync.Mutex
	writes int
	last   extract.Context
}

// CanExtract implements extract.Writer.
func (w *SpyWriter) CanExtract(candidate *node.Node) bool {
	if w.Accept != nil {
		return w.Accept(candidate)
	}
	return candidate != nil
}

// Write implements extract.Writer.
func (w *SpyWriter) Write(_ context.Context, ec extract.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	w.last = ec
	return w.Result
}

// Writes returns how many times Write was called.
func (w *SpyWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// LastContext returns the context of the last Write call.
func (w *SpyWriter) LastContext() extract.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// StaticTrigger is an extract.Trigger with a fixed answer that counts how
// often it was consulted.
type StaticTrigger struct {
	Activated bool

	mu    sync.Mutex
	calls int
}

// IsActivated implements extract.Trigger.
func (t *StaticTrigger) IsActivated(extract.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return t.Activated
}

// Calls returns how many times IsActivated was called.
func (t *StaticTrigger) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// NewExtractRegistry returns a registry holding the generator schema, a spy
// writer that accepts everything, a writer that accepts nothing, a static
// trigger and a plain source type.
func NewExtractRegistry() *registry.Registry {
	r := registry.New()
	extract.Module{}.Register(r)
	r.RegisterNode(extract.WritersGroup, SpyWriterType, &registry.RegisteredNode{
		Label: "Spy Writer",
		New:   func(any) (any, error) { return &SpyWriter{Result: true}, nil },
	})
	r.RegisterNode(extract.WritersGroup, PickyWriterType, &registry.RegisteredNode{
		Label: "Picky Writer",
		New: func(any) (any, error) {
			return &SpyWriter{Accept: func(*node.Node) bool { return false }}, nil
		},
	})
	r.RegisterNode(extract.TriggersGroup, StaticTriggerType, &registry.RegisteredNode{
		Label: "Static Trigger",
		New:   func(any) (any, error) { return &StaticTrigger{}, nil },
	})
	r.RegisterNode(extract.SourcesGroup, SourceType, &registry.RegisteredNode{
		Label: "Source",
		New:   func(any) (any, error) { return struct{}{}, nil },
	})
	return r
}

// RegisterNode creates a node of typeName in group and registers it under name.
func RegisterNode(ctx context.Context, t *testing.T, s session.Session, group, typeName, name string) *node.Node {
	t.Helper()
	n, err := s.NewNode(ctx, group, typeName, nil)
	require.NoError(t, err)
	require.NoError(t, s.Register(ctx, group, name, n))
	return n
}

// Context returns a context whose logger discards everything.
func Context() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// LogContext returns a context whose logger writes text records at debug
// level to the returned buffer.
func LogContext() (context.Context, *SafeBuffer) {
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}
