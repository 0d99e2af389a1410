package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/extractgrid/internal/config"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
	"github.com/specialistvlad/extractgrid/internal/procgroup/localgroup"
	"github.com/specialistvlad/extractgrid/internal/procgroup/redisgroup"
	"github.com/specialistvlad/extractgrid/internal/procgroup/socketiogroup"
	"github.com/specialistvlad/extractgrid/internal/tracing"
)

// DefaultNamespace prefixes the run ID when the grid names no namespace.
const DefaultNamespace = "extractgrid"

// groupNamespace scopes a networked group to this run: the grid's namespace
// (or DefaultNamespace) followed by the run ID. Every rank of a group must be
// given the same run ID; only a group of one may have it generated.
func (a *App) groupNamespace(coord *config.Coordination, size int) (string, error) {
	runID := a.config.RunID
	if runID == "" {
		if size > 1 {
			return "", fmt.Errorf("a %s group of %d members needs a run ID shared by every rank (--run-id)", coord.Backend, size)
		}
		runID = uuid.NewString()
	}
	prefix := coord.Namespace
	if prefix == "" {
		prefix = DefaultNamespace
	}
	return prefix + ":" + runID, nil
}

// dialGroups returns the process-group member of every rank this process
// runs. A single nil entry means single-process mode; the "local" backend
// returns one member per simulated rank.
func (a *App) dialGroups(ctx context.Context) ([]procgroup.Group, func() error, error) {
	noop := func() error { return nil }
	coord := a.model.Coordination
	if coord == nil {
		coord = &config.Coordination{Backend: "none"}
	}
	rank := coord.Rank
	if a.config.Rank != UnsetRank {
		rank = a.config.Rank
	}
	size := coord.Size
	if size == 0 {
		size = 1
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring coordination.", "backend", coord.Backend, "rank", rank, "size", size)

	switch coord.Backend {
	case "", "none":
		return []procgroup.Group{nil}, noop, nil

	case "local":
		members := localgroup.New(size)
		groups := make([]procgroup.Group, len(members))
		for i, m := range members {
			groups[i] = m
		}
		return groups, noop, nil

	case "redis":
		namespace, err := a.groupNamespace(coord, size)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("Joining redis process group.", "namespace", namespace)
		g, err := redisgroup.Dial(ctx, redisgroup.Options{
			URL:       coord.URL,
			Namespace: namespace,
			Rank:      rank,
			Size:      size,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to join redis process group: %w", err)
		}
		return []procgroup.Group{g}, g.Close, nil

	case "socketio":
		namespace, err := a.groupNamespace(coord, size)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("Joining socket.io process group.", "namespace", namespace)
		g, err := socketiogroup.Dial(ctx, socketiogroup.Options{
			URL:       coord.URL,
			Namespace: namespace,
			Rank:      rank,
			Size:      size,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to join socket.io process group: %w", err)
		}
		return []procgroup.Group{g}, g.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown coordination backend %q", coord.Backend)
	}
}

// newRecorder returns the trace recorder selected by the grid and a function
// flushing it.
func (a *App) newRecorder() (tracing.Recorder, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	backend := "none"
	if a.model.Tracing != nil {
		backend = a.model.Tracing.Backend
	}

	switch backend {
	case "", "none":
		return tracing.Nop{}, noop, nil
	case "log":
		return tracing.NewSlogRecorder(), noop, nil
	case "otel":
		tp := tracing.NewTracerProvider(a.logger)
		return tracing.NewOtelRecorder(tp.Tracer(tracing.ServiceName)), tp.Shutdown, nil
	default:
		return nil, noop, fmt.Errorf("unknown tracing backend %q", backend)
	}
}
