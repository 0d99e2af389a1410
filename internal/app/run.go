package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
	"github.com/specialistvlad/extractgrid/internal/procgroup/socketiogroup"
	"github.com/specialistvlad/extractgrid/internal/state"
	"github.com/specialistvlad/extractgrid/internal/tracing"
	"golang.org/x/sync/errgroup"
)

// Execute runs the configured command.
func (a *App) Execute(ctx context.Context) error {
	switch a.config.Command {
	case CommandExport:
		return a.Export(ctx, a.config.OutputPath)
	case CommandRelay:
		return a.ServeRelay(ctx, a.config.ListenAddr)
	case CommandCheck:
		return a.Check(ctx, a.config.StatePath)
	default:
		return a.Run(ctx)
	}
}

// Run builds the pipeline of every local rank and drives them through the
// configured steps.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	recorder, flush, err := a.newRecorder()
	if err != nil {
		return err
	}
	defer func() {
		if err := flush(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Failed to flush trace recorder.", "error", err)
		}
	}()

	groups, closeGroups, err := a.dialGroups(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGroups(); err != nil {
			a.logger.Warn("Failed to leave process group.", "error", err)
		}
	}()

	plan := a.runPlan()
	a.logger.Info("🚀 Starting extraction run...", "steps", plan.steps, "ranks", len(groups))

	// Members of a local group block on each other's collectives, so every
	// rank gets its own goroutine and a failing rank cancels the rest.
	eg, egCtx := errgroup.WithContext(ctx)
	for _, group := range groups {
		rankCtx := egCtx
		if group != nil {
			rankCtx = ctxlog.With(egCtx, "rank", group.LocalRank())
		}
		eg.Go(func() error {
			return a.runRank(rankCtx, group, recorder, plan)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.logger.Info("🏁 Extraction run finished.", "last_step", a.LastStep())
	return nil
}

func (a *App) runRank(ctx context.Context, group procgroup.Group, recorder tracing.Recorder, plan runPlan) error {
	p, err := a.newPipeline(ctx, group, recorder)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.close(ctx)
	return p.run(ctx, plan, a.reportStep)
}

// Export builds the pipeline without running it and writes its extracts
// state manifest to path.
func (a *App) Export(ctx context.Context, path string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	manifest, err := a.captureState(ctx)
	if err != nil {
		return err
	}
	if err := manifest.Save(ctx, path); err != nil {
		return err
	}
	a.logger.Info("Extracts state exported.", "path", path, "generators", len(manifest.Generators))
	return nil
}

// Check builds the pipeline without running it and compares its extracts
// state with the manifest at path. Any difference is an error.
func (a *App) Check(ctx context.Context, path string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	saved, err := state.Load(path)
	if err != nil {
		return err
	}
	current, err := a.captureState(ctx)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(saved, current, cmpopts.EquateEmpty()); diff != "" {
		return fmt.Errorf("extracts state drifted from %s (-saved +current):\n%s", path, diff)
	}
	a.logger.Info("✅ Extracts state matches.", "path", path, "generators", len(current.Generators))
	return nil
}

func (a *App) captureState(ctx context.Context) (*state.Manifest, error) {
	p, err := a.newPipeline(ctx, nil, tracing.Nop{})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.close(ctx)

	return state.Capture(ctx, p.session, state.Options{
		DataExtractsOutputDirectory:  p.controller.DataExtractsOutputDirectory(),
		ImageExtractsOutputDirectory: p.controller.ImageExtractsOutputDirectory(),
	}), nil
}

// ServeRelay serves the socket.io broadcast relay on addr until ctx is done.
func (a *App) ServeRelay(ctx context.Context, addr string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return a.serveRelay(ctx, ln)
}

func (a *App) serveRelay(ctx context.Context, ln net.Listener) error {
	relay := socketiogroup.NewRelay(ctx)
	srv := &http.Server{Handler: relay.Handler()}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("📡 Broadcast relay listening.", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		relay.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("relay server failed: %w", err)
	case <-ctx.Done():
	}

	relay.Close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay shutdown failed: %w", err)
	}
	a.logger.Info("Broadcast relay stopped.")
	return nil
}
