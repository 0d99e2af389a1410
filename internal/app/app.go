package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/extractgrid/internal/config"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/localsession"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/specialistvlad/extractgrid/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx       context.Context
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
	sessions  session.SessionFactory

	httpServer *http.Server
	// lastStep is the last step completed by any local rank, -1 before the first.
	lastStep atomic.Int64
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Configuration errors are fatal and panic; the entrypoint recovers them.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		model:    &config.Model{},
		sessions: &localsession.SessionFactory{},
	}
	a.lastStep.Store(-1)

	if appConfig.Command == CommandRelay {
		return a
	}

	cfgModel, converter, err := loader.Load(ctx, appConfig.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"sources", len(cfgModel.Sources), "triggers", len(cfgModel.Triggers), "generators", len(cfgModel.Generators))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error (mismatch between code and config), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a.registry = reg
	a.model = cfgModel
	a.converter = converter
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded configuration model.
func (a *App) Model() *config.Model {
	return a.model
}

// LastStep returns the last completed step, or -1.
func (a *App) LastStep() int {
	return int(a.lastStep.Load())
}

// reportStep records step as completed if it is the furthest one yet.
func (a *App) reportStep(step int) {
	for {
		last := a.lastStep.Load()
		if int64(step) <= last || a.lastStep.CompareAndSwap(last, int64(step)) {
			return
		}
	}
}
