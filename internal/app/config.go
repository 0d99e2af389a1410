package app

import (
	"errors"
	"fmt"
)

// Command selects what the App does.
type Command string

const (
	// CommandRun drives the pipeline and writes extracts.
	CommandRun Command = "run"
	// CommandExport writes the extracts state manifest without running.
	CommandExport Command = "export"
	// CommandRelay serves the socket.io broadcast relay.
	CommandRelay Command = "relay"
	// CommandCheck compares the extracts state against a saved manifest.
	CommandCheck Command = "check"
)

// UnsetRank means the rank comes from the grid's coordination block.
const UnsetRank = -1

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command  Command
	GridPath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Rank overrides coordination.rank, so that every process of a group can
	// share one grid file.
	Rank int
	// RunID scopes a networked process group to one run. Every rank of the
	// group must be given the same value.
	RunID string
	// Steps overrides run.steps when positive.
	Steps int
	// ExtractsDir overrides both extract output directories when set.
	ExtractsDir string
	// OutputPath is where CommandExport writes the manifest.
	OutputPath string
	// StatePath is the manifest CommandCheck compares against.
	StatePath string
	// ListenAddr is where CommandRelay listens.
	ListenAddr string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandRun
	}
	switch cfg.Command {
	case CommandRun, CommandExport, CommandCheck:
		if cfg.GridPath == "" {
			return nil, errors.New("GridPath is a required configuration field and cannot be empty")
		}
	case CommandRelay:
		if cfg.ListenAddr == "" {
			return nil, errors.New("ListenAddr is required to serve the relay")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.Command == CommandExport && cfg.OutputPath == "" {
		return nil, errors.New("OutputPath is required to export the extracts state")
	}
	if cfg.Command == CommandCheck && cfg.StatePath == "" {
		return nil, errors.New("StatePath is required to check the extracts state")
	}
	if cfg.Rank < UnsetRank {
		return nil, fmt.Errorf("rank must not be negative, got %d", cfg.Rank)
	}
	if cfg.Steps < 0 {
		return nil, fmt.Errorf("steps must not be negative, got %d", cfg.Steps)
	}
	return &cfg, nil
}
