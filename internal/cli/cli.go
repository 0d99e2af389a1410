package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/extractgrid/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the values shared by every command.
type flags struct {
	grid            string
	logFormat       string
	logLevel        string
	healthcheckPort int
	rank            int
	runID           string
	steps           int
	extractsDir     string
	output          string
	statePath       string
	listen          string
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var f flags
	var result *app.Config
	build := func(command app.Command, cmdArgs []string) error {
		cfg, err := f.config(command, cmdArgs)
		if err != nil {
			return err
		}
		result = cfg
		return nil
	}

	root := &cobra.Command{
		Use:   "extractgrid [flags] [GRID_PATH]",
		Short: "Triggered extracts for step-driven pipelines",
		Long: `extractgrid drives a pipeline described by a grid of .hcl files and writes
triggered extracts of its sources, optionally coordinating directory
creation across a group of processes.

GRID_PATH is a single .hcl file or a directory containing .hcl files.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if f.grid == "" && len(cmdArgs) == 0 {
				slog.Debug("No grid path provided, printing usage and exiting.")
				return cmd.Usage()
			}
			return build(app.CommandRun, cmdArgs)
		},
	}
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	pf := root.PersistentFlags()
	pf.StringVar(&f.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	gridFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&f.grid, "grid", "g", "", "Path to the grid file or directory.")
		cmd.Flags().StringVar(&f.extractsDir, "extracts-dir", "", "Directory for data and image extracts; overrides the grid.")
	}

	gridFlags(root)
	rf := root.Flags()
	rf.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	rf.IntVar(&f.rank, "rank", app.UnsetRank, "Rank of this process in its group; overrides coordination.rank.")
	rf.StringVar(&f.runID, "run-id", "", "Run ID shared by every rank of a redis or socketio group.")
	rf.IntVar(&f.steps, "steps", 0, "Number of steps to run; overrides run.steps when positive.")

	exportCmd := &cobra.Command{
		Use:   "export [flags] [GRID_PATH]",
		Short: "Write the extracts state of a grid as a YAML manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, cmdArgs []string) error {
			return build(app.CommandExport, cmdArgs)
		},
	}
	gridFlags(exportCmd)
	exportCmd.Flags().StringVarP(&f.output, "output", "o", "extracts-state.yaml", "Path of the manifest to write.")

	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve the socket.io broadcast relay for a process group",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return build(app.CommandRelay, nil)
		},
	}
	relayCmd.Flags().StringVar(&f.listen, "listen", ":8090", "Address the relay listens on.")

	checkCmd := &cobra.Command{
		Use:   "check [flags] [GRID_PATH]",
		Short: "Compare the extracts state of a grid with a saved manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, cmdArgs []string) error {
			return build(app.CommandCheck, cmdArgs)
		},
	}
	gridFlags(checkCmd)
	checkCmd.Flags().StringVar(&f.statePath, "state", "extracts-state.yaml", "Path of the manifest to compare against.")

	root.AddCommand(exportCmd, relayCmd, checkCmd)

	if err := root.Execute(); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if result == nil {
		// Help or usage was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", result)
	return result, false, nil
}

// config validates the parsed flags and turns them into an app.Config.
func (f *flags) config(command app.Command, args []string) (*app.Config, error) {
	path := f.grid
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	slog.Debug("Grid path determined.", "path", path)

	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		Command:         command,
		GridPath:        path,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: f.healthcheckPort,
		Rank:            f.rank,
		RunID:           f.runID,
		Steps:           f.steps,
		ExtractsDir:     f.extractsDir,
		OutputPath:      f.output,
		StatePath:       f.statePath,
		ListenAddr:      f.listen,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	return cfg, nil
}
