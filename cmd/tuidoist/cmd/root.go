// Package cmd implements the tuidoist command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/config"
	"github.com/hy4ri/tuidoist/internal/logging"
	"github.com/hy4ri/tuidoist/internal/reconcile"
	"github.com/hy4ri/tuidoist/internal/setup"
	"github.com/hy4ri/tuidoist/internal/tui"
)

// Version is set at build time.
var Version = "0.2.0"

// ErrNotTerminal is returned when the display would have no terminal to draw on.
var ErrNotTerminal = errors.New("tuidoist needs an interactive terminal")

type flags struct {
	setup      bool
	configPath string
	logLevel   string
	logFile    string
}

// isTerminal is replaced in tests.
var isTerminal = func(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runProgram is replaced in tests.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRoot creates the root command with injectable IO.
func NewRoot(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "tuidoist",
		Short: "A terminal client for Todoist",
		Long: `tuidoist shows your Todoist tasks in the terminal.

The API token is read from a .env file, the config file, the
TODOIST_API_TOKEN environment variable or the system keyring.
Run with --setup-config to store one.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.setup {
				return setup.Run(setup.Options{In: stdin, Out: stdout, ConfigPath: f.configPath})
			}
			return runTUI(f, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.BoolVar(&f.setup, "setup-config", false, "run the interactive configuration wizard")
	fl.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tuidoist/config.yaml)")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fl.StringVar(&f.logFile, "log-file", "", "log file (default "+logging.DefaultFile+")")

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRoot(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(f flags, stdout io.Writer) error {
	if out, ok := stdout.(*os.File); !ok || !isTerminal(out) {
		return ErrNotTerminal
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	token, source := cfg.ResolveToken()
	if source == config.SourceNone {
		logger.Warn("no API token configured")
	} else {
		logger.Infow("API token resolved", "source", string(source), "config", cfg.Path())
	}

	client := api.NewClientWithOptions(token, cfg.ClientOptions())
	ctrl := reconcile.New(client, cache.New(), reconcile.Options{Logger: logger})
	defer ctrl.Close()

	m := tui.New(ctrl, tui.Options{
		Logger:      logger,
		ShowDetails: cfg.UI.ShowDetails,
		VimMode:     cfg.UI.VimMode,
	})
	if err := runProgram(m); err != nil {
		logger.WithError(err).Error("program exited")
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}
