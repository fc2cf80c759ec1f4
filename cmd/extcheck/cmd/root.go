// Package cmd provides the CLI commands for extcheck.
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
	"github.com/devboost-pro/extcheck/internal/logging"
	"github.com/devboost-pro/extcheck/internal/profiling"
	"github.com/devboost-pro/extcheck/pkg/version"
)

// ErrNotReady is returned when a checklist run has at least one failing
// check. The report has already been printed; only the exit status is left.
var ErrNotReady = exterrors.New(exterrors.ErrCodeNotReady, "extension is not production ready", nil)

// globalOptions holds persistent flags and the per-invocation logging and
// profiling state.
type globalOptions struct {
	debug   bool
	profile profiling.Options

	logger     *slog.Logger
	logCleanup func()
	profiler   *profiling.Session
}

// NewRootCmd creates the root command for the extcheck CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globalOptions{})
}

func newRootCmd(g *globalOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "extcheck",
		Short: "Production-readiness checklist for VS Code extensions",
		Long: `extcheck runs a fixed checklist against a VS Code extension project:
project structure, package.json, TypeScript compilation, security helpers,
code quality and documentation.

It prints a pass/fail report and exits 0 only when every check passes.
Running 'extcheck' is the same as 'extcheck check'.`,
		Example: `  # Check the extension in the current directory
  extcheck

  # Check another directory and emit JSON
  extcheck --dir ../devboost-pro --json

  # Run only two checks
  extcheck --only manifest,docs`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, g, opts)
		},
	}

	cmd.SetVersionTemplate("extcheck version {{.Version}}\n")
	addCheckFlags(cmd, opts)

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.extcheck/logs/")
	cmd.PersistentFlags().StringVar(&g.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = g.start

	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command. Logging and profiling are torn down even
// when the command fails.
func Execute(ctx context.Context) error {
	return execute(ctx, &globalOptions{}, nil)
}

func execute(ctx context.Context, g *globalOptions, args []string) error {
	root := newRootCmd(g)
	if args != nil {
		root.SetArgs(args)
	}
	err := root.ExecuteContext(ctx)
	if stopErr := g.stop(); err == nil {
		err = stopErr
	}
	return err
}

// start enables profiling and logging before any command runs.
func (g *globalOptions) start(cmd *cobra.Command, _ []string) error {
	if g.profile.Enabled() {
		s, err := profiling.Start(g.profile)
		if err != nil {
			return exterrors.New(exterrors.ErrCodeFilePermission, "failed to start profiling", err)
		}
		g.profiler = s
	}

	if !g.debug {
		g.logger = logging.NewConsoleLogger(cmd.ErrOrStderr(), "warn")
		return nil
	}

	cfg := logging.DebugConfig()
	cfg.Console = cmd.ErrOrStderr()
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return exterrors.New(exterrors.ErrCodeFilePermission, "failed to set up debug logging", err).
			WithDetail("path", logging.DefaultLogPath())
	}
	g.logger = logger
	g.logCleanup = cleanup

	logger.Info("debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Short()),
		slog.String("command", cmd.CommandPath()))
	return nil
}

// stop writes profiles and closes the log file. Safe to call more than once.
func (g *globalOptions) stop() error {
	var err error
	if g.profiler != nil {
		err = g.profiler.Stop()
		g.profiler = nil
		if g.logger != nil {
			g.logger.Debug("profiling stopped",
				slog.String("heap_in_use", profiling.FormatBytes(profiling.HeapInUse())))
		}
	}

	if g.logCleanup != nil {
		g.logger.Debug("debug logging stopped")
		g.logCleanup()
		g.logCleanup = nil
	}
	return err
}

// loggerFor returns the logger a project command should use: the debug
// file logger under --debug, otherwise a stderr logger at cfg's log_level.
func (g *globalOptions) loggerFor(cmd *cobra.Command, level string) *slog.Logger {
	if g.debug && g.logger != nil {
		return g.logger
	}
	return logging.NewConsoleLogger(cmd.ErrOrStderr(), level)
}
