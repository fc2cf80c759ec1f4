package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/devboost-pro/extcheck/internal/checklist"
	"github.com/devboost-pro/extcheck/internal/config"
	exterrors "github.com/devboost-pro/extcheck/internal/errors"
	"github.com/devboost-pro/extcheck/internal/output"
	"github.com/devboost-pro/extcheck/internal/report"
)

// checkOptions are the flags shared by the root, check and watch commands.
type checkOptions struct {
	dir     string
	json    bool
	noColor bool
	only    []string
}

func addCheckFlags(cmd *cobra.Command, opts *checkOptions) {
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Extension project root")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "Run only these check IDs (see 'extcheck list')")
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the readiness checklist",
		Long: `Run the six readiness checks in order and print a report.

Exit status is 0 when every check passes (a skipped compiler counts as
passing) and 1 otherwise.

The compiler command (compiler.binary and its args) is read only from the
user config and EXTCHECK_COMPILER, never from the project's own config, so
checking an untrusted checkout runs nothing it names.`,
		Example: `  extcheck check --dir ./devboost-pro
  extcheck check --only structure,manifest --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, g, opts)
		},
	}

	addCheckFlags(cmd, opts)
	return cmd
}

func runCheck(cmd *cobra.Command, g *globalOptions, opts *checkOptions) error {
	err := checkOnce(cmd, g, opts)
	if err != nil && opts.json && !errors.Is(err, ErrNotReady) {
		_ = exterrors.WriteJSON(cmd.OutOrStdout(), err)
	}
	return err
}

func checkOnce(cmd *cobra.Command, g *globalOptions, opts *checkOptions) error {
	project, err := loadProject(opts.dir)
	if err != nil {
		return err
	}
	logger := g.loggerFor(cmd, project.Config.LogLevel)

	rep, err := runChecklist(cmd.Context(), cmd.OutOrStdout(), project, logger, opts)
	if err != nil {
		return err
	}
	if !rep.Ready() {
		return ErrNotReady
	}
	return nil
}

// loadProject loads the layered configuration for dir and opens it as a
// checklist project.
func loadProject(dir string) (*checklist.Project, error) {
	probe, err := checklist.NewProject(dir, nil)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(probe.Root)
	if err != nil {
		if exterrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, exterrors.ConfigError(err.Error(), err).
			WithSuggestion("Check the project config with 'extcheck config show --source project'")
	}
	probe.Config = cfg
	return probe, nil
}

// runChecklist runs the selected checks against project and renders the
// report to out, as JSON or streaming text.
func runChecklist(ctx context.Context, out io.Writer, project *checklist.Project, logger *slog.Logger, opts *checkOptions) (checklist.Report, error) {
	checks, err := checklist.Select(checklist.DefaultChecks(checklist.ExecRunner{}), opts.only)
	if err != nil {
		return checklist.Report{}, err
	}
	runnerOpts := []checklist.Option{
		checklist.WithChecks(checks...),
		checklist.WithLogger(logger),
	}
	name := project.Config.Project.Name

	if opts.json {
		rep := checklist.New(runnerOpts...).RunAll(ctx, project)
		err := report.WriteJSON(out, report.NewJSONReport(name, project.Root, rep, time.Now()))
		return rep, err
	}

	renderer := report.NewTextRenderer(out, name, output.ShouldColor(out, opts.noColor))
	renderer.Header()
	rep := checklist.New(append(runnerOpts, checklist.WithObserver(renderer))...).RunAll(ctx, project)
	renderer.Summary(rep)
	renderer.FinalStatus(rep.Ready())
	return rep, nil
}
