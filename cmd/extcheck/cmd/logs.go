package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/devboost-pro/extcheck/internal/logging"
	"github.com/devboost-pro/extcheck/internal/output"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	noColor bool
	logFile string
}

func newLogsCmd() *cobra.Command {
	opts := logsOptions{}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View extcheck debug logs",
		Long: `View and tail the JSON log written by 'extcheck --debug'
(~/.extcheck/logs/extcheck.log).

By default, shows the last 50 lines. Use -f to follow new entries.`,
		Example: `  extcheck logs                 # Show last 50 lines
  extcheck logs -n 200          # Show last 200 lines
  extcheck logs -f              # Follow logs in real-time
  extcheck logs --level error   # Only errors (check crashes)
  extcheck logs --filter docs   # Filter by pattern`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum log level shown (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	path, err := logging.FindLogFile(opts.logFile)
	if err != nil {
		return err
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		NoColor: !output.ShouldColor(cmd.OutOrStdout(), opts.noColor),
	}, cmd.OutOrStdout())

	stderr := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(stderr, "Log file: %s\n", path)

	if opts.follow {
		_, _ = fmt.Fprintln(stderr, "Following... (Ctrl+C to stop)")
		_, _ = fmt.Fprintln(stderr, "---")
		if err := viewer.Follow(cmd.Context(), path); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stderr, "\n---\nStopped.")
		return nil
	}

	_, _ = fmt.Fprintln(stderr, "---")
	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)
	return nil
}
