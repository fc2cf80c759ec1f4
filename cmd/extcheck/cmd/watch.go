package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devboost-pro/extcheck/internal/checklist"
	"github.com/devboost-pro/extcheck/internal/config"
	"github.com/devboost-pro/extcheck/internal/watcher"
)

// maxListedChanges bounds the changed paths printed before a rerun.
const maxListedChanges = 5

// lockDir is where watcher locks live; tests point it at a temp dir.
var lockDir = watcher.DefaultLockDir

func newWatchCmd(g *globalOptions) *cobra.Command {
	opts := &checkOptions{}
	var poll bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the checklist whenever the project changes",
		Long: `Run the checklist once, then again after every burst of file changes.

Changes are debounced (watch.debounce, default 300ms). Directories listed in
watch.ignore are not watched. Editing the project config reloads it before
the next run. Only one watcher may run per project; press Ctrl+C to stop.`,
		Example: `  extcheck watch
  extcheck watch --dir ./devboost-pro --only docs
  extcheck watch --poll   # network mounts and containers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, g, opts, poll)
		},
	}

	addCheckFlags(cmd, opts)
	cmd.Flags().BoolVar(&poll, "poll", false, "Poll for changes instead of using file system events")
	return cmd
}

func runWatch(cmd *cobra.Command, g *globalOptions, opts *checkOptions, poll bool) error {
	project, err := loadProject(opts.dir)
	if err != nil {
		return err
	}
	logger := g.loggerFor(cmd, project.Config.LogLevel)

	lock := watcher.NewProjectLock(lockDir(), project.Root)
	if err := lock.TryLock(); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	w, err := watcher.NewHybridWatcher(watcher.Options{
		DebounceWindow: project.Config.WatchDebounce(),
		IgnoreDirs:     project.Config.Watch.Ignore,
		ForcePolling:   poll,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.Go(func() error {
		err := w.Start(ctx, project.Root)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		// Stopping the watcher ends the other goroutine when this loop
		// returns early.
		defer func() { _ = w.Stop() }()
		return rerunLoop(ctx, cmd.OutOrStdout(), w, project, logger, opts)
	})

	err = eg.Wait()
	if n := w.DroppedBatches(); n > 0 {
		logger.Warn("change batches were dropped while a run was in progress",
			slog.Uint64("dropped_batches", n))
	}
	return err
}

// rerunLoop runs the checklist once and then once per batch of changes
// until ctx is done or the watcher stops.
func rerunLoop(ctx context.Context, out io.Writer, w *watcher.HybridWatcher, project *checklist.Project, logger *slog.Logger, opts *checkOptions) error {
	run := func() error {
		rep, err := runChecklist(ctx, out, project, logger, opts)
		if err != nil {
			return err
		}
		logger.Info("checklist run",
			slog.Int("passed", rep.Summary.Passed),
			slog.Int("total", rep.Summary.Total))
		_, _ = fmt.Fprintln(out, "\nWatching for changes... (Ctrl+C to stop)")
		return nil
	}

	if err := run(); err != nil {
		return err
	}

	errs := w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher error", slog.Any("error", err))
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			if hasConfigChange(batch) {
				project = reloadProject(project, logger)
			}
			_, _ = fmt.Fprintf(out, "\nChange detected: %s\n", describeChanges(batch))
			if err := run(); err != nil {
				return err
			}
		}
	}
}

func hasConfigChange(batch []watcher.FileEvent) bool {
	for _, e := range batch {
		if e.Operation == watcher.OpConfigChange {
			return true
		}
	}
	return false
}

// reloadProject re-reads the configuration. An invalid config keeps the
// previous one so a half-typed edit does not stop the watcher.
func reloadProject(project *checklist.Project, logger *slog.Logger) *checklist.Project {
	cfg, err := config.Load(project.Root)
	if err != nil {
		logger.Warn("config reload failed, keeping previous configuration",
			slog.Any("error", err))
		return project
	}
	logger.Info("config reloaded", slog.String("root", project.Root))
	return &checklist.Project{Root: project.Root, Config: cfg}
}

func describeChanges(batch []watcher.FileEvent) string {
	paths := make([]string, 0, maxListedChanges)
	for i, e := range batch {
		if i == maxListedChanges {
			break
		}
		paths = append(paths, e.Path)
	}
	desc := strings.Join(paths, ", ")
	if extra := len(batch) - len(paths); extra > 0 {
		desc += fmt.Sprintf(" and %d more", extra)
	}
	return desc
}
