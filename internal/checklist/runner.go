package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// Observer is notified around every check so rendering can interleave
// with evaluation.
type Observer interface {
	CheckStarted(c Check)
	CheckFinished(r Result)
}

// Runner runs checks sequentially on the calling goroutine.
type Runner struct {
	checks   []Check
	observer Observer
	logger   *slog.Logger
	commands CommandRunner
}

// Option configures a Runner.
type Option func(*Runner)

// WithChecks replaces the checks to run. An empty list runs nothing.
func WithChecks(checks ...Check) Option {
	return func(r *Runner) {
		r.checks = append(make([]Check, 0, len(checks)), checks...)
	}
}

// WithObserver sets the observer notified around each check.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithLogger sets the logger for check lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithCommandRunner sets how the compile check runs the compiler.
// It only affects the default check list.
func WithCommandRunner(c CommandRunner) Option {
	return func(r *Runner) {
		r.commands = c
	}
}

// New creates a new Runner with the given options.
// Without WithChecks it runs DefaultChecks.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger:   slog.Default(),
		commands: ExecRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.checks == nil {
		r.checks = DefaultChecks(r.commands)
	}
	return r
}

// Checks returns the checks the runner will run, in order.
func (r *Runner) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

// RunAll runs every check in order and returns the results with a summary.
// A failing or panicking check never stops the remaining ones.
func (r *Runner) RunAll(ctx context.Context, p *Project) Report {
	results := make([]Result, 0, len(r.checks))
	for _, c := range r.checks {
		if r.observer != nil {
			r.observer.CheckStarted(c)
		}
		res := r.RunCheck(ctx, p, c)
		if r.observer != nil {
			r.observer.CheckFinished(res)
		}
		results = append(results, res)
	}

	summary := Summarize(results)
	r.logger.Debug("checklist finished",
		slog.Int("passed", summary.Passed),
		slog.Int("total", summary.Total),
		slog.String("verdict", string(summary.Verdict)))

	return Report{Results: results, Summary: summary}
}

// RunCheck runs a single check, recovering a panic into a crash result.
func (r *Runner) RunCheck(ctx context.Context, p *Project, c Check) (res Result) {
	start := time.Now()
	res = Result{ID: c.ID, Name: c.Name}

	r.logger.Debug("check started", slog.String("check", c.ID))

	defer func() {
		res.Duration = time.Since(start)
		if v := recover(); v != nil {
			res.Status = StatusCrash
			res.Passed = false
			res.Message = fmt.Sprintf("%s crashed: %v", c.Name, v)
			res.Details = nil
			res.Code = exterrors.ErrCodeCheckCrashed
			r.logger.Error("check crashed",
				slog.String("check", c.ID),
				slog.Any("panic", v),
				slog.String("stack", string(debug.Stack())))
			return
		}
		r.logger.Debug("check finished",
			slog.String("check", c.ID),
			slog.String("status", res.Status.String()),
			slog.Duration("duration", res.Duration))
	}()

	out := c.Run(ctx, p)
	if out.Status == StatusUnknown && out.Message == "" {
		out.Message = c.Name + " reported no result"
	}
	res.Status = out.Status
	res.Passed = out.Status.Passed()
	res.Message = out.Message
	res.Details = out.Details
	res.Code = out.Code
	if out.Err != nil {
		r.logger.Debug("check error",
			slog.String("check", c.ID),
			slog.String("code", out.Code),
			slog.Any("error", out.Err))
	}
	return res
}
