package checklist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// waitDelay bounds how long Run waits for output pipes after the process
// is killed, e.g. when the compiler left a child holding stdout.
const waitDelay = 2 * time.Second

// CommandResult is the captured output of a finished command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner runs an external command in dir.
// A non-zero exit is reported through ExitCode with a nil error.
// When ctx ends before the command does, the error is ctx.Err().
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// isNotFound reports whether err means the executable does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// compileCheck probes the compiler and, when it is available, type-checks
// the project. An unavailable compiler is a skip.
func compileCheck(commands CommandRunner) CheckFunc {
	return func(ctx context.Context, p *Project) Outcome {
		cc := p.Config.Compiler

		vctx, cancel := context.WithTimeout(ctx, p.Config.VersionTimeout())
		res, err := commands.Run(vctx, p.Root, cc.Binary, cc.VersionArgs...)
		cancel()

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return timedOut(err)
		case isNotFound(err):
			return skip(exterrors.ErrCodeToolNotFound, "TypeScript not installed", err)
		case err != nil:
			return compileError(err)
		case res.ExitCode != 0:
			return skip(exterrors.ErrCodeToolNotFound, "TypeScript not available",
				fmt.Errorf("%s exited with code %d", cc.Binary, res.ExitCode))
		}

		cctx, cancel := context.WithTimeout(ctx, p.Config.CompileTimeout())
		res, err = commands.Run(cctx, p.Root, cc.Binary, cc.CompileArgs...)
		cancel()

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return timedOut(err)
		case err != nil:
			return compileError(err)
		case res.ExitCode != 0:
			return fail(exterrors.ErrCodeToolFailed,
				"TypeScript compilation failed: "+diagnostics(res), nil)
		}

		return pass("TypeScript compilation successful")
	}
}

func timedOut(err error) Outcome {
	return fail(exterrors.ErrCodeToolTimeout, "TypeScript compilation timed out", err)
}

func compileError(err error) Outcome {
	return fail(exterrors.ErrCodeToolFailed, fmt.Sprintf("Error during compilation: %v", err), err)
}

// diagnostics returns the compiler's stderr, or stdout when stderr is
// empty (tsc prints type errors to stdout).
func diagnostics(res CommandResult) string {
	if s := strings.TrimRight(res.Stderr, "\r\n\t "); s != "" {
		return s
	}
	return strings.TrimRight(res.Stdout, "\r\n\t ")
}
