package checklist

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

func TestCompile_Success(t *testing.T) {
	f := newFixture(t)
	commands := okCompiler()

	res := runCheck(t, f, IDCompile, commands)

	assert.Equal(t, StatusPass, res.Status)
	assert.Equal(t, "TypeScript compilation successful", res.Message)
	assert.Equal(t, []string{"tsc --version", "tsc --noEmit"}, commands.calls)
}

func TestCompile_NotInstalledIsSoftPass(t *testing.T) {
	// Given: no compiler on PATH
	f := newFixture(t)
	commands := &fakeCommands{errs: map[string]error{"--version": exec.ErrNotFound}}

	// When: running the compile check
	res := runCheck(t, f, IDCompile, commands)

	// Then: it is skipped and counts as passed
	assert.Equal(t, StatusSkip, res.Status)
	assert.True(t, res.Passed)
	assert.Equal(t, "TypeScript not installed", res.Message)
	assert.Equal(t, exterrors.ErrCodeToolNotFound, res.Code)
	assert.Len(t, commands.calls, 1)
}

func TestCompile_VersionFailureIsSoftPass(t *testing.T) {
	f := newFixture(t)
	commands := &fakeCommands{results: map[string]CommandResult{"--version": {ExitCode: 127}}}

	res := runCheck(t, f, IDCompile, commands)

	assert.Equal(t, StatusSkip, res.Status)
	assert.True(t, res.Passed)
	assert.Equal(t, "TypeScript not available", res.Message)
}

func TestCompile_FailureSurfacesStderr(t *testing.T) {
	f := newFixture(t)
	commands := &fakeCommands{results: map[string]CommandResult{
		"--version": {},
		"--noEmit":  {ExitCode: 2, Stderr: "src/extension.ts(3,1): error TS1005\n"},
	}}

	res := runCheck(t, f, IDCompile, commands)

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "TypeScript compilation failed: src/extension.ts(3,1): error TS1005", res.Message)
	assert.Equal(t, exterrors.ErrCodeToolFailed, res.Code)
}

func TestCompile_FailureFallsBackToStdout(t *testing.T) {
	f := newFixture(t)
	commands := &fakeCommands{results: map[string]CommandResult{
		"--version": {},
		"--noEmit":  {ExitCode: 2, Stdout: "error TS2304: Cannot find name 'x'.\n"},
	}}

	res := runCheck(t, f, IDCompile, commands)

	assert.Equal(t, "TypeScript compilation failed: error TS2304: Cannot find name 'x'.", res.Message)
}

func TestCompile_Timeouts(t *testing.T) {
	for _, step := range []string{"--version", "--noEmit"} {
		t.Run(step, func(t *testing.T) {
			f := newFixture(t)
			commands := okCompiler()
			commands.errs = map[string]error{step: context.DeadlineExceeded}

			res := runCheck(t, f, IDCompile, commands)

			assert.Equal(t, StatusFail, res.Status)
			assert.Equal(t, "TypeScript compilation timed out", res.Message)
			assert.Equal(t, exterrors.ErrCodeToolTimeout, res.Code)
		})
	}
}

func TestCompile_OtherErrors(t *testing.T) {
	f := newFixture(t)
	commands := okCompiler()
	commands.errs = map[string]error{"--noEmit": errors.New("permission denied")}

	res := runCheck(t, f, IDCompile, commands)

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Error during compilation: permission denied", res.Message)
}

// =============================================================================
// ExecRunner against real processes
// =============================================================================

// fakeCompiler writes an executable sh script and points the project at it.
func fakeCompiler(t *testing.T, f *fixture, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "tsc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	f.project.Config.Compiler.Binary = path
}

func TestExecRunner_MissingBinary(t *testing.T) {
	f := newFixture(t)
	f.project.Config.Compiler.Binary = "extcheck-no-such-compiler"

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusSkip, res.Status)
	assert.Equal(t, "TypeScript not installed", res.Message)
}

func TestExecRunner_MissingAbsoluteBinary(t *testing.T) {
	f := newFixture(t)
	f.project.Config.Compiler.Binary = filepath.Join(t.TempDir(), "bin", "tsc")

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusSkip, res.Status)
	assert.Equal(t, "TypeScript not installed", res.Message)
}

func TestExecRunner_RunsInProjectRoot(t *testing.T) {
	// Given: a compiler that fails unless package.json is in its cwd
	f := newFixture(t)
	fakeCompiler(t, f, `
[ "$1" = "--version" ] && { echo "Version 5.4.5"; exit 0; }
[ -f package.json ] || { echo "no project" >&2; exit 1; }
exit 0
`)

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusPass, res.Status, res.Message)
}

func TestExecRunner_CompileFailure(t *testing.T) {
	f := newFixture(t)
	fakeCompiler(t, f, `
[ "$1" = "--version" ] && exit 0
echo "error TS1005: ';' expected." >&2
exit 2
`)

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "TypeScript compilation failed: error TS1005: ';' expected.", res.Message)
}

func TestExecRunner_VersionNonZeroSkips(t *testing.T) {
	f := newFixture(t)
	fakeCompiler(t, f, "exit 3\n")

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusSkip, res.Status)
	assert.Equal(t, "TypeScript not available", res.Message)
}

func TestExecRunner_CompileTimeout(t *testing.T) {
	f := newFixture(t)
	fakeCompiler(t, f, `
[ "$1" = "--version" ] && exit 0
exec sleep 10
`)
	f.project.Config.Compiler.CompileTimeout = "200ms"

	res := runCheck(t, f, IDCompile, ExecRunner{})

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "TypeScript compilation timed out", res.Message)
}

func TestExecRunner_ReportsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res, err := ExecRunner{}.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2; exit 4")

	require.NoError(t, err)
	assert.Equal(t, 4, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}
