package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devboost-pro/extcheck/internal/checklist"
	exterrors "github.com/devboost-pro/extcheck/internal/errors"
	"github.com/devboost-pro/extcheck/internal/report"
)

func TestRoot_ReadyProject(t *testing.T) {
	// Given: a complete project and no compiler on PATH
	isolate(t)
	root := writeProject(t)

	// When: running the root command
	out, _, err := runCLI(t, "--dir", root)

	// Then: every check passes and the run succeeds
	require.NoError(t, err)
	assert.Contains(t, out, "DevBoost Pro VS Code Extension - Comprehensive Test Suite")
	assert.Contains(t, out, "Testing package.json...")
	assert.Contains(t, out, "  [SKIP] TypeScript not installed")
	assert.Contains(t, out, "  [OK] Documentation is comprehensive")
	assert.Contains(t, out, "Extension Readiness: 100.0% (6/6 tests passed)")
	assert.Contains(t, out, "SUCCESS: DevBoost Pro extension is production-ready!")
	assert.True(t, strings.HasSuffix(out, "Final Status: PRODUCTION READY\n"))
}

func TestRoot_OneFailingCheck(t *testing.T) {
	// Given: a project whose README is missing a section
	isolate(t)
	root := writeProject(t)
	readme := strings.Replace(strings.Repeat("x", 5000), "x", "# DevBoost Pro\n", 1)
	writeFile(t, root, "README.md", readme)

	// When: running the checklist
	out, _, err := runCLI(t, "check", "--dir", root)

	// Then: the run reports 5/6 and returns ErrNotReady
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.Contains(t, out, "[FAIL] Missing README sections: ## Features")
	assert.Contains(t, out, "[FAIL] Documentation")
	assert.Contains(t, out, "Extension Readiness: 83.3% (5/6 tests passed)")
	assert.Contains(t, out, "WARNING: Extension mostly ready but has 1 failing tests")
	assert.Contains(t, out, "Final Status: NEEDS FIXES")
}

func TestRoot_EmptyDirectory(t *testing.T) {
	// Given: an empty directory
	isolate(t)

	// When: running the checklist
	out, _, err := runCLI(t, "--dir", t.TempDir())

	// Then: only the skipped compiler passes
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.Contains(t, out, "Extension Readiness: 16.7% (1/6 tests passed)")
	assert.Contains(t, out, "ERROR: Extension needs significant work - 5 tests failing")
}

func TestRoot_JSON(t *testing.T) {
	// Given: a complete project
	isolate(t)
	root := writeProject(t)

	// When: requesting JSON
	out, _, err := runCLI(t, "--dir", root, "--json")
	require.NoError(t, err)

	// Then: the report is machine readable
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, report.StatusReady, rep.Status)
	assert.True(t, rep.Ready)
	assert.Equal(t, 6, rep.Summary.Total)
	require.Len(t, rep.Results, 6)
	assert.Equal(t, "structure", rep.Results[0].ID)
	assert.Equal(t, checklist.StatusSkip, rep.Results[2].Status)
	assert.NotContains(t, out, "Final Status")
}

func TestRoot_OnlySubset(t *testing.T) {
	// Given: a project with a broken manifest
	isolate(t)
	root := writeProject(t)
	writeFile(t, root, "package.json", "{not json")

	// When: running only the docs and structure checks, in any order
	out, _, err := runCLI(t, "--dir", root, "--json", "--only", "docs, structure")
	require.NoError(t, err)

	// Then: the run set is reported in run order and counts only itself
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 2)
	assert.Equal(t, "structure", rep.Results[0].ID)
	assert.Equal(t, "docs", rep.Results[1].ID)
	assert.Equal(t, 2, rep.Summary.Total)
}

func TestRoot_UnknownCheck(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "--dir", writeProject(t), "--only", "lint")

	require.Error(t, err)
	assert.Equal(t, exterrors.ErrCodeInvalidInput, exterrors.GetCode(err))
	assert.Contains(t, exterrors.FormatForCLI(err), "extcheck list")
}

func TestRoot_MissingDirectory(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "--dir", filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Equal(t, exterrors.ErrCodeDirUnreadable, exterrors.GetCode(err))
	assert.False(t, errors.Is(err, ErrNotReady))
}

func TestRoot_JSONSetupError(t *testing.T) {
	isolate(t)

	// When: the project cannot be opened in JSON mode
	stdout, _, err := runCLI(t, "--json", "--dir", filepath.Join(t.TempDir(), "nope"))

	// Then: stdout still carries a JSON error object
	require.Error(t, err)
	var got struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, exterrors.ErrCodeDirUnreadable, got.Error.Code)
}

func TestRoot_InvalidProjectConfig(t *testing.T) {
	// Given: a project config with a bad timeout
	isolate(t)
	root := writeProject(t)
	writeFile(t, root, ".extcheck.yaml", "compiler:\n  compile_timeout: soon\n")

	// When: running
	_, _, err := runCLI(t, "--dir", root)

	// Then: it is a config error naming the key
	require.Error(t, err)
	assert.Equal(t, exterrors.ErrCodeConfigInvalid, exterrors.GetCode(err))
	assert.Contains(t, err.Error(), "compiler.compile_timeout")
}

func TestRoot_ProjectConfigOverridesName(t *testing.T) {
	isolate(t)
	root := writeProject(t)
	writeFile(t, root, ".extcheck.toml", "[project]\nname = \"Acme Tools\"\n")

	out, _, err := runCLI(t, "--dir", root)

	require.NoError(t, err)
	assert.Contains(t, out, "Acme Tools VS Code Extension - Comprehensive Test Suite")
	assert.Contains(t, out, "SUCCESS: Acme Tools extension is production-ready!")
}

func TestRoot_RejectsArguments(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "somewhere")
	assert.Error(t, err)
}

func TestRoot_DebugWritesLogFile(t *testing.T) {
	// Given: an isolated home
	home := isolate(t)

	// When: running with --debug
	_, _, err := runCLI(t, "--debug", "--dir", writeProject(t))
	require.NoError(t, err)

	// Then: lifecycle records are in the log
	data, err := os.ReadFile(filepath.Join(home, ".extcheck", "logs", "extcheck.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug logging enabled"`)
	assert.Contains(t, string(data), `"msg":"check finished"`)
}

func TestRoot_ProfileFlags(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	heap := filepath.Join(dir, "heap.prof")
	cpu := filepath.Join(dir, "cpu.prof")

	_, _, err := runCLI(t, "--profile-mem", heap, "--profile-cpu", cpu, "--dir", writeProject(t))

	require.NoError(t, err)
	for _, p := range []string{heap, cpu} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestList(t *testing.T) {
	out, _, err := runCLI(t, "list")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "structure  Project Structure", lines[0])
	assert.Equal(t, "compile    TypeScript Compilation", lines[2])
	assert.Equal(t, "docs       Documentation", lines[5])
}
