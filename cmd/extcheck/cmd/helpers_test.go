package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devboost-pro/extcheck/internal/config"
)

// isolate points HOME and XDG_CONFIG_HOME at temp dirs, clears EXTCHECK_*
// overrides and makes the compiler unavailable so no real tsc runs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{"EXTCHECK_PROJECT_NAME", "EXTCHECK_VERSION_TIMEOUT", "EXTCHECK_COMPILE_TIMEOUT", "EXTCHECK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("EXTCHECK_COMPILER", "extcheck-test-no-such-tsc")
	return home
}

// writeProject creates an extension project that passes every check.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfg := config.NewConfig()

	for _, rel := range cfg.Structure.RequiredFiles {
		writeFile(t, root, rel, "// "+rel+"\n")
	}

	commands := make([]any, 0, cfg.Manifest.MinCommands)
	for i := 0; i < cfg.Manifest.MinCommands; i++ {
		commands = append(commands, map[string]any{"command": "devboost.cmd" + string(rune('a'+i)), "title": "Command"})
	}
	manifest, err := json.MarshalIndent(map[string]any{
		"name":        "devboost-pro",
		"displayName": "DevBoost Pro",
		"description": "Developer productivity",
		"version":     "1.0.0",
		"publisher":   "devboost",
		"engines":     map[string]any{"vscode": "^1.80.0"},
		"main":        "./out/extension.js",
		"contributes": map[string]any{
			"commands": commands,
			"configuration": map[string]any{
				"properties": map[string]any{"devboost.enabled": map[string]any{"type": "boolean"}},
			},
		},
	}, "", "  ")
	require.NoError(t, err)
	writeFile(t, root, cfg.Manifest.Path, string(manifest))

	security := "const ALGORITHM = 'AES-256-GCM';\n"
	for _, fn := range cfg.Security.Features {
		security += "export function " + fn + "() {}\n"
	}
	writeFile(t, root, cfg.Security.File, security)

	extension := ""
	for _, export := range cfg.Quality.RequiredExports {
		extension += export + "() {}\n"
	}
	writeFile(t, root, cfg.Quality.EntryFile, extension)

	readme := strings.Join(cfg.Docs.Sections, "\n\n") + "\n\n"
	readme += strings.Repeat("x", cfg.Docs.MinLength-len(readme))
	writeFile(t, root, cfg.Docs.Readme, readme)

	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// runCLI executes the root command with args, tearing down logging and
// profiling like Execute does.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = runCLIWriters(ctx, &out, &errOut, args...)
	return out.String(), errOut.String(), err
}

// runCLIWriters is runCLIContext for callers that read output while the
// command is still running.
func runCLIWriters(ctx context.Context, out, errOut io.Writer, args ...string) error {
	g := &globalOptions{}
	root := newRootCmd(g)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if stopErr := g.stop(); err == nil {
		err = stopErr
	}
	return err
}

// syncBuffer is a bytes.Buffer safe for one writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
