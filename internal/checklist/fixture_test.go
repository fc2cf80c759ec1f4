package checklist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devboost-pro/extcheck/internal/config"
)

// fixture is a temp extension project that passes every check.
type fixture struct {
	t       *testing.T
	root    string
	project *Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.NewConfig()
	f := &fixture{t: t, root: root}

	for _, rel := range cfg.Structure.RequiredFiles {
		f.write(rel, "// "+rel+"\n")
	}
	f.writeManifest(validManifest(5))
	f.write(cfg.Security.File, securitySource)
	f.write(cfg.Quality.EntryFile, extensionSource)
	f.write(cfg.Docs.Readme, readmeOfLength(cfg.Docs.MinLength))

	p, err := NewProject(root, cfg)
	require.NoError(t, err)
	f.project = p
	return f
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(f.t, os.WriteFile(p, []byte(content), 0644))
}

func (f *fixture) remove(rel string) {
	f.t.Helper()
	require.NoError(f.t, os.RemoveAll(filepath.Join(f.root, filepath.FromSlash(rel))))
}

func (f *fixture) writeManifest(m map[string]any) {
	f.t.Helper()
	data, err := json.MarshalIndent(m, "", "  ")
	require.NoError(f.t, err)
	f.write("package.json", string(data))
}

func validManifest(commands int) map[string]any {
	cmds := make([]any, 0, commands)
	for i := 0; i < commands; i++ {
		cmds = append(cmds, map[string]any{"command": "devboost.cmd" + string(rune('a'+i)), "title": "Command"})
	}
	return map[string]any{
		"name":        "devboost-pro",
		"displayName": "DevBoost Pro",
		"description": "Developer productivity",
		"version":     "1.0.0",
		"publisher":   "devboost",
		"engines":     map[string]any{"vscode": "^1.80.0"},
		"main":        "./out/extension.js",
		"contributes": map[string]any{
			"commands": cmds,
			"configuration": map[string]any{
				"title": "DevBoost Pro",
				"properties": map[string]any{
					"devboost.enabled": map[string]any{"type": "boolean", "default": true},
				},
			},
		},
	}
}

const securitySource = `import * as crypto from 'crypto';

const ALGORITHM = 'AES-256-GCM';

export function sanitizeInput(input: string): string { return input; }
export function validateFilePath(p: string): boolean { return true; }
export function encrypt(text: string): string { return text; }
export function decrypt(text: string): string { return text; }
export function generateSecureToken(): string { return ''; }
export function validateConfig(c: unknown): boolean { return true; }
export function createRateLimiter() { return () => true; }
`

const extensionSource = `import * as vscode from 'vscode';

export function activate(context: vscode.ExtensionContext) {}

export function deactivate() {}
`

var readmeSections = []string{
	"# DevBoost Pro",
	"## Features",
	"## Quick Start",
	"## Configuration",
	"## Security",
	"## Development",
}

// readmeOfLength returns a README with every section, exactly n code points long.
func readmeOfLength(n int) string {
	head := strings.Join(readmeSections, "\n\n") + "\n\n"
	if len(head) > n {
		panic("readme head longer than requested length")
	}
	return head + strings.Repeat("x", n-len(head))
}

// fakeCommands is a scripted CommandRunner keyed by the first argument.
type fakeCommands struct {
	results map[string]CommandResult
	errs    map[string]error
	calls   []string
}

func (f *fakeCommands) Run(ctx context.Context, _ string, name string, args ...string) (CommandResult, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+key)
	if err := f.errs[key]; err != nil {
		return CommandResult{}, err
	}
	return f.results[key], nil
}

func okCompiler() *fakeCommands {
	return &fakeCommands{results: map[string]CommandResult{
		"--version": {Stdout: "Version 5.4.5\n"},
		"--noEmit":  {},
	}}
}

func runCheck(t *testing.T, f *fixture, id string, commands CommandRunner) Result {
	t.Helper()
	r := New(WithCommandRunner(commands))
	for _, c := range r.Checks() {
		if c.ID == id {
			return r.RunCheck(context.Background(), f.project, c)
		}
	}
	t.Fatalf("no check %q", id)
	return Result{}
}
