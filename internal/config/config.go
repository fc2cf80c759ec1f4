// Package config loads the layered extcheck configuration: hardcoded
// defaults describing the DevBoost Pro extension layout, a user config,
// a project config and EXTCHECK_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Project config file names, in lookup order.
const (
	ProjectConfigYAML = ".extcheck.yaml"
	ProjectConfigYML  = ".extcheck.yml"
	ProjectConfigTOML = ".extcheck.toml"
)

// Config represents the complete extcheck configuration.
type Config struct {
	Version   int             `yaml:"version" toml:"version" json:"version"`
	Project   ProjectConfig   `yaml:"project" toml:"project" json:"project"`
	Structure StructureConfig `yaml:"structure" toml:"structure" json:"structure"`
	Manifest  ManifestConfig  `yaml:"manifest" toml:"manifest" json:"manifest"`
	Compiler  CompilerConfig  `yaml:"compiler" toml:"compiler" json:"compiler"`
	Security  SecurityConfig  `yaml:"security" toml:"security" json:"security"`
	Quality   QualityConfig   `yaml:"quality" toml:"quality" json:"quality"`
	Docs      DocsConfig      `yaml:"docs" toml:"docs" json:"docs"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch" json:"watch"`
	LogLevel  string          `yaml:"log_level" toml:"log_level" json:"log_level"`
}

// ProjectConfig names the extension under check.
type ProjectConfig struct {
	// Name is the display name used in the report banner and verdict.
	Name string `yaml:"name" toml:"name" json:"name"`
}

// StructureConfig lists the files that must exist.
type StructureConfig struct {
	RequiredFiles []string `yaml:"required_files" toml:"required_files" json:"required_files"`
}

// ManifestConfig configures the package.json check.
type ManifestConfig struct {
	Path           string   `yaml:"path" toml:"path" json:"path"`
	RequiredFields []string `yaml:"required_fields" toml:"required_fields" json:"required_fields"`
	MinCommands    int      `yaml:"min_commands" toml:"min_commands" json:"min_commands"`
}

// CompilerConfig configures the external compiler probe.
// Timeouts are Go duration strings ("10s", "1m30s").
type CompilerConfig struct {
	Binary         string   `yaml:"binary" toml:"binary" json:"binary"`
	VersionArgs    []string `yaml:"version_args" toml:"version_args" json:"version_args"`
	CompileArgs    []string `yaml:"compile_args" toml:"compile_args" json:"compile_args"`
	VersionTimeout string   `yaml:"version_timeout" toml:"version_timeout" json:"version_timeout"`
	CompileTimeout string   `yaml:"compile_timeout" toml:"compile_timeout" json:"compile_timeout"`
}

// SecurityConfig configures the security source check.
type SecurityConfig struct {
	File      string   `yaml:"file" toml:"file" json:"file"`
	Features  []string `yaml:"features" toml:"features" json:"features"`
	Algorithm string   `yaml:"algorithm" toml:"algorithm" json:"algorithm"`
	// SanitizeMarker is matched case-insensitively.
	SanitizeMarker string `yaml:"sanitize_marker" toml:"sanitize_marker" json:"sanitize_marker"`
}

// QualityConfig configures the source tree check.
type QualityConfig struct {
	SourceDir       string   `yaml:"source_dir" toml:"source_dir" json:"source_dir"`
	Extension       string   `yaml:"extension" toml:"extension" json:"extension"`
	MinFiles        int      `yaml:"min_files" toml:"min_files" json:"min_files"`
	EntryFile       string   `yaml:"entry_file" toml:"entry_file" json:"entry_file"`
	RequiredExports []string `yaml:"required_exports" toml:"required_exports" json:"required_exports"`
}

// DocsConfig configures the README check.
type DocsConfig struct {
	Readme    string   `yaml:"readme" toml:"readme" json:"readme"`
	Sections  []string `yaml:"sections" toml:"sections" json:"sections"`
	MinLength int      `yaml:"min_length" toml:"min_length" json:"min_length"`
}

// WatchConfig configures `extcheck watch`.
type WatchConfig struct {
	Debounce string   `yaml:"debounce" toml:"debounce" json:"debounce"`
	Ignore   []string `yaml:"ignore" toml:"ignore" json:"ignore"`
}

// NewConfig creates a new Config holding the DevBoost Pro layout.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Project: ProjectConfig{
			Name: "DevBoost Pro",
		},
		Structure: StructureConfig{
			RequiredFiles: []string{
				"package.json",
				"tsconfig.json",
				"README.md",
				".gitignore",
				".eslintrc.json",
				".vscodeignore",
				"src/extension.ts",
				"src/commands/codeAnalyzer.ts",
				"src/commands/timeTracker.ts",
				"src/webview/dashboard.ts",
				"src/providers/completionProvider.ts",
				"src/utils/security.ts",
				"test/suite/extension.test.ts",
				"test/runTest.ts",
			},
		},
		Manifest: ManifestConfig{
			Path: "package.json",
			RequiredFields: []string{
				"name", "displayName", "description", "version",
				"publisher", "engines", "main", "contributes",
			},
			MinCommands: 5,
		},
		Compiler: CompilerConfig{
			Binary:         "tsc",
			VersionArgs:    []string{"--version"},
			CompileArgs:    []string{"--noEmit"},
			VersionTimeout: "10s",
			CompileTimeout: "30s",
		},
		Security: SecurityConfig{
			File: "src/utils/security.ts",
			Features: []string{
				"sanitizeInput",
				"validateFilePath",
				"encrypt",
				"decrypt",
				"generateSecureToken",
				"validateConfig",
				"createRateLimiter",
			},
			Algorithm:      "AES-256-GCM",
			SanitizeMarker: "sanitize",
		},
		Quality: QualityConfig{
			SourceDir: "src",
			Extension: ".ts",
			MinFiles:  5,
			EntryFile: "src/extension.ts",
			RequiredExports: []string{
				"export function activate",
				"export function deactivate",
			},
		},
		Docs: DocsConfig{
			Readme: "README.md",
			Sections: []string{
				"# DevBoost Pro",
				"## Features",
				"## Quick Start",
				"## Configuration",
				"## Security",
				"## Development",
			},
			MinLength: 5000,
		},
		Watch: WatchConfig{
			Debounce: "300ms",
			Ignore:   []string{"node_modules", ".git", "out", "dist", ".vscode-test"},
		},
		LogLevel: "info",
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/extcheck/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/extcheck/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "extcheck", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "extcheck", "config.yaml")
	}
	return filepath.Join(home, ".config", "extcheck", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// FindProjectConfig returns the project config file in dir, or "" if none.
// .yaml takes precedence over .yml, which takes precedence over .toml.
func FindProjectConfig(dir string) string {
	for _, name := range []string{ProjectConfigYAML, ProjectConfigYML, ProjectConfigTOML} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// LoadUserConfig loads the user configuration file on top of defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var parsed Config
	if err := decodeFile(configPath, &parsed); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return &parsed, nil
}

// LoadProjectConfig loads the project config file from dir.
// Returns nil config and nil error if dir has no config file.
func LoadProjectConfig(dir string) (*Config, error) {
	configPath := FindProjectConfig(dir)
	if configPath == "" {
		return nil, nil
	}

	var parsed Config
	if err := decodeFile(configPath, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Load loads configuration for the project in dir. The project config may
// not set compiler.binary, compiler.version_args or compiler.compile_args;
// those come from the user config or EXTCHECK_COMPILER only.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/extcheck/config.yaml)
//  3. Project config (.extcheck.yaml, .extcheck.yml or .extcheck.toml)
//  4. Environment variables (EXTCHECK_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg != nil {
		cfg.MergeWith(userCfg)
	}

	projectCfg, err := LoadProjectConfig(dir)
	if err != nil {
		return nil, err
	}
	if projectCfg != nil {
		projectCfg.dropCommand()
		cfg.MergeWith(projectCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// dropCommand clears the compiler command so a checked-out project cannot
// choose what extcheck executes. Timeouts are kept.
func (c *Config) dropCommand() {
	c.Compiler.Binary = ""
	c.Compiler.VersionArgs = nil
	c.Compiler.CompileArgs = nil
}

// decodeFile parses a YAML or TOML file into out, picked by extension.
func decodeFile(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), out); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// MergeWith merges non-zero values from other into c. Lists replace.
func (c *Config) MergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	mergeString(&c.Project.Name, other.Project.Name)

	mergeList(&c.Structure.RequiredFiles, other.Structure.RequiredFiles)

	mergeString(&c.Manifest.Path, other.Manifest.Path)
	mergeList(&c.Manifest.RequiredFields, other.Manifest.RequiredFields)
	mergeInt(&c.Manifest.MinCommands, other.Manifest.MinCommands)

	mergeString(&c.Compiler.Binary, other.Compiler.Binary)
	mergeList(&c.Compiler.VersionArgs, other.Compiler.VersionArgs)
	mergeList(&c.Compiler.CompileArgs, other.Compiler.CompileArgs)
	mergeString(&c.Compiler.VersionTimeout, other.Compiler.VersionTimeout)
	mergeString(&c.Compiler.CompileTimeout, other.Compiler.CompileTimeout)

	mergeString(&c.Security.File, other.Security.File)
	mergeList(&c.Security.Features, other.Security.Features)
	mergeString(&c.Security.Algorithm, other.Security.Algorithm)
	mergeString(&c.Security.SanitizeMarker, other.Security.SanitizeMarker)

	mergeString(&c.Quality.SourceDir, other.Quality.SourceDir)
	mergeString(&c.Quality.Extension, other.Quality.Extension)
	mergeInt(&c.Quality.MinFiles, other.Quality.MinFiles)
	mergeString(&c.Quality.EntryFile, other.Quality.EntryFile)
	mergeList(&c.Quality.RequiredExports, other.Quality.RequiredExports)

	mergeString(&c.Docs.Readme, other.Docs.Readme)
	mergeList(&c.Docs.Sections, other.Docs.Sections)
	mergeInt(&c.Docs.MinLength, other.Docs.MinLength)

	mergeString(&c.Watch.Debounce, other.Watch.Debounce)
	mergeList(&c.Watch.Ignore, other.Watch.Ignore)

	mergeString(&c.LogLevel, other.LogLevel)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeList(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = append([]string(nil), v...)
	}
}

// applyEnvOverrides applies EXTCHECK_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EXTCHECK_PROJECT_NAME"); v != "" {
		c.Project.Name = v
	}
	if v := os.Getenv("EXTCHECK_COMPILER"); v != "" {
		c.Compiler.Binary = v
	}
	if v := os.Getenv("EXTCHECK_VERSION_TIMEOUT"); v != "" {
		c.Compiler.VersionTimeout = normalizeTimeout(v)
	}
	if v := os.Getenv("EXTCHECK_COMPILE_TIMEOUT"); v != "" {
		c.Compiler.CompileTimeout = normalizeTimeout(v)
	}
	if v := os.Getenv("EXTCHECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// normalizeTimeout accepts bare integers as seconds.
func normalizeTimeout(v string) string {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return strconv.Itoa(n) + "s"
	}
	return v
}

// VersionTimeout returns the parsed compiler version probe timeout.
func (c *Config) VersionTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Compiler.VersionTimeout)
	return d
}

// CompileTimeout returns the parsed compile step timeout.
func (c *Config) CompileTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Compiler.CompileTimeout)
	return d
}

// WatchDebounce returns the parsed watch debounce window.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Structure.RequiredFiles) == 0 {
		return fmt.Errorf("structure.required_files must not be empty")
	}
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest.path must not be empty")
	}
	if c.Manifest.MinCommands < 0 {
		return fmt.Errorf("manifest.min_commands must be non-negative, got %d", c.Manifest.MinCommands)
	}
	if c.Compiler.Binary == "" {
		return fmt.Errorf("compiler.binary must not be empty")
	}
	if err := validateDuration("compiler.version_timeout", c.Compiler.VersionTimeout); err != nil {
		return err
	}
	if err := validateDuration("compiler.compile_timeout", c.Compiler.CompileTimeout); err != nil {
		return err
	}
	if c.Security.File == "" {
		return fmt.Errorf("security.file must not be empty")
	}
	if c.Quality.SourceDir == "" || c.Quality.EntryFile == "" {
		return fmt.Errorf("quality.source_dir and quality.entry_file must not be empty")
	}
	if c.Quality.Extension == "" {
		return fmt.Errorf("quality.extension must not be empty")
	}
	if c.Quality.MinFiles < 0 {
		return fmt.Errorf("quality.min_files must be non-negative, got %d", c.Quality.MinFiles)
	}
	if c.Docs.Readme == "" {
		return fmt.Errorf("docs.readme must not be empty")
	}
	if c.Docs.MinLength < 0 {
		return fmt.Errorf("docs.min_length must be non-negative, got %d", c.Docs.MinLength)
	}
	if err := validateDuration("watch.debounce", c.Watch.Debounce); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	return nil
}

func validateDuration(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a duration like \"30s\", got %q", key, value)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", key, value)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
