package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devboost-pro/extcheck/configs"
	"github.com/devboost-pro/extcheck/internal/config"
	"github.com/devboost-pro/extcheck/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage extcheck configuration",
		Long: `Manage the layered extcheck configuration.

Every expected file, manifest field, README section and threshold of the
checklist is a configurable default.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/extcheck/config.yaml)
  3. Project config (.extcheck.yaml, .extcheck.yml or .extcheck.toml)
  4. Environment variables (EXTCHECK_*)`,
		Example: `  # Create user config from template
  extcheck config init

  # Create a project config in the extension root
  extcheck config init --project --dir ./devboost-pro

  # Show effective configuration (merged from all sources)
  extcheck config show`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
		full    bool
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Create the user configuration file, or with --project the project
config .extcheck.yaml, from a commented template.

With --full the file lists every setting at its current effective value
instead of the commented template.

An existing file is left alone unless --force is given, in which case it is
backed up first (the newest 3 backups are kept).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, template := config.GetUserConfigPath(), configs.UserConfigTemplate
			if project {
				path, template = filepath.Join(dir, config.ProjectConfigYAML), configs.ProjectConfigTemplate
			}

			write := func(p string) error { return os.WriteFile(p, []byte(template), 0o644) }
			if full {
				cfg, err := config.Load(dir)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				write = cfg.WriteYAML
			}
			return writeConfigFile(cmd, path, force, write)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration (a backup is kept)")
	cmd.Flags().BoolVar(&project, "project", false, "Create the project config instead of the user config")
	cmd.Flags().BoolVar(&full, "full", false, "Write every effective setting instead of the template")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root for --project and --full")

	return cmd
}

func writeConfigFile(cmd *cobra.Command, path string, force bool, write func(string) error) error {
	out := output.New(cmd.OutOrStdout())

	var backupPath string
	if _, err := os.Stat(path); err == nil {
		if !force {
			out.Warning("Configuration already exists")
			out.Statusf("📁", "Location: %s", path)
			out.Newline()
			out.Status("💡", "Use --force to replace it with the template (a backup is kept)")
			return nil
		}
		backupPath, err = config.BackupFile(path)
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", filepath.Dir(path), err)
	}
	if err := write(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", path)
	if backupPath != "" {
		out.Statusf("💾", "Backup: %s", backupPath)
	}
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the settings you want to change")
	out.Status("", "  2. Run 'extcheck config show' to verify")

	return nil
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging all sources, or a single source
with --source (merged, defaults, user, project).`,
		Example: `  extcheck config show
  extcheck config show --json
  extcheck config show --source project --dir ./devboost-pro`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, dir, source, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, defaults, user, project")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root")

	return cmd
}

func runConfigShow(cmd *cobra.Command, dir, source string, jsonOutput bool) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg        *config.Config
		sourceDesc string
		err        error
	)

	switch source {
	case "merged":
		cfg, err = config.Load(dir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		sourceDesc = "merged (defaults + user + project + env)"

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	case "user":
		cfg, err = config.LoadUserConfig()
		if err != nil {
			return err
		}
		if cfg == nil {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", config.GetUserConfigPath())
			out.Status("💡", "Run 'extcheck config init' to create one")
			return nil
		}
		sourceDesc = fmt.Sprintf("user (%s)", config.GetUserConfigPath())

	case "project":
		cfg, err = config.LoadProjectConfig(dir)
		if err != nil {
			return err
		}
		if cfg == nil {
			out.Warning("No project configuration file found")
			out.Statusf("📁", "Expected at: %s", filepath.Join(dir, config.ProjectConfigYAML))
			out.Status("💡", "Run 'extcheck config init --project' to create one")
			return nil
		}
		sourceDesc = fmt.Sprintf("project (%s)", config.FindProjectConfig(dir))

	default:
		return fmt.Errorf("invalid source: %s (use: merged, defaults, user, project)", source)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

func newConfigPathCmd() *cobra.Command {
	var (
		project bool
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Long: `Print the user config file path, or with --project the project config
in use (or where it would be created).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if project {
				path = config.FindProjectConfig(dir)
				if path == "" {
					path = filepath.Join(dir, config.ProjectConfigYAML)
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Print the project config path")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root for --project")

	return cmd
}
