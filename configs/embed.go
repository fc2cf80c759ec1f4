// Package configs provides embedded configuration templates for extcheck.
//
// Templates are embedded at build time so `extcheck config init` works from
// any distribution (go install, release binaries).
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/extcheck/config.yaml)
//  3. Project config (.extcheck.yaml, .extcheck.yml or .extcheck.toml)
//  4. Environment variables (EXTCHECK_*)
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level configuration.
// Created by: `extcheck config init` at ~/.config/extcheck/config.yaml
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for project-level configuration.
// Created by: `extcheck config init --project` at .extcheck.yaml
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
