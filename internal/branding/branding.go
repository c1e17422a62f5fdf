// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is baked into the binary with //go:embed and overlaid on
// the hard defaults below, so a fork only has to edit that file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	EnvPrefix        string `yaml:"env_prefix"`
	LogPrefix        string `yaml:"log_prefix"`
	ManifestName     string `yaml:"manifest_name"`
	DefaultDirectory string `yaml:"default_directory"`
	ScriptPath       string `yaml:"script_path"`
	ConfigName       string `yaml:"config_name"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "package",
			DisplayName:      "Package",
			Description:      "Mini system package manager",
			EnvPrefix:        "PACKAGE",
			LogPrefix:        "PACKAGE:",
			ManifestName:     "PACKAGES",
			DefaultDirectory: "/etc/package",
			ScriptPath:       "package/package.sh",
			ConfigName:       "package",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "package").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the prefix of the driver's own environment variables.
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// LogPrefix returns the marker printed in front of every log line.
func LogPrefix() string { load(); return defaults.LogPrefix }

// ManifestName returns the manifest file name inside the package directory.
func ManifestName() string { load(); return defaults.ManifestName }

// DefaultDirectory returns the package directory used when PACKAGE_DIRECTORY is unset.
func DefaultDirectory() string { load(); return defaults.DefaultDirectory }

// ScriptPath returns the path of the shared package-logic script that every
// generated script sources.
func ScriptPath() string { load(); return defaults.ScriptPath }

// ConfigName returns the base name (without extension) of the optional config file.
func ConfigName() string { load(); return defaults.ConfigName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("shell") → "PACKAGE_SHELL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
