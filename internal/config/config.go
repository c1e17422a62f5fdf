package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/minipkg/minipkg/internal/branding"
	"github.com/minipkg/minipkg/internal/dispatch"
	"github.com/minipkg/minipkg/internal/interpreter"
	"github.com/minipkg/minipkg/internal/platform"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Keys understood by Load. The first three are exported to package scripts.
const (
	KeyDirectory   = "directory"
	KeyTarget      = "target"
	KeyRoot        = "root"
	KeyInterpreter = "interpreter"
	KeyShell       = "shell"
	KeyScript      = "script"
	KeyOnFailure   = "on_failure"
)

// Config holds the resolved settings.
type Config struct {
	PackageDirectory string `yaml:"directory" mapstructure:"directory"`
	Target           string `yaml:"target" mapstructure:"target"`
	Root             string `yaml:"root" mapstructure:"root"`
	Interpreter      string `yaml:"interpreter" mapstructure:"interpreter"`
	Shell            string `yaml:"shell" mapstructure:"shell"`
	Script           string `yaml:"script" mapstructure:"script"`
	OnFailure        string `yaml:"on_failure" mapstructure:"on_failure"`
	// File is the config file that was read, empty if none.
	File string `yaml:"-" mapstructure:"-"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDirectory, branding.DefaultDirectory())
	v.SetDefault(KeyTarget, platform.Machine())
	v.SetDefault(KeyRoot, "")
	v.SetDefault(KeyInterpreter, interpreter.InterpreterShell)
	v.SetDefault(KeyShell, interpreter.DefaultShell)
	v.SetDefault(KeyScript, branding.ScriptPath())
	v.SetDefault(KeyOnFailure, string(dispatch.FailureWarn))
}

// BindEnv maps the environment variables onto v. PACKAGE_DIRECTORY, TARGET
// and ROOT keep their historical names; the rest use the PACKAGE_ prefix.
func BindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		KeyDirectory:   branding.EnvVar("directory"),
		KeyTarget:      "TARGET",
		KeyRoot:        "ROOT",
		KeyInterpreter: branding.EnvVar(KeyInterpreter),
		KeyShell:       branding.EnvVar(KeyShell),
		KeyScript:      branding.EnvVar(KeyScript),
		KeyOnFailure:   branding.EnvVar(KeyOnFailure),
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// Load resolves the configuration from v. When file is empty the optional
// <directory>/package.yaml is read if it exists; an explicit file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if file == "" {
		candidate := filepath.Join(v.GetString(KeyDirectory), branding.ConfigName()+"."+fileType)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", file)
			}
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have a fixed set of values.
func (c *Config) Validate() error {
	if c.PackageDirectory == "" {
		return fmt.Errorf("package directory must not be empty")
	}
	if !slices.Contains(interpreter.Names, c.Interpreter) {
		return fmt.Errorf("unknown interpreter %q: expected one of %v", c.Interpreter, interpreter.Names)
	}
	if _, err := dispatch.ParseFailurePolicy(c.OnFailure); err != nil {
		return err
	}
	return nil
}

// ManifestPath returns <directory>/PACKAGES.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.PackageDirectory, branding.ManifestName())
}

// Environ returns the variables exported to package scripts, in KEY=value form.
func (c *Config) Environ() []string {
	return []string{
		branding.EnvVar("directory") + "=" + c.PackageDirectory,
		"TARGET=" + c.Target,
		"ROOT=" + c.Root,
	}
}

// FailurePolicy returns the parsed failure policy.
func (c *Config) FailurePolicy() dispatch.FailurePolicy {
	p, err := dispatch.ParseFailurePolicy(c.OnFailure)
	if err != nil {
		return dispatch.FailureWarn
	}
	return p
}

// InterpreterOptions builds the options shared by all interpreters.
func (c *Config) InterpreterOptions() interpreter.Options {
	return interpreter.Options{
		Shell:      c.Shell,
		ScriptPath: c.Script,
		Env:        c.Environ(),
	}
}
