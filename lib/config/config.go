// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/probe"
	"github.com/carryall-dev/carryall/lib/resolver"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "CARRYALL_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the complete carryall configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// Packaged forces packaged or development resolution. Nil means
	// packaged unless Environment is development.
	Packaged *bool `yaml:"packaged,omitempty"`

	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Probe    ProbeConfig    `yaml:"probe"`
	Resolver ResolverConfig `yaml:"resolver"`
	Launch   LaunchConfig   `yaml:"launch"`

	// Dependencies replaces the built-in dependency table when set.
	Dependencies []bundle.Dependency `yaml:"dependencies,omitempty"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	Packaged *bool           `yaml:"packaged,omitempty"`
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Logging  *LoggingConfig  `yaml:"logging,omitempty"`
	Probe    *ProbeConfig    `yaml:"probe,omitempty"`
	Resolver *ResolverConfig `yaml:"resolver,omitempty"`
	Launch   *LaunchConfig   `yaml:"launch,omitempty"`
}

// PathsConfig locates the installed bundle and the log file.
type PathsConfig struct {
	// Resources is the application resources directory, the root
	// under which the unpacked archive directory lives.
	Resources string `yaml:"resources"`

	// Unpacked is the directory name under Resources holding files
	// extracted from the application archive.
	// Default: app.asar.unpacked
	Unpacked string `yaml:"unpacked"`

	// LogFile, if set, receives a JSON copy of every log record.
	LogFile string `yaml:"log_file"`
}

// LoggingConfig sets the log level: debug, info, warn, or error.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ProbeConfig configures liveness probes.
type ProbeConfig struct {
	// Timeout is a Go duration string. Default: 5s
	Timeout string `yaml:"timeout"`
}

// ResolverConfig configures executable resolution.
type ResolverConfig struct {
	// MinimumBinarySize is the size in bytes below which a bundle file
	// is inspected for the placeholder signature. Default: 1024
	MinimumBinarySize int64 `yaml:"minimum_binary_size"`

	// Memoize caches resolutions for the life of the process.
	Memoize bool `yaml:"memoize"`

	// CacheSize bounds the memoization cache. Default: 64
	CacheSize int `yaml:"cache_size"`
}

// LaunchConfig configures the SDK launch options.
type LaunchConfig struct {
	// Runtimes is the runtime preference order. Default: [bun]
	Runtimes []string `yaml:"runtimes"`

	// EnvFile is an optional dotenv file merged into the child
	// environment.
	EnvFile string `yaml:"env_file"`
}

// Default returns the development configuration used as the base for
// every load.
func Default() *Config {
	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Resources: defaultResources(),
			Unpacked:  bundle.DefaultUnpacked,
		},
		Logging: LoggingConfig{Level: "info"},
		Probe:   ProbeConfig{Timeout: probe.DefaultTimeout.String()},
		Resolver: ResolverConfig{
			MinimumBinarySize: resolver.DefaultMinimumBinarySize,
			CacheSize:         64,
		},
		Launch: LaunchConfig{Runtimes: []string{"bun"}},
	}
}

// defaultResources follows the desktop application layout: resources
// sit beside the executable, or in Contents/Resources on macOS.
func defaultResources() string {
	executable, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Dir(executable)
	if runtime.GOOS == "darwin" {
		return filepath.Join(dir, "..", "Resources")
	}
	return filepath.Join(dir, "resources")
}

// Load loads the file named by CARRYALL_CONFIG, or returns the
// defaults when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		cfg := Default()
		cfg.applyEnvironmentOverrides()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path. The file must exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// IsPackaged reports whether bundle resolution is enabled.
func (c *Config) IsPackaged() bool {
	if c.Packaged != nil {
		return *c.Packaged
	}
	return c.Environment != Development
}

// Layout returns the bundle layout described by Paths.
func (c *Config) Layout() bundle.Layout {
	return bundle.Layout{ResourcesRoot: c.Paths.Resources, Unpacked: c.Paths.Unpacked}
}

// Table returns the configured dependency table, or the built-in one
// when the file lists none.
func (c *Config) Table() (*bundle.Table, error) {
	if len(c.Dependencies) == 0 {
		return bundle.Default(), nil
	}
	table, err := bundle.NewTable(c.Dependencies...)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	return table, nil
}

// ProbeTimeout parses Probe.Timeout. Call Validate first.
func (c *Config) ProbeTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Probe.Timeout)
	if err != nil || timeout <= 0 {
		return probe.DefaultTimeout
	}
	return timeout
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Packaged != nil {
		c.Packaged = overrides.Packaged
	}
	if overrides.Paths != nil {
		if overrides.Paths.Resources != "" {
			c.Paths.Resources = overrides.Paths.Resources
		}
		if overrides.Paths.Unpacked != "" {
			c.Paths.Unpacked = overrides.Paths.Unpacked
		}
		if overrides.Paths.LogFile != "" {
			c.Paths.LogFile = overrides.Paths.LogFile
		}
	}
	if overrides.Logging != nil && overrides.Logging.Level != "" {
		c.Logging.Level = overrides.Logging.Level
	}
	if overrides.Probe != nil && overrides.Probe.Timeout != "" {
		c.Probe.Timeout = overrides.Probe.Timeout
	}
	if overrides.Resolver != nil {
		if overrides.Resolver.MinimumBinarySize != 0 {
			c.Resolver.MinimumBinarySize = overrides.Resolver.MinimumBinarySize
		}
		if overrides.Resolver.CacheSize != 0 {
			c.Resolver.CacheSize = overrides.Resolver.CacheSize
		}
		// Memoize is a bool, so a present section always applies it.
		c.Resolver.Memoize = overrides.Resolver.Memoize
	}
	if overrides.Launch != nil {
		if len(overrides.Launch.Runtimes) > 0 {
			c.Launch.Runtimes = overrides.Launch.Runtimes
		}
		if overrides.Launch.EnvFile != "" {
			c.Launch.EnvFile = overrides.Launch.EnvFile
		}
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.Resources = expandVars(c.Paths.Resources, vars)
	vars["CARRYALL_RESOURCES"] = c.Paths.Resources

	c.Paths.LogFile = expandVars(c.Paths.LogFile, vars)
	c.Launch.EnvFile = expandVars(c.Launch.EnvFile, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		// Provided vars first, then the process environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.IsPackaged() && c.Paths.Resources == "" {
		errs = append(errs, errors.New("paths.resources is required for packaged builds"))
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", logLevels))
	}
	if timeout, err := time.ParseDuration(c.Probe.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("probe.timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout))
	}
	if c.Resolver.MinimumBinarySize < 0 {
		errs = append(errs, errors.New("resolver.minimum_binary_size must not be negative"))
	}
	if c.Resolver.Memoize && c.Resolver.CacheSize <= 0 {
		errs = append(errs, errors.New("resolver.cache_size must be positive when memoize is set"))
	}

	table, err := c.Table()
	if err != nil {
		errs = append(errs, err)
	} else {
		if len(c.Launch.Runtimes) == 0 {
			errs = append(errs, errors.New("launch.runtimes must name at least one dependency"))
		}
		for _, name := range c.Launch.Runtimes {
			if _, ok := table.Lookup(name); !ok {
				errs = append(errs, fmt.Errorf("launch.runtimes: %q is not a known dependency", name))
			}
		}
	}

	return errors.Join(errs...)
}
