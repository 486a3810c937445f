// Package system provides infrastructure for system-level configuration.
// This covers the dispatcher settings read from config.yaml and AUTHME_*
// environment variables.
package system

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. AUTHME_MAIN_COMMAND.
const EnvPrefix = "AUTHME"

// CurrentVersion is the config format written by this build.
const CurrentVersion = "1.0.0"

// SupportedVersions is the range of config formats this build reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Config represents the dispatcher configuration file.
type Config struct {
	Version     string            `mapstructure:"version" yaml:"version"`
	PluginName  string            `mapstructure:"plugin_name" yaml:"plugin_name"`
	MainCommand string            `mapstructure:"main_command" yaml:"main_command"`
	Permissions PermissionsConfig `mapstructure:"permissions" yaml:"permissions"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Dispatch    DispatchConfig    `mapstructure:"dispatch" yaml:"dispatch"`
	Audit       AuditConfig       `mapstructure:"audit" yaml:"audit"`
}

// DispatchConfig tunes how invocations are resolved.
type DispatchConfig struct {
	// SuggestionThreshold is the label difference below which
	// "Did you mean" hints are shown.
	SuggestionThreshold float64 `mapstructure:"suggestion_threshold" yaml:"suggestion_threshold"`
}

// PermissionsConfig locates the permissions document.
type PermissionsConfig struct {
	// File is resolved against the config file's directory when relative.
	File string `mapstructure:"file" yaml:"file"`
	// ReloadInterval enables polling the file for changes; 0 disables it.
	ReloadInterval time.Duration `mapstructure:"reload_interval" yaml:"reload_interval"`
}

// AuditConfig configures the dispatch history.
type AuditConfig struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// LoggingConfig configures the log level.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Version:     CurrentVersion,
		PluginName:  "AuthMe",
		MainCommand: "authme",
		Dispatch: DispatchConfig{
			SuggestionThreshold: command.SuggestionThreshold,
		},
		Permissions: PermissionsConfig{
			File: "permissions.yaml",
		},
		Audit: AuditConfig{
			Capacity: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the DefaultConfig values on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("plugin_name", d.PluginName)
	v.SetDefault("main_command", d.MainCommand)
	v.SetDefault("dispatch.suggestion_threshold", d.Dispatch.SuggestionThreshold)
	v.SetDefault("permissions.file", d.Permissions.File)
	v.SetDefault("permissions.reload_interval", d.Permissions.ReloadInterval)
	v.SetDefault("audit.capacity", d.Audit.Capacity)
	v.SetDefault("logging.level", d.Logging.Level)
}

// ConfigLoader loads configuration from disk and the environment.
type ConfigLoader struct{}

// NewConfigLoader creates a new config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// Load reads the config at path, applies AUTHME_* overrides and validates the
// result. A missing file, or an empty path, yields the defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, apperrors.NewConfigurationError("file", "failed to read "+path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewConfigurationError("file", "failed to stat "+path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v. A relative
// permissions file is resolved against the directory of v's config file.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigurationError("decode", "failed to decode config", err)
	}
	if used := v.ConfigFileUsed(); used != "" && cfg.Permissions.File != "" && !filepath.IsAbs(cfg.Permissions.File) {
		cfg.Permissions.File = filepath.Join(filepath.Dir(used), cfg.Permissions.File)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the version and value ranges.
func (c *Config) Validate() error {
	version, err := semver.NewVersion(c.Version)
	if err != nil {
		return apperrors.NewConfigurationError("version", fmt.Sprintf("invalid config version %q", c.Version), err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return apperrors.NewConfigurationError("version", "invalid supported range", err)
	}
	if !constraint.Check(version) {
		return apperrors.NewConfigurationError("version",
			fmt.Sprintf("config version %s is not supported (want %s)", version, SupportedVersions), nil)
	}

	threshold := c.Dispatch.SuggestionThreshold
	if threshold <= 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return apperrors.NewConfigurationError("dispatch.suggestion_threshold",
			fmt.Sprintf("must be a positive number, got %v", threshold), nil)
	}

	if c.MainCommand == "" || strings.ContainsAny(c.MainCommand, " \t/") {
		return apperrors.NewConfigurationError("main_command",
			fmt.Sprintf("must be a single label without slashes, got %q", c.MainCommand), nil)
	}
	if c.PluginName == "" {
		return apperrors.NewConfigurationError("plugin_name", "must not be empty", nil)
	}
	if c.Audit.Capacity < 0 {
		return apperrors.NewConfigurationError("audit.capacity", "must not be negative", nil)
	}
	if c.Permissions.ReloadInterval < 0 {
		return apperrors.NewConfigurationError("permissions.reload_interval", "must not be negative", nil)
	}
	if _, err := c.LogLevel(); err != nil {
		return apperrors.NewConfigurationError("logging.level", err.Error(), err)
	}
	return nil
}

// LogLevel parses Logging.Level; an empty level is info.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Logging.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return level, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
