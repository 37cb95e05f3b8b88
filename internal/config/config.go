// Package config handles configuration loading for promptcheck.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultFile is the document validated when no path is given.
	DefaultFile = "journaling-prompts.json"
	// DefaultMinPrompts is the record count below which a warning is printed.
	DefaultMinPrompts = 365
	// DefaultMaxErrorsShown caps the record errors printed in the text report.
	// A negative cap prints every error.
	DefaultMaxErrorsShown = 10
	// DefaultPreviewLength is how many characters of a duplicate prompt are quoted.
	DefaultPreviewLength = 50

	projectConfigName = ".promptcheck.yaml"
	envPrefix         = "PROMPTCHECK"
)

// Formats lists the accepted values of output.format.
var Formats = []string{"text", "json", "yaml"}

// Config holds all configuration for promptcheck.
type Config struct {
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// ValidationConfig holds the thresholds applied to a prompts document.
type ValidationConfig struct {
	File           string `mapstructure:"file" yaml:"file"`
	MinPrompts     int    `mapstructure:"min_prompts" yaml:"min_prompts"`
	MaxErrorsShown int    `mapstructure:"max_errors_shown" yaml:"max_errors_shown"`
	PreviewLength  int    `mapstructure:"preview_length" yaml:"preview_length"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" yaml:"color"`
}

// LogConfig holds debug log settings. An empty File disables logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PROMPTCHECK_VALIDATION_MIN_PROMPTS, ...)
// 2. Project config (.promptcheck.yaml in current directory or parent)
// 3. User config (~/.config/promptcheck/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file, still honoring
// environment overrides. Used by --config and tests.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(GetUserConfigPath())

	v.Set("validation.file", cfg.Validation.File)
	v.Set("validation.min_prompts", cfg.Validation.MinPrompts)
	v.Set("validation.max_errors_shown", cfg.Validation.MaxErrorsShown)
	v.Set("validation.preview_length", cfg.Validation.PreviewLength)
	v.Set("output.format", cfg.Output.Format)
	v.Set("output.color", cfg.Output.Color)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Validate reports the first setting that cannot drive a validation run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Validation.File) == "" {
		return errors.New("validation.file must not be empty")
	}
	if c.Validation.MinPrompts < 0 {
		return fmt.Errorf("validation.min_prompts must be >= 0, got %d", c.Validation.MinPrompts)
	}
	if c.Validation.PreviewLength <= 0 {
		return fmt.Errorf("validation.preview_length must be > 0, got %d", c.Validation.PreviewLength)
	}
	if !isFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	return nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			File:           DefaultFile,
			MinPrompts:     DefaultMinPrompts,
			MaxErrorsShown: DefaultMaxErrorsShown,
			PreviewLength:  DefaultPreviewLength,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level: "debug",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Validation.File = os.ExpandEnv(cfg.Validation.File)
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("validation.file", d.Validation.File)
	v.SetDefault("validation.min_prompts", d.Validation.MinPrompts)
	v.SetDefault("validation.max_errors_shown", d.Validation.MaxErrorsShown)
	v.SetDefault("validation.preview_length", d.Validation.PreviewLength)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// getUserConfigDir returns the XDG config directory for promptcheck.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "promptcheck")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "promptcheck")
	}
	return filepath.Join(home, ".config", "promptcheck")
}

// findProjectConfig searches for .promptcheck.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

func isFormat(s string) bool {
	for _, f := range Formats {
		if f == s {
			return true
		}
	}
	return false
}
