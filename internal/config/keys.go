package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys lists every dot-notation key understood by Get and Set, in display order.
var Keys = []string{
	"validation.file",
	"validation.min_prompts",
	"validation.max_errors_shown",
	"validation.preview_length",
	"output.format",
	"output.color",
	"log.level",
	"log.file",
}

// Get retrieves a configuration value by dot-notation key.
func Get(cfg *Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "validation.file":
		return cfg.Validation.File, nil
	case "validation.min_prompts":
		return strconv.Itoa(cfg.Validation.MinPrompts), nil
	case "validation.max_errors_shown":
		return strconv.Itoa(cfg.Validation.MaxErrorsShown), nil
	case "validation.preview_length":
		return strconv.Itoa(cfg.Validation.PreviewLength), nil
	case "output.format":
		return cfg.Output.Format, nil
	case "output.color":
		return strconv.FormatBool(cfg.Output.Color), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.file":
		return cfg.Log.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set updates a configuration value by dot-notation key. The result is
// checked with Validate so an invalid value never reaches Save.
func Set(cfg *Config, key, value string) error {
	updated := *cfg

	switch strings.ToLower(key) {
	case "validation.file":
		updated.Validation.File = value
	case "validation.min_prompts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for validation.min_prompts: %w", err)
		}
		updated.Validation.MinPrompts = n
	case "validation.max_errors_shown":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for validation.max_errors_shown: %w", err)
		}
		updated.Validation.MaxErrorsShown = n
	case "validation.preview_length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for validation.preview_length: %w", err)
		}
		updated.Validation.PreviewLength = n
	case "output.format":
		updated.Output.Format = strings.ToLower(value)
	case "output.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for output.color: %w", err)
		}
		updated.Output.Color = b
	case "log.level":
		updated.Log.Level = value
	case "log.file":
		updated.Log.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}
