package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrafa3/journal-prompts/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Manage configuration",
		Long: `View or modify promptcheck configuration.

Without arguments, displays the effective configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value in the user config file.

Configuration is stored at ~/.config/promptcheck/config.yaml
Project-specific overrides can be placed in .promptcheck.yaml`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			switch len(args) {
			case 0:
				return displayAllConfig(out, cfg)
			case 1:
				value, err := config.Get(cfg, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			default:
				return setConfigKey(out, args[0], args[1])
			}
		},
	}
}

// displayAllConfig prints the effective configuration and where it came from.
func displayAllConfig(out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "# user config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Fprintf(out, "# project config: %s\n", project)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// setConfigKey updates one key in the user config file only, so project
// overrides are not copied into it.
func setConfigKey(out io.Writer, key, value string) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// loadUserConfig returns the user config file, or defaults when it does not exist yet.
func loadUserConfig() (*config.Config, error) {
	path := config.GetUserConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}
	return cfg, nil
}
