package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrafa3/journal-prompts/internal/config"
	"github.com/mrafa3/journal-prompts/internal/logging"
	"github.com/mrafa3/journal-prompts/internal/prompts"
	"github.com/mrafa3/journal-prompts/internal/report"
)

// errValidationFailed signals exit status 1 after the report has already
// been printed.
var errValidationFailed = errors.New("validation failed")

type rootOptions struct {
	configPath string
	minPrompts int
	maxErrors  int
	format     string
	noColor    bool
	watch      bool
	debugLog   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "promptcheck [file]",
		Short: "Validate a journaling prompts document",
		Long: `promptcheck validates a journaling prompts JSON document.

The document must be an object whose "prompts" key holds an array of
records, each with a non-empty "prompt" and "category" string. Prompts
must be unique once surrounding whitespace is removed.

The file argument is optional and defaults to journaling-prompts.json
(or validation.file from the configuration).

Exit status is 0 when no errors were found, even if the document holds
fewer prompts than the configured target, and 1 otherwise.

Examples:
  promptcheck                          # Validate ./journaling-prompts.json
  promptcheck data/prompts.json        # Validate a specific file
  promptcheck --format json            # Machine-readable report
  promptcheck --watch                  # Re-validate on every save`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Load configuration from this file instead of the default locations")
	cmd.Flags().IntVar(&opts.minPrompts, "min-prompts", config.DefaultMinPrompts, "Warn when the document holds fewer prompts than this")
	cmd.Flags().IntVar(&opts.maxErrors, "max-errors", config.DefaultMaxErrorsShown, "Maximum record errors listed in the text report (-1 for all)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Report format: text, json or yaml")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-validate whenever the file changes")
	cmd.Flags().StringVar(&opts.debugLog, "debug-log", "", "Write debug events to this file")

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string, opts *rootOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)
	if len(args) > 0 {
		cfg.Validation.File = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	validator := prompts.NewValidator(prompts.Options{
		MinPrompts:    cfg.Validation.MinPrompts,
		PreviewLength: cfg.Validation.PreviewLength,
	}, logger)

	reportOpts := report.Options{
		Format:    cfg.Output.Format,
		MaxErrors: cfg.Validation.MaxErrorsShown,
		Color:     cfg.Output.Color,
	}
	out := cmd.OutOrStdout()
	render := func(res *prompts.Result) error {
		return report.Write(out, res, reportOpts)
	}

	var res *prompts.Result
	if opts.watch {
		w := &watcher{
			path:     cfg.Validation.File,
			validate: validator.Validate,
			render:   render,
			status:   statusWriter(cmd, cfg.Output.Format),
			logger:   logger,
		}
		res, err = w.Run(cmd.Context())
		if err != nil {
			return err
		}
	} else {
		res = validator.Validate(cfg.Validation.File)
		if err := render(res); err != nil {
			return err
		}
	}

	if res == nil || !res.Passed() {
		return errValidationFailed
	}
	return nil
}

// statusWriter picks the stream for progress messages. Machine-readable
// reports keep stdout to themselves.
func statusWriter(cmd *cobra.Command, format string) io.Writer {
	if format == "" || format == "text" {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

// loadConfig reads the explicit --config file when given, otherwise the
// user and project configuration.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyFlags lets explicitly set flags win over configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("min-prompts") {
		cfg.Validation.MinPrompts = opts.minPrompts
	}
	if flags.Changed("max-errors") {
		cfg.Validation.MaxErrorsShown = opts.maxErrors
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if opts.noColor {
		cfg.Output.Color = false
	}
	if flags.Changed("debug-log") {
		cfg.Log.File = opts.debugLog
	}
}
