package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mrafa3/journal-prompts/internal/prompts"
)

const defaultDebounce = 150 * time.Millisecond

// watcher re-validates a document every time it changes on disk.
type watcher struct {
	path     string
	validate func(path string) *prompts.Result
	render   func(*prompts.Result) error
	// status receives the re-validation banner. It must not be the report
	// stream when the report is JSON or YAML.
	status   io.Writer
	logger   zerolog.Logger
	debounce time.Duration
}

// Run validates once, then again after each burst of changes, until ctx is
// done. It returns the last result.
//
// The parent directory is watched rather than the file itself so editors
// that save by rename keep triggering events.
func (w *watcher) Run(ctx context.Context) (*prompts.Result, error) {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := w.debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	last := w.validate(w.path)
	if err := w.render(last); err != nil {
		return last, err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, nil

		case event, ok := <-fw.Events:
			if !ok {
				return last, nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug().Str("path", abs).Str("op", event.Op.String()).Msg("change detected")
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return last, nil
			}
			w.logger.Debug().Err(err).Msg("watcher error")

		case <-timer.C:
			fmt.Fprintf(w.status, "\n--- %s changed, re-validating ---\n\n", w.path)
			last = w.validate(w.path)
			if err := w.render(last); err != nil {
				return last, err
			}
		}
	}
}
