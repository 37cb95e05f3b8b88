// Package report renders validation results for humans and machines.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/mrafa3/journal-prompts/internal/prompts"
)

// Options controls rendering.
type Options struct {
	// Format is one of "text", "json" or "yaml". Empty means text.
	Format string
	// MaxErrors caps the record errors listed by the text format. Negative
	// means no cap.
	// Machine formats always list every error.
	MaxErrors int
	// Color enables ANSI colors in the text format.
	Color bool
}

// Write renders res to w in the requested format.
func Write(w io.Writer, res *prompts.Result, opts Options) error {
	switch opts.Format {
	case "", "text":
		return Text(w, res, opts)
	case "json":
		return JSON(w, res)
	case "yaml":
		return YAML(w, res)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

// document is the machine-readable shape shared by the JSON and YAML formats.
type document struct {
	Path       string                  `json:"path" yaml:"path"`
	Outcome    prompts.Outcome         `json:"outcome" yaml:"outcome"`
	Passed     bool                    `json:"passed" yaml:"passed"`
	Fatal      *fatal                  `json:"fatal,omitempty" yaml:"fatal,omitempty"`
	Total      int                     `json:"total" yaml:"total"`
	Unique     int                     `json:"unique" yaml:"unique"`
	MinPrompts int                     `json:"min_prompts" yaml:"min_prompts"`
	Categories []prompts.CategoryCount `json:"categories" yaml:"categories"`
	Errors     []prompts.RecordError   `json:"errors" yaml:"errors"`
}

type fatal struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

func newDocument(res *prompts.Result) document {
	doc := document{
		Path:       res.Path,
		Outcome:    res.Outcome(),
		Passed:     res.Passed(),
		Total:      res.Total,
		Unique:     res.Unique,
		MinPrompts: res.MinPrompts,
		Categories: res.Categories,
		Errors:     res.Errors,
	}
	if doc.Categories == nil {
		doc.Categories = []prompts.CategoryCount{}
	}
	if doc.Errors == nil {
		doc.Errors = []prompts.RecordError{}
	}
	if res.Fatal != nil {
		doc.Fatal = &fatal{Kind: fatalKind(res.Fatal), Message: res.Fatal.Error()}
	}
	return doc
}

func fatalKind(err error) string {
	switch {
	case errors.Is(err, prompts.ErrNotFound):
		return "not_found"
	case errors.Is(err, prompts.ErrParse):
		return "parse_error"
	case errors.Is(err, prompts.ErrMissingKey):
		return "missing_key"
	case errors.Is(err, prompts.ErrWrongType):
		return "wrong_type"
	default:
		return "unknown"
	}
}
