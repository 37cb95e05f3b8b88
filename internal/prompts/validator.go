// Package prompts validates journaling-prompt documents.
//
// A document is a JSON object whose "prompts" key holds an array of records.
// Every record needs a non-empty "prompt" and "category" string; prompts must
// be unique once surrounding whitespace is removed. Structural problems stop
// validation immediately, record problems are collected so one run surfaces
// all of them.
package prompts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	fieldPrompts  = "prompts"
	fieldPrompt   = "prompt"
	fieldCategory = "category"
)

// Options tunes a Validator.
type Options struct {
	// MinPrompts is the record count under which a run is flagged below target.
	MinPrompts int
	// PreviewLength is how many characters of a duplicate prompt are quoted.
	PreviewLength int
}

const (
	defaultMinPrompts    = 365
	defaultPreviewLength = 50
)

// Validator checks prompt documents. It holds no per-run state and is safe
// to reuse.
type Validator struct {
	opts   Options
	logger zerolog.Logger
}

// NewValidator creates a Validator. Negative MinPrompts and non-positive
// PreviewLength are replaced with defaults.
func NewValidator(opts Options, logger zerolog.Logger) *Validator {
	if opts.MinPrompts < 0 {
		opts.MinPrompts = defaultMinPrompts
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = defaultPreviewLength
	}
	return &Validator{opts: opts, logger: logger}
}

// Validate reads the document at path and checks it.
func (v *Validator) Validate(path string) *Result {
	data, err := readDocument(path)
	if err != nil {
		v.logger.Debug().Err(err).Str("path", path).Msg("document unreadable")
		return &Result{Path: path, Fatal: err, MinPrompts: v.opts.MinPrompts}
	}
	return v.ValidateBytes(path, data)
}

// ValidateBytes checks an in-memory document. name is used for reporting only.
func (v *Validator) ValidateBytes(name string, data []byte) *Result {
	res := &Result{Path: name, MinPrompts: v.opts.MinPrompts}

	records, err := decodeRecords(data)
	if err != nil {
		v.logger.Debug().Err(err).Str("path", name).Msg("document rejected")
		res.Fatal = err
		return res
	}
	v.logger.Debug().Str("path", name).Int("records", len(records)).Msg("document loaded")

	seen := make(map[string]struct{}, len(records))
	counts := make(map[string]int)
	var order []string

	for i, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			res.Errors = append(res.Errors, notAnObject(i))
			continue
		}

		text, problem := stringField(rec, fieldPrompt, i)
		if problem != nil {
			res.Errors = append(res.Errors, *problem)
		} else {
			if _, dup := seen[text]; dup {
				res.Errors = append(res.Errors, duplicatePrompt(i, preview(text, v.opts.PreviewLength)))
			}
			seen[text] = struct{}{}
		}

		category, problem := stringField(rec, fieldCategory, i)
		if problem != nil {
			res.Errors = append(res.Errors, *problem)
		} else {
			if _, known := counts[category]; !known {
				order = append(order, category)
			}
			counts[category]++
		}
	}

	res.Total = len(records)
	res.Unique = len(seen)
	res.Categories = distribution(order, counts)

	for _, e := range res.Errors {
		v.logger.Debug().Int("index", e.Index).Str("kind", string(e.Kind)).Msg(e.Message)
	}
	v.logger.Debug().
		Int("total", res.Total).
		Int("unique", res.Unique).
		Int("errors", len(res.Errors)).
		Str("outcome", string(res.Outcome())).
		Msg("validation finished")

	return res
}

// readDocument loads the whole file. Anything that keeps the path from
// being read as a regular file is reported as ErrNotFound.
func readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	return data, nil
}

// decodeRecords parses data and returns the raw elements of its prompts array.
func decodeRecords(data []byte) ([]any, error) {
	if i := invalidUTF8(data); i >= 0 {
		line, col := position(data, i)
		return nil, fmt.Errorf("%w: line %d, column %d: invalid UTF-8 at byte %d", ErrParse, line, col, i)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, parseError(data, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrMissingKey
	}
	raw, ok := obj[fieldPrompts]
	if !ok {
		return nil, ErrMissingKey
	}
	records, ok := raw.([]any)
	if !ok {
		return nil, ErrWrongType
	}
	return records, nil
}

// invalidUTF8 returns the index of the first byte that is not valid UTF-8,
// or -1. The decoder would otherwise turn such bytes into U+FFFD.
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// parseError wraps a decoder error with ErrParse, adding a line and column
// for syntax errors.
func parseError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) || syntaxErr.Offset < 0 || syntaxErr.Offset > int64(len(data)) {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	// Offset counts the bytes read including the offending one. At end of
	// input nothing offending was read, so it already points past the last byte.
	i := int(syntaxErr.Offset)
	if i > 0 && !isUnexpectedEOF(syntaxErr, data) {
		i--
	}

	line, col := position(data, i)
	return fmt.Errorf("%w: line %d, column %d: %v", ErrParse, line, col, err)
}

func isUnexpectedEOF(err *json.SyntaxError, data []byte) bool {
	return err.Offset == int64(len(data)) && strings.Contains(err.Error(), "unexpected end of JSON input")
}

// position converts a 0-based byte index into a 1-based line and column.
func position(data []byte, i int) (line, col int) {
	head := data[:i]
	line = bytes.Count(head, []byte("\n")) + 1
	col = i - bytes.LastIndexByte(head, '\n')
	return line, col
}

// stringField returns the trimmed value of a required string field.
func stringField(rec map[string]any, field string, i int) (string, *RecordError) {
	raw, ok := rec[field]
	if !ok {
		e := missingField(i, field)
		return "", &e
	}

	s, ok := raw.(string)
	if ok {
		s = strings.TrimSpace(s)
	}
	if !ok || s == "" {
		e := wrongFieldType(i, field)
		return "", &e
	}
	return s, nil
}

// preview returns at most n characters of s.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// distribution orders categories by descending count. Ties keep the order in
// which categories were first seen.
func distribution(order []string, counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, len(order))
	for i, name := range order {
		out[i] = CategoryCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})
	return out
}
