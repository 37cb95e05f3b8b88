package prompts

import (
	"errors"
	"fmt"
)

// Structural failures. Each one stops validation before any record is inspected.
var (
	ErrNotFound   = errors.New("file not found")
	ErrParse      = errors.New("invalid JSON")
	ErrMissingKey = errors.New("missing 'prompts' key")
	ErrWrongType  = errors.New("'prompts' must be an array")
)

// ErrorKind classifies a record-level problem.
type ErrorKind string

const (
	KindNotAnObject     ErrorKind = "not_an_object"
	KindMissingField    ErrorKind = "missing_field"
	KindWrongFieldType  ErrorKind = "wrong_field_type"
	KindDuplicatePrompt ErrorKind = "duplicate_prompt"
)

// RecordError describes one problem found in the record at Index.
// Field is empty for KindNotAnObject.
type RecordError struct {
	Index   int       `json:"index" yaml:"index"`
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Field   string    `json:"field,omitempty" yaml:"field,omitempty"`
	Message string    `json:"message" yaml:"message"`
}

func (e RecordError) Error() string {
	return e.Message
}

func notAnObject(i int) RecordError {
	return RecordError{
		Index:   i,
		Kind:    KindNotAnObject,
		Message: fmt.Sprintf("Record %d: not an object", i),
	}
}

func missingField(i int, field string) RecordError {
	return RecordError{
		Index:   i,
		Kind:    KindMissingField,
		Field:   field,
		Message: fmt.Sprintf("Record %d: missing '%s' field", i, field),
	}
}

func wrongFieldType(i int, field string) RecordError {
	return RecordError{
		Index:   i,
		Kind:    KindWrongFieldType,
		Field:   field,
		Message: fmt.Sprintf("Record %d: '%s' must be a non-empty string", i, field),
	}
}

func duplicatePrompt(i int, preview string) RecordError {
	return RecordError{
		Index:   i,
		Kind:    KindDuplicatePrompt,
		Field:   fieldPrompt,
		Message: fmt.Sprintf("Record %d: duplicate prompt: '%s...'", i, preview),
	}
}
