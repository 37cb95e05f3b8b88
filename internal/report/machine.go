package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mrafa3/journal-prompts/internal/prompts"
)

// JSON writes the report as an indented JSON object.
func JSON(w io.Writer, res *prompts.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(res)); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

// YAML writes the report as a YAML document.
func YAML(w io.Writer, res *prompts.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(res)); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return nil
}
