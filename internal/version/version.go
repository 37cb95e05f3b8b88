// Package version exposes the promptcheck release string.
package version

import (
	_ "embed"
	"fmt"
	"strings"
)

// Program is the binary name used in version output.
const Program = "promptcheck"

//go:embed VERSION
var raw string

// Get returns the embedded version, or "dev" when the VERSION file is blank.
func Get() string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "dev"
	}
	return v
}

// String formats the line printed by `promptcheck version`.
func String() string {
	return fmt.Sprintf("%s version %s", Program, Get())
}
