package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points config lookup at empty temp dirs and returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// execute runs the root command and maps the result to an exit status the
// same way Execute does.
func execute(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		return out.String(), 1, err
	}
	return out.String(), 0, nil
}

func TestRoot_DefaultFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "journaling-prompts.json"),
		`{"prompts": [{"prompt": "A", "category": "x"}]}`)

	out, code, err := execute(t, "--no-color")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%v)\n%s", code, err, out)
	}
	if !strings.Contains(out, "Total prompts: 1") {
		t.Errorf("expected summary, got:\n%s", out)
	}
	if !strings.Contains(out, "Warning: Only 1 prompts (target: 365)") {
		t.Errorf("expected below-target warning, got:\n%s", out)
	}
}

func TestRoot_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "duplicate prompt fails",
			content:  `{"prompts": [{"prompt": "A", "category": "x"}, {"prompt": "A", "category": "y"}]}`,
			wantCode: 1,
			wantOut:  "Record 1: duplicate prompt: 'A...'",
		},
		{
			name:     "empty list warns but passes",
			content:  `{"prompts": []}`,
			wantCode: 0,
			wantOut:  "Warning: Only 0 prompts (target: 365)",
		},
		{
			name:     "missing key fails",
			content:  `{"entries": []}`,
			wantCode: 1,
			wantOut:  "Error: missing 'prompts' key",
		},
		{
			name:     "malformed json fails",
			content:  `{"prompts": [}`,
			wantCode: 1,
			wantOut:  "Error: invalid JSON: ",
		},
		{
			name:     "threshold met passes",
			content:  `{"prompts": [{"prompt": "A", "category": "x"}]}`,
			args:     []string{"--min-prompts", "1"},
			wantCode: 0,
			wantOut:  "All validations passed!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "prompts.json")
			writeFile(t, path, tt.content)

			args := append([]string{"--no-color", path}, tt.args...)
			out, code, err := execute(t, args...)
			if code != tt.wantCode {
				t.Errorf("expected exit %d, got %d (%v)", tt.wantCode, code, err)
			}
			if code == 1 && !errors.Is(err, errValidationFailed) {
				t.Errorf("expected errValidationFailed, got %v", err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestRoot_NotFound(t *testing.T) {
	isolate(t)

	out, code, err := execute(t, "--no-color", "does-not-exist.json")
	if code != 1 || !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected validation failure, got code=%d err=%v", code, err)
	}
	if !strings.Contains(out, "file not found: does-not-exist.json") {
		t.Errorf("expected not-found message, got:\n%s", out)
	}
}

func TestRoot_Idempotent(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": [{"prompt": "A", "category": "x"}, {"prompt": " A", "category": "x"}, {"category": "y"}]}`)

	out1, code1, _ := execute(t, "--no-color", path)
	out2, code2, _ := execute(t, "--no-color", path)
	if out1 != out2 || code1 != code2 {
		t.Errorf("expected identical runs:\n%s (exit %d)\n---\n%s (exit %d)", out1, code1, out2, code2)
	}
}

func TestRoot_ProjectConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".promptcheck.yaml"), `
validation:
  file: custom.json
  min_prompts: 1
`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"prompts": [{"prompt": "A", "category": "x"}]}`)

	out, code, err := execute(t, "--no-color")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%v)\n%s", code, err, out)
	}
	if !strings.Contains(out, "All validations passed!") {
		t.Errorf("expected project threshold to apply, got:\n%s", out)
	}
}

func TestRoot_FlagOverridesConfig(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "promptcheck.yaml")
	writeFile(t, cfgPath, "validation:\n  min_prompts: 1\n")
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": [{"prompt": "A", "category": "x"}]}`)

	out, _, _ := execute(t, "--no-color", "--config", cfgPath, "--min-prompts", "5", path)
	if !strings.Contains(out, "Warning: Only 1 prompts (target: 5)") {
		t.Errorf("expected flag to override config, got:\n%s", out)
	}
}

func TestRoot_MaxErrors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": [1, 2, 3, 4]}`)

	out, code, _ := execute(t, "--no-color", "--max-errors", "1", path)
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out, "  ... and 3 more") {
		t.Errorf("expected suppressed count, got:\n%s", out)
	}

	out, _, _ = execute(t, "--no-color", "--max-errors", "-1", path)
	if strings.Contains(out, "more") || strings.Count(out, "  - Record ") != 4 {
		t.Errorf("expected every error listed, got:\n%s", out)
	}
}

func TestRoot_JSONFormat(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": []}`)

	out, code, _ := execute(t, "--format", "JSON", path)
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, `"outcome": "below_target"`) {
		t.Errorf("expected JSON report, got:\n%s", out)
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": []}`)

	_, code, err := execute(t, "--format", "xml", path)
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if err == nil || errors.Is(err, errValidationFailed) || !strings.Contains(err.Error(), "output.format") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	isolate(t)
	if _, code, _ := execute(t, "a.json", "b.json"); code != 1 {
		t.Errorf("expected exit 1 for two positional args, got %d", code)
	}
}

func TestRoot_DebugLog(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prompts.json")
	writeFile(t, path, `{"prompts": [{"prompt": "A"}]}`)
	logPath := filepath.Join(dir, "logs", "debug.log")

	out, _, _ := execute(t, "--no-color", "--debug-log", logPath, path)
	if strings.Contains(out, "validation finished") {
		t.Errorf("debug events must not reach stdout:\n%s", out)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected debug log: %v", err)
	}
	if !strings.Contains(string(data), "validation finished") {
		t.Errorf("expected summary event in debug log, got:\n%s", data)
	}
	if !strings.Contains(string(data), "Record 0: missing 'category' field") {
		t.Errorf("expected record error event in debug log, got:\n%s", data)
	}
}

func TestVersionCmd(t *testing.T) {
	out, code, err := execute(t, "version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%v)", code, err)
	}
	if !strings.HasPrefix(out, "promptcheck version ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestConfigCmd(t *testing.T) {
	isolate(t)

	out, code, err := execute(t, "config", "validation.min_prompts")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%v)", code, err)
	}
	if strings.TrimSpace(out) != "365" {
		t.Errorf("expected default 365, got %q", out)
	}

	out, code, err = execute(t, "config", "validation.min_prompts", "30")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%v)", code, err)
	}
	if !strings.Contains(out, "Set validation.min_prompts = 30") {
		t.Errorf("unexpected set output %q", out)
	}

	out, _, _ = execute(t, "config", "validation.min_prompts")
	if strings.TrimSpace(out) != "30" {
		t.Errorf("expected persisted 30, got %q", out)
	}

	out, _, _ = execute(t, "config")
	if !strings.Contains(out, "min_prompts: 30") {
		t.Errorf("expected YAML dump with updated value, got:\n%s", out)
	}

	if _, code, _ := execute(t, "config", "validation.min_prompts", "lots"); code != 1 {
		t.Errorf("expected exit 1 for invalid value, got %d", code)
	}
	if _, code, _ := execute(t, "config", "no.such.key"); code != 1 {
		t.Errorf("expected exit 1 for unknown key, got %d", code)
	}
}

func TestStatusWriter(t *testing.T) {
	tests := []struct {
		format     string
		wantStdout bool
	}{
		{"", true},
		{"text", true},
		{"json", false},
		{"yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := newRootCmd()
			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)

			if _, err := statusWriter(cmd, tt.format).Write([]byte("banner")); err != nil {
				t.Fatalf("write failed: %v", err)
			}

			gotStdout := out.String() == "banner"
			if gotStdout != tt.wantStdout {
				t.Errorf("format %q: expected banner on stdout=%v, got stdout=%q stderr=%q",
					tt.format, tt.wantStdout, out.String(), errOut.String())
			}
		})
	}
}
