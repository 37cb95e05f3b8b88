package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	v := Get()
	if v == "" {
		t.Fatal("expected non-empty version")
	}
	if strings.TrimSpace(v) != v {
		t.Errorf("expected trimmed version, got %q", v)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "promptcheck version ") {
		t.Errorf("expected program prefix, got %q", s)
	}
	if !strings.HasSuffix(s, Get()) {
		t.Errorf("expected %q to end with %q", s, Get())
	}
}
