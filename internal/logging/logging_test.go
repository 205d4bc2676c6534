package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSectionWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Section("Installing %s...\n", "Forge 47.2.0")
	if !strings.Contains(buf.String(), "Installing Forge 47.2.0...") {
		t.Fatalf("Section output = %q", buf.String())
	}
}

func TestVerboselnGatedByFlag(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Verboseln("quiet by default")
	if buf.Len() != 0 {
		t.Fatalf("expected no output when Verbose=false, got %q", buf.String())
	}

	l.Verbose = true
	l.Verboseln("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("Verboseln output = %q", buf.String())
	}
}
