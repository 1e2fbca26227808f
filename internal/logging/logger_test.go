package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleHandlerIncludesComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	NewComponentLogger(logger, "scanner").Info("probe complete", "files", 3)

	line := buf.String()
	if !strings.Contains(line, "INFO scanner: probe complete") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "files=3") {
		t.Fatalf("missing attribute in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Warn("skip", "path", "/videos/my clip.mp4")

	if !strings.Contains(buf.String(), `path="/videos/my clip.mp4"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("structured", "count", 2)

	out := buf.String()
	if !strings.Contains(out, `"msg":"structured"`) || !strings.Contains(out, `"count":2`) {
		t.Fatalf("unexpected json line: %q", out)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := NewComponentLogger(nil, "detector")
	logger.Error("discarded", "err", "boom")
}
