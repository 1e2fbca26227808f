package main

import (
	"strings"
	"testing"
)

func TestDepsCommandListsBinaries(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "ffprobe")
	requireContains(t, out, "ffmpeg")
	requireContains(t, out, "yes")
}

func TestDepsCommandFailsWhenFFprobeMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("PATH", t.TempDir())

	_, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "missing required dependencies") {
		t.Fatalf("expected missing dependency error, got %v", err)
	}
}
