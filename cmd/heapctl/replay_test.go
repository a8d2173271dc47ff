package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rep")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

func TestReplayOneSmallTrace(t *testing.T) {
	path := writeTrace(t, `# short churn
a 0 512
a 1 1024
f 0
r 1 2048
c 2 64 8
f 1
f 2
`)

	rep, err := replayOne(path)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if rep.Ops != 7 {
		t.Errorf("expected 7 ops, got %d", rep.Ops)
	}
	if rep.PeakPayload <= 0 {
		t.Errorf("expected positive peak payload, got %d", rep.PeakPayload)
	}
	if rep.Utilization <= 0 || rep.Utilization > 1 {
		t.Errorf("utilization out of range: %f", rep.Utilization)
	}
	if rep.Stats.InUse != 0 {
		t.Errorf("trace frees everything, but InUse = %d", rep.Stats.InUse)
	}
}

func TestReplayOneRejectsCorruptTrace(t *testing.T) {
	path := writeTrace(t, "a 0 notanumber\n")

	_, err := replayOne(path)
	if err == nil {
		t.Fatal("expected parse error for malformed trace")
	}
	if !strings.Contains(err.Error(), "line") {
		t.Errorf("expected error to name the offending line, got: %v", err)
	}
}

func TestReplayOneMissingFile(t *testing.T) {
	if _, err := replayOne(filepath.Join(t.TempDir(), "nope.rep")); err == nil {
		t.Fatal("expected error for missing trace file")
	}
}
