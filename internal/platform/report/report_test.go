package report

import (
	"strings"
	"testing"
)

func TestBuilderRendersAlignedLines(t *testing.T) {
	out := NewBuilder("sync fixtures").
		Section("windows").
		Line("ok", 5).
		Line("failed", 1).
		Section("fixtures").
		Line("inserted", 12).
		Linef("skipped", "%d (unresolved teams)", 3).
		String()

	if !strings.HasPrefix(out, "== sync fixtures ==\n") {
		t.Fatalf("missing title, got:\n%s", out)
	}
	if !strings.Contains(out, "windows:\n") || !strings.Contains(out, "fixtures:\n") {
		t.Fatalf("missing sections, got:\n%s", out)
	}
	if !strings.Contains(out, "  inserted  12\n") {
		t.Fatalf("missing padded line, got:\n%s", out)
	}
	if !strings.Contains(out, "  ok        5\n") {
		t.Fatalf("short label not padded to widest, got:\n%s", out)
	}
	if !strings.Contains(out, "3 (unresolved teams)") {
		t.Fatalf("missing formatted value, got:\n%s", out)
	}
}

func TestBuilderWithoutTitle(t *testing.T) {
	out := NewBuilder("").Line("rows", 0).String()
	if strings.Contains(out, "==") {
		t.Fatalf("unexpected title marker:\n%s", out)
	}
	if out != "  rows  0\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}
