package buildinfo

import (
	"bytes"
	"testing"
)

func TestPrintBuildData(t *testing.T) {
	Version, Date, Commit = "v1.2.3", "2025-01-01", "abc123"
	defer func() { Version, Date, Commit = "N/A", "N/A", "N/A" }()

	var buf bytes.Buffer
	PrintBuildData(&buf)

	want := "Build version: v1.2.3\nBuild date: 2025-01-01\nBuild commit: abc123\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
