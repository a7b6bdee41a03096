package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/report"
)

// executeInspect executes inspect and returns stdout.
func executeInspect(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewInspectCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// TestRunInspectCmd tests metadata inspection.
func TestRunInspectCmd(t *testing.T) {
	t.Run("reports an image without metadata", func(t *testing.T) {
		img := writeTestPNG(t, t.TempDir(), "clean.png", 8, 8, color.White)

		output, err := executeInspect(t, img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "No metadata findings") {
			t.Errorf("expected no findings, got:\n%s", output)
		}
		if !strings.Contains(output, "Not analysed") {
			t.Errorf("expected not analysed status, got:\n%s", output)
		}
	})

	t.Run("writes JSON for several images", func(t *testing.T) {
		dir := t.TempDir()
		a := writeTestPNG(t, dir, "a.png", 8, 8, color.White)
		b := writeTestPNG(t, dir, "b.png", 8, 8, color.Black)

		output, err := executeInspect(t, "-j", a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []report.JSONReport
		if err := json.Unmarshal([]byte(output), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(decoded))
		}
		if decoded[0].Review.Digest == "" || decoded[0].Review.Digest == decoded[1].Review.Digest {
			t.Error("expected distinct digests")
		}
		if len(decoded[0].Review.Findings) != 0 {
			t.Errorf("expected no findings, got %+v", decoded[0].Review.Findings)
		}
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		if _, err := executeInspect(t, filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		_, err := executeInspect(t, "-j", "-m", "a.png")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}
