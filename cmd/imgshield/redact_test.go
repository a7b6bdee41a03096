package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/imgshield/internal/model"
)

var red = color.NRGBA{R: 255, A: 255}

// executeRedact executes redact and returns stdout.
func executeRedact(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRedactCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// readPNG decodes the PNG at path.
func readPNG(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return img
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0 && b == 0
}

// TestNewRedactCmd tests the redact command creation.
func TestNewRedactCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRedactCmd()

	t.Run("requires an image", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error without arguments")
		}
	})

	t.Run("defaults to the safe image name", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.DefValue != "redacted-safe-image.png" {
			t.Errorf("expected default %q, got %q", "redacted-safe-image.png", flag.DefValue)
		}
	})

	t.Run("defaults to the blur tool", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("tool")
		if flag == nil {
			t.Fatal("expected tool flag")
		}
		if flag.DefValue != "blur" {
			t.Errorf("expected default %q, got %q", "blur", flag.DefValue)
		}
	})
}

// TestRunRedactCmd tests redaction of image files.
func TestRunRedactCmd(t *testing.T) {
	t.Run("blacks out a region", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 100, 60, red)
		out := filepath.Join(dir, "out.png")

		stdout, err := executeRedact(t, "-c", cfgPath, "-r", "10,10,40,30:blackout", "-o", out, img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "(1 regions)") {
			t.Errorf("unexpected output %q", stdout)
		}

		result := readPNG(t, out)
		if !isBlack(result.At(20, 20)) {
			t.Error("expected pixel inside the region to be black")
		}
		if !isRed(result.At(80, 50)) {
			t.Error("expected pixel outside the region to be unchanged")
		}
	})

	t.Run("ignores regions that are too small", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 100, 60, red)
		out := filepath.Join(dir, "out.png")

		stdout, err := executeRedact(t, "-c", cfgPath, "-t", "blackout", "-r", "0,0,10,30", "-o", out, img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "(0 regions)") {
			t.Errorf("unexpected output %q", stdout)
		}
		if !isRed(readPNG(t, out).At(5, 5)) {
			t.Error("expected the image to be unchanged")
		}
	})

	t.Run("replays an event script", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 100, 60, red)
		out := filepath.Join(dir, "out.png")
		script := filepath.Join(dir, "drags.txt")
		content := "# black out the right half\ntool blackout\ndown 50 5\nmove 90 50\nup\n"
		if err := os.WriteFile(script, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}

		if _, err := executeRedact(t, "-c", cfgPath, "--events", script, "-o", out, img); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result := readPNG(t, out)
		if !isBlack(result.At(60, 20)) {
			t.Error("expected dragged region to be black")
		}
		if !isRed(result.At(20, 20)) {
			t.Error("expected pixel outside the drag to be unchanged")
		}
	})

	t.Run("scales wide images down", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "wide.png", 200, 100, red)
		out := filepath.Join(dir, "out.png")

		if _, err := executeRedact(t, "-c", cfgPath, "--max-width", "100", "-o", out, img); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		size := readPNG(t, out).Bounds().Size()
		if size != image.Pt(100, 50) {
			t.Errorf("expected 100x50 output, got %v", size)
		}
	})

	t.Run("reads redaction defaults from the config file", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "redact:\n  tool: blackout\n")
		img := writeTestPNG(t, dir, "in.png", 100, 60, red)
		out := filepath.Join(dir, "out.png")

		if _, err := executeRedact(t, "-c", cfgPath, "-r", "10,10,40,30", "-o", out, img); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !isBlack(readPNG(t, out).At(20, 20)) {
			t.Error("expected the configured blackout tool to be used")
		}
	})

	t.Run("writes one file per image to the output directory", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		a := writeTestPNG(t, dir, "a.png", 40, 40, red)
		b := writeTestPNG(t, dir, "b.png", 40, 40, red)
		outDir := filepath.Join(dir, "out")

		if _, err := executeRedact(t, "-c", cfgPath, "-r", "0,0,20,20:blackout", "-d", outDir, a, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, name := range []string{"a-redacted.png", "b-redacted.png"} {
			if !isBlack(readPNG(t, filepath.Join(outDir, name)).At(5, 5)) {
				t.Errorf("expected %s to be redacted", name)
			}
		}
	})

	t.Run("rejects --output with several images", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		a := writeTestPNG(t, dir, "a.png", 40, 40, red)
		b := writeTestPNG(t, dir, "b.png", 40, 40, red)

		if _, err := executeRedact(t, "-c", cfgPath, "-o", filepath.Join(dir, "x.png"), a, b); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("rejects malformed regions", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 40, 40, red)

		_, err := executeRedact(t, "-c", cfgPath, "-r", "1,2,3", "-o", filepath.Join(dir, "out.png"), img)
		if !errors.Is(err, model.ErrInvalidRegion) {
			t.Errorf("expected ErrInvalidRegion, got %v", err)
		}
	})

	t.Run("rejects unknown tools", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 40, 40, red)

		_, err := executeRedact(t, "-c", cfgPath, "-t", "pixelate", "-o", filepath.Join(dir, "out.png"), img)
		if !errors.Is(err, model.ErrUnknownEffect) {
			t.Errorf("expected ErrUnknownEffect, got %v", err)
		}
	})

	t.Run("fails for a missing cascade file", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "historySize: 6\n")
		img := writeTestPNG(t, dir, "in.png", 40, 40, red)

		_, err := executeRedact(t, "-c", cfgPath, "--faces-cascade", filepath.Join(dir, "missing"), "-o", filepath.Join(dir, "out.png"), img)
		if err == nil {
			t.Error("expected error")
		}
	})
}

// TestRedactOutputs tests output path derivation.
func TestRedactOutputs(t *testing.T) {
	t.Parallel()

	t.Run("rejects colliding names", func(t *testing.T) {
		t.Parallel()

		cmd := NewRedactCmd()
		if _, err := redactOutputs(cmd, []string{"x/a.png", "y/a.jpg"}); err == nil {
			t.Error("expected collision error")
		}
	})

	t.Run("derives names in the output directory", func(t *testing.T) {
		t.Parallel()

		cmd := NewRedactCmd()
		if err := cmd.Flags().Set("output-dir", "out"); err != nil {
			t.Fatal(err)
		}
		got, err := redactOutputs(cmd, []string{"x/a.png", "y/b.jpeg"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{filepath.Join("out", "a-redacted.png"), filepath.Join("out", "b-redacted.png")}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("output %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})
}
