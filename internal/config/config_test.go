package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Paths.TableFile != "crop_info.md" {
		t.Fatalf("unexpected table file %q", cfg.Paths.TableFile)
	}
	if cfg.Clip.PadStartSeconds != 5 || cfg.Clip.PadEndSeconds != 5 {
		t.Fatalf("unexpected padding %v/%v", cfg.Clip.PadStartSeconds, cfg.Clip.PadEndSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[clip]
pad_start_seconds = 2.5
watermark = "my channel"

[crops]
cam = "320:240:0:0"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Clip.PadStartSeconds != 2.5 {
		t.Fatalf("pad_start_seconds: got %v", cfg.Clip.PadStartSeconds)
	}
	if cfg.Clip.PadEndSeconds != 5 {
		t.Fatalf("pad_end_seconds default lost: got %v", cfg.Clip.PadEndSeconds)
	}
	if cfg.Clip.Watermark != "my channel" {
		t.Fatalf("watermark: got %q", cfg.Clip.Watermark)
	}
	rect, err := cfg.CamRect()
	if err != nil {
		t.Fatal(err)
	}
	if rect.Width != 320 || rect.Height != 240 {
		t.Fatalf("cam rect: got %+v", rect)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level: got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadCrop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[crops]\ncam = \"640x720\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for bad crop")
	}
}

func TestLoadRejectsNegativePadding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[clip]\npad_start_seconds = -1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative padding")
	}
}

func TestParseRect(t *testing.T) {
	rect, err := ParseRect("640:720:1280:0")
	if err != nil {
		t.Fatal(err)
	}
	want := Rect{Width: 640, Height: 720, X: 1280, Y: 0}
	if rect != want {
		t.Fatalf("got %+v, want %+v", rect, want)
	}
	if rect.String() != "640:720:1280:0" {
		t.Fatalf("round trip: got %q", rect.String())
	}

	for _, bad := range []string{"", "1:2:3", "1:2:3:4:5", "a:2:3:4", "0:720:0:0", "640:720:-1:0"} {
		if _, err := ParseRect(bad); err == nil {
			t.Fatalf("ParseRect(%q) succeeded, expected error", bad)
		}
	}
}

func TestRectFitsWithin(t *testing.T) {
	rect := Rect{Width: 640, Height: 720, X: 1280, Y: 0}
	if !rect.FitsWithin(1920, 1080) {
		t.Fatal("expected rect to fit 1920x1080")
	}
	if rect.FitsWithin(1280, 1080) {
		t.Fatal("expected rect to exceed 1280 frame width")
	}
	if rect.FitsWithin(1920, 700) {
		t.Fatal("expected rect to exceed 700 frame height")
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := WriteSample(path); err != nil {
		t.Fatal(err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Crops.Cam != "640:720:1280:0" {
		t.Fatalf("sample cam crop: got %q", cfg.Crops.Cam)
	}

	if err := WriteSample(path); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}
