// Package testsupport provides shared fixtures for package tests: a
// ready-to-use configuration, root folder scaffolding, and stubbed
// external binaries.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config with transcription disabled, ready
// for tests that never reach an external API.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Transcription.Enabled = false
	cfgVal.History.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWatermark sets the watermark text on the test config.
func WithWatermark(text string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clip.Watermark = text
	}
}

// WithPads overrides the padding seconds on the test config.
func WithPads(start, end float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clip.PadStartSeconds = start
		b.cfg.Clip.PadEndSeconds = end
	}
}

// WithStubbedBinaries writes stub executables for the provided names,
// prepends their directory to PATH, and points the render binaries at
// them. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		prependPath(b.t, binDir)
	}
}

func prependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	newPath := dir
	if oldPath != "" {
		newPath = dir + string(os.PathListSeparator) + oldPath
	}
	t.Setenv("PATH", newPath)
}

// WriteRootFolder lays out a minimal root folder: a clip table and a
// placeholder source recording. Returns the folder path.
func WriteRootFolder(t testing.TB, cfg *config.Config, tableContent string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, cfg.Paths.TableFile), []byte(tableContent), 0o644); err != nil {
		t.Fatalf("write clip table: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, cfg.Paths.SourceFile), []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return root
}
