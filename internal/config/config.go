package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the file names the pipeline looks for inside a root folder.
type Paths struct {
	// TableFile is the clip table name; extension selects the format.
	TableFile string `toml:"table_file"`
	// SourceFile is the source recording name inside the root folder.
	SourceFile string `toml:"source_file"`
	// RootMetadataFile is the optional free-text document prepended to
	// every clip's metadata document.
	RootMetadataFile string `toml:"root_metadata_file"`
	// LogDir is where run logs are written, relative to the root folder
	// unless absolute.
	LogDir string `toml:"log_dir"`
}

// Clip contains time-range padding and output settings shared by all clips.
type Clip struct {
	PadStartSeconds float64 `toml:"pad_start_seconds"`
	PadEndSeconds   float64 `toml:"pad_end_seconds"`
	// Watermark is burned into the corner of visual artifacts when set.
	Watermark string `toml:"watermark"`
}

// Crops contains the two crop rectangles in ffmpeg W:H:X:Y notation.
type Crops struct {
	Cam    string `toml:"cam"`
	Screen string `toml:"screen"`
}

// Render contains external tool and encode settings.
type Render struct {
	FFmpeg      string `toml:"ffmpeg"`
	FFprobe     string `toml:"ffprobe"`
	VideoCodec  string `toml:"video_codec"`
	CRF         int    `toml:"crf"`
	Preset      string `toml:"preset"`
	StackWidth  int    `toml:"stack_width"`
	StackHeight int    `toml:"stack_height"`
	// MinFreeGiB aborts a run early when the root folder's filesystem has
	// less free space than this.
	MinFreeGiB int `toml:"min_free_gib"`
}

// Transcription contains settings for the transcription/translation bridge.
type Transcription struct {
	Enabled bool `toml:"enabled"`
	// APIKey falls back to the OPENAI_API_KEY environment variable.
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Translate      bool   `toml:"translate"`
	TranslateModel string `toml:"translate_model"`
	TargetLanguage string `toml:"target_language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// SplitByHour additionally splits transcripts into hourly SRT chunks.
	SplitByHour bool `toml:"split_by_hour"`
}

// History contains settings for the per-root run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipper.
//
// Configuration sections by subsystem:
//   - Paths: file names resolved inside the run's root folder
//   - Clip: padding and watermark defaults
//   - Crops: camera and screen crop rectangles
//   - Render: ffmpeg/ffprobe binaries and encode settings
//   - Transcription: OpenAI transcription and translation settings
//   - History: per-root run history database
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Clip          Clip          `toml:"clip"`
	Crops         Crops         `toml:"crops"`
	Render        Render        `toml:"render"`
	Transcription Transcription `toml:"transcription"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all fields normalized. The bool reports whether a config file
// was actually found (false means pure defaults).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
