package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizePaths()
	c.normalizeRender()
	c.normalizeTranscription()
	c.normalizeLogging()
}

func (c *Config) normalizePaths() {
	if strings.TrimSpace(c.Paths.TableFile) == "" {
		c.Paths.TableFile = defaultTableFile
	}
	if strings.TrimSpace(c.Paths.SourceFile) == "" {
		c.Paths.SourceFile = defaultSourceFile
	}
	c.Paths.RootMetadataFile = strings.TrimSpace(c.Paths.RootMetadataFile)
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
}

func (c *Config) normalizeRender() {
	if strings.TrimSpace(c.Render.FFmpeg) == "" {
		c.Render.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Render.FFprobe) == "" {
		c.Render.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Render.VideoCodec) == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Render.Preset) == "" {
		c.Render.Preset = defaultPreset
	}
	if c.Render.CRF == 0 {
		c.Render.CRF = defaultCRF
	}
	if c.Render.StackWidth == 0 {
		c.Render.StackWidth = defaultStackWidth
	}
	if c.Render.StackHeight == 0 {
		c.Render.StackHeight = defaultStackHeight
	}
}

func (c *Config) normalizeTranscription() {
	if c.Transcription.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcription.APIKey = value
		}
	}
	if strings.TrimSpace(c.Transcription.Model) == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	if strings.TrimSpace(c.Transcription.TranslateModel) == "" {
		c.Transcription.TranslateModel = defaultTranslateModel
	}
	if strings.TrimSpace(c.Transcription.TargetLanguage) == "" {
		c.Transcription.TargetLanguage = defaultTargetLanguage
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
