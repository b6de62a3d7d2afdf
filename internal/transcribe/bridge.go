package transcribe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"clipper/internal/fileutil"
	"clipper/internal/logging"
	"clipper/internal/services"
)

// Subtitle file names inside a clip directory.
const (
	TranscriptFilename = "transcript.srt"
	TranslatedFilename = "zh.srt"
)

// Transcriber converts a media file into timed subtitle segments.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
}

// Translator converts segment text into the target language, preserving
// timing.
type Translator interface {
	Translate(ctx context.Context, segments []Segment, targetLanguage string) ([]Segment, error)
}

// Outputs reports where the bridge wrote subtitle files. TranslatedPath
// is empty when translation was disabled, skipped, or failed.
type Outputs struct {
	TranscriptPath string
	TranslatedPath string
	// Reused is set when a prior run's subtitles satisfied the request.
	Reused bool
}

// Bridge drives transcription and translation for one clip's raw cut.
type Bridge struct {
	transcriber    Transcriber
	translator     Translator
	targetLanguage string
	splitByHour    bool
	force          bool
	logger         *slog.Logger
}

// SetForce makes Run re-transcribe even when subtitle files from a
// prior run are present.
func (b *Bridge) SetForce(force bool) {
	b.force = force
}

// NewBridge builds a bridge. translator may be nil to disable translation.
func NewBridge(transcriber Transcriber, translator Translator, targetLanguage string, splitByHour bool, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bridge{
		transcriber:    transcriber,
		translator:     translator,
		targetLanguage: targetLanguage,
		splitByHour:    splitByHour,
		logger:         logger.With(slog.String(logging.FieldComponent, "transcribe")),
	}
}

// Run transcribes the raw artifact and writes subtitle files beside the
// other artifacts. When every requested subtitle file already exists
// non-empty, the external capability is not invoked again.
func (b *Bridge) Run(ctx context.Context, rawArtifactPath, destDir string) (Outputs, error) {
	outputs := Outputs{
		TranscriptPath: filepath.Join(destDir, TranscriptFilename),
	}
	translatedPath := filepath.Join(destDir, TranslatedFilename)

	if b.alreadyComplete(outputs.TranscriptPath, translatedPath) {
		outputs.Reused = true
		if fileutil.IsNonEmptyFile(translatedPath) {
			outputs.TranslatedPath = translatedPath
		}
		b.logger.Info("subtitles already present, skipping transcription")
		return outputs, nil
	}

	segments, err := b.transcriber.Transcribe(ctx, rawArtifactPath)
	if err != nil {
		return Outputs{}, services.Wrap(services.ErrExternalTool, "transcribe", "engine", "", err)
	}
	if len(segments) == 0 {
		return Outputs{}, services.Wrap(services.ErrExternalTool, "transcribe", "engine", "no speech segments returned", nil)
	}

	if err := WriteSRTFile(outputs.TranscriptPath, segments); err != nil {
		return Outputs{}, services.Wrap(services.ErrTransient, "transcribe", "write transcript", "", err)
	}
	b.logger.Info("transcript written", slog.Int("segments", len(segments)))

	if b.splitByHour {
		if chunks, err := SplitByHour(outputs.TranscriptPath); err != nil {
			b.logger.Warn("hourly split failed", slog.Any("error", err))
		} else if len(chunks) > 0 {
			b.logger.Info("transcript split by hour", slog.Int("chunks", len(chunks)))
		}
	}

	if b.translator == nil {
		return outputs, nil
	}
	if alreadyInTarget(segments, b.targetLanguage) {
		b.logger.Info("transcript already in target language, skipping translation")
		return outputs, nil
	}

	translated, err := b.translator.Translate(ctx, segments, b.targetLanguage)
	if err != nil {
		// The original-language transcript stands even when translation
		// fails; report the partial outcome.
		b.logger.Warn("translation failed", slog.Any("error", err))
		return outputs, nil
	}
	if err := WriteSRTFile(translatedPath, translated); err != nil {
		b.logger.Warn("write translated subtitles failed", slog.Any("error", err))
		return outputs, nil
	}
	outputs.TranslatedPath = translatedPath
	return outputs, nil
}

// alreadyComplete reports whether a prior run left every requested
// subtitle file behind. A transcript without a translation still counts
// when the transcript is already in the target language; that is the
// state a prior run leaves after skipping translation.
func (b *Bridge) alreadyComplete(transcriptPath, translatedPath string) bool {
	if b.force {
		return false
	}
	if !fileutil.IsNonEmptyFile(transcriptPath) {
		return false
	}
	if b.translator == nil {
		return true
	}
	if fileutil.IsNonEmptyFile(translatedPath) {
		return true
	}
	return b.transcriptInTarget(transcriptPath)
}

func (b *Bridge) transcriptInTarget(transcriptPath string) bool {
	file, err := os.Open(transcriptPath)
	if err != nil {
		return false
	}
	defer file.Close()
	segments, err := ParseSRT(file)
	if err != nil || len(segments) == 0 {
		return false
	}
	return alreadyInTarget(segments, b.targetLanguage)
}
