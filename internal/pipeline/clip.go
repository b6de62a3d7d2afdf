package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clipper/internal/cliptable"
	"clipper/internal/logging"
	"clipper/internal/metadata"
	"clipper/internal/render"
	"clipper/internal/textutil"
	"clipper/internal/timerange"
)

// OutputDirName returns the clip's folder name: the sequence number,
// joined with the sanitized title when there is one.
func OutputDirName(spec cliptable.Spec) string {
	name := strconv.Itoa(spec.Sequence)
	if title := textutil.SanitizeDirName(spec.Title); title != "" {
		name += "_" + title
	}
	return name
}

func (p *Pipeline) processClip(ctx context.Context, logger *slog.Logger, env clipEnv, spec cliptable.Spec) ClipReport {
	report := ClipReport{
		Sequence: spec.Sequence,
		Title:    spec.Title,
		State:    StatePending,
	}
	log := logger.With(slog.Int(logging.FieldClip, spec.Sequence))

	// An unparseable or degenerate range both mean this clip cannot be
	// cut; the rest of the table still runs.
	rng, err := timerange.Normalize(spec.Start, spec.End,
		p.cfg.Clip.PadStartSeconds, p.cfg.Clip.PadEndSeconds, env.duration)
	if err != nil {
		report.State = StateSkipped
		report.Detail = err.Error()
		log.Warn("clip skipped", slog.String(logging.FieldStage, "range"), slog.Any("error", err))
		return report
	}
	report.State = StateRanged
	report.Range = rng
	log.Info("range resolved",
		slog.String("start", timerange.FormatSeconds(rng.Start)),
		slog.String("end", timerange.FormatSeconds(rng.End)))

	report.OutputDir = OutputDirName(spec)
	destDir := filepath.Join(env.rootDir, report.OutputDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		report.State = StatePartiallyFailed
		report.Detail = fmt.Sprintf("create output directory: %v", err)
		log.Error("create output directory failed", slog.Any("error", err))
		return report
	}

	report.State = StateRendering
	report.Artifacts = p.renderer.RenderAll(ctx, render.Request{
		Source:      filepath.Join(env.rootDir, p.cfg.Paths.SourceFile),
		Range:       rng,
		Cam:         env.cam,
		Screen:      env.screen,
		FrameWidth:  env.frameWidth,
		FrameHeight: env.frameHeight,
		DestDir:     destDir,
		Watermark:   p.cfg.Clip.Watermark,
	})

	var problems []string
	rendered := 0
	rawPath := ""
	for _, artifact := range report.Artifacts {
		if artifact.Err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", artifact.Kind, artifact.Err))
			continue
		}
		rendered++
		if artifact.Kind == render.KindRaw {
			rawPath = artifact.Path
		}
	}
	if rendered == 0 {
		report.State = StatePartiallyFailed
		report.Detail = strings.Join(problems, "; ")
		log.Error("all artifacts failed", slog.String(logging.FieldStage, "render"), slog.String("detail", report.Detail))
		return report
	}

	// A failed metadata write ends the clip; transcription is not
	// attempted.
	if _, err := metadata.Write(destDir, env.rootMetadata, spec, rng); err != nil {
		problems = append(problems, fmt.Sprintf("metadata: %v", err))
		report.State = StatePartiallyFailed
		report.Detail = strings.Join(problems, "; ")
		log.Error("metadata write failed", slog.String(logging.FieldStage, "metadata"), slog.Any("error", err))
		return report
	}

	if p.bridge != nil && rawPath != "" {
		report.State = StateTranscribing
		outputs, err := p.bridge.Run(ctx, rawPath, destDir)
		if err != nil {
			problems = append(problems, fmt.Sprintf("transcribe: %v", err))
			log.Error("transcription failed", slog.String(logging.FieldStage, "transcribe"), slog.Any("error", err))
		} else {
			report.Subtitles = outputs
		}
	} else if p.bridge != nil {
		problems = append(problems, "transcribe: raw artifact unavailable")
	}

	if len(problems) > 0 {
		report.State = StatePartiallyFailed
		report.Detail = strings.Join(problems, "; ")
		log.Warn("clip partially failed", slog.String("detail", report.Detail))
		return report
	}

	report.State = StateDone
	log.Info("clip complete", slog.String("dir", report.OutputDir))
	return report
}
