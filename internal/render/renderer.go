package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"clipper/internal/config"
	"clipper/internal/fileutil"
	"clipper/internal/logging"
	"clipper/internal/services"
	"clipper/internal/timerange"
)

// Error reports a failure producing one artifact kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Request describes one clip's rendering work.
type Request struct {
	Source      string
	Range       timerange.Range
	Cam         config.Rect
	Screen      config.Rect
	FrameWidth  int
	FrameHeight int
	DestDir     string
	Watermark   string
}

// Result is the outcome of one artifact kind.
type Result struct {
	Kind Kind
	Path string
	Err  error
	// Skipped is set when the artifact already existed from a prior run.
	Skipped bool
	// WatermarkDropped is set when the watermark pass failed and the
	// artifact was produced unwatermarked instead.
	WatermarkDropped bool
}

// CommandRunner executes an external command. Tests substitute fakes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Renderer invokes ffmpeg to produce clip artifacts.
type Renderer struct {
	cfg    config.Render
	logger *slog.Logger
	runner CommandRunner
}

// NewRenderer builds a renderer from the render section of the config.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		cfg:    cfg.Render,
		logger: logger.With(slog.String(logging.FieldComponent, "render")),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner CommandRunner) {
	r.runner = runner
}

// RenderAll attempts every artifact kind for the request and returns one
// Result per kind, in Kinds order. Kinds fail independently; an existing
// non-empty artifact from a prior run is skipped, not re-rendered.
func (r *Renderer) RenderAll(ctx context.Context, req Request) []Result {
	results := make([]Result, 0, len(Kinds))
	for _, kind := range Kinds {
		results = append(results, r.renderKind(ctx, req, kind))
	}
	return results
}

func (r *Renderer) renderKind(ctx context.Context, req Request, kind Kind) Result {
	result := Result{Kind: kind, Path: filepath.Join(req.DestDir, kind.Filename())}

	if fileutil.IsNonEmptyFile(result.Path) {
		result.Skipped = true
		r.logger.Debug("artifact exists, skipping", slog.String(logging.FieldArtifact, string(kind)))
		return result
	}

	if err := r.validateCrops(req, kind); err != nil {
		result.Err = &Error{Kind: kind, Err: err}
		return result
	}

	watermark := ""
	if kind.Visual() {
		watermark = strings.TrimSpace(req.Watermark)
	}

	err := r.renderToFile(ctx, req, kind, result.Path, watermark)
	if err != nil && watermark != "" {
		// Watermarking must not fail the clip: degrade to unwatermarked.
		r.logger.Warn("watermark pass failed, retrying without watermark",
			slog.String(logging.FieldArtifact, string(kind)), slog.Any("error", err))
		if retryErr := r.renderToFile(ctx, req, kind, result.Path, ""); retryErr == nil {
			result.WatermarkDropped = true
			return result
		}
	}
	if err != nil {
		result.Err = &Error{Kind: kind, Err: err}
	}
	return result
}

func (r *Renderer) validateCrops(req Request, kind Kind) error {
	if req.FrameWidth <= 0 || req.FrameHeight <= 0 {
		if kind.usesCam() || kind.usesScreen() {
			return services.Wrap(services.ErrValidation, "render", string(kind), "source has no video stream to crop", nil)
		}
		return nil
	}
	if kind.usesCam() && !req.Cam.FitsWithin(req.FrameWidth, req.FrameHeight) {
		return services.Wrap(services.ErrValidation, "render", string(kind),
			fmt.Sprintf("cam crop %s exceeds %dx%d frame", req.Cam, req.FrameWidth, req.FrameHeight), nil)
	}
	if kind.usesScreen() && !req.Screen.FitsWithin(req.FrameWidth, req.FrameHeight) {
		return services.Wrap(services.ErrValidation, "render", string(kind),
			fmt.Sprintf("screen crop %s exceeds %dx%d frame", req.Screen, req.FrameWidth, req.FrameHeight), nil)
	}
	return nil
}

// renderToFile writes the artifact to a temp name in the destination
// directory and renames it into place, so an interrupted render never
// leaves a file a later run would mistake for a complete artifact.
func (r *Renderer) renderToFile(ctx context.Context, req Request, kind Kind, dest, watermark string) error {
	tmp := filepath.Join(filepath.Dir(dest), ".part-"+filepath.Base(dest))
	defer func() {
		_ = os.Remove(tmp)
	}()

	args := r.buildArgs(req, kind, tmp, watermark)
	if err := r.run(ctx, r.ffmpegBinary(), args...); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}

func (r *Renderer) ffmpegBinary() string {
	if strings.TrimSpace(r.cfg.FFmpeg) == "" {
		return "ffmpeg"
	}
	return r.cfg.FFmpeg
}

func (r *Renderer) run(ctx context.Context, name string, args ...string) error {
	if r.runner != nil {
		return r.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", name,
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

// buildArgs assembles the ffmpeg invocation for one artifact kind.
func (r *Renderer) buildArgs(req Request, kind Kind, dest, watermark string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", timerange.FormatSeconds(req.Range.Start),
		"-to", timerange.FormatSeconds(req.Range.End),
		"-i", req.Source,
	}

	switch kind {
	case KindAudio:
		args = append(args,
			"-vn",
			"-ac", "1",
			"-ar", "16000",
			"-c:a", "pcm_s16le",
		)
	case KindStacked:
		args = append(args,
			"-filter_complex", r.stackedFilter(req, watermark),
			"-map", "[stacked_out]",
			"-map", "0:a?",
			"-aspect", "9:16",
		)
		args = append(args, r.encodeArgs()...)
	case KindCam, KindScreen:
		rect := req.Cam
		if kind == KindScreen {
			rect = req.Screen
		}
		filter := "crop=" + rect.String()
		if watermark != "" {
			filter += "," + drawtextFilter(watermark)
		}
		args = append(args, "-vf", filter, "-map", "0:v", "-map", "0:a?")
		args = append(args, r.encodeArgs()...)
	case KindRaw:
		if watermark != "" {
			args = append(args, "-vf", drawtextFilter(watermark))
		}
		args = append(args, "-map", "0:v", "-map", "0:a?")
		args = append(args, r.encodeArgs()...)
	}

	args = append(args, "-f", containerFor(kind))
	return append(args, dest)
}

// containerFor pins the output format explicitly because artifacts render
// to ".part-*" temp names ffmpeg cannot infer a container from.
func containerFor(kind Kind) string {
	if kind == KindAudio {
		return "wav"
	}
	return "mp4"
}

func (r *Renderer) encodeArgs() []string {
	return []string{
		"-c:v", r.cfg.VideoCodec,
		"-crf", strconv.Itoa(r.cfg.CRF),
		"-preset", r.cfg.Preset,
	}
}

// stackedFilter crops both regions, scales each to a common panel size,
// and stacks cam above screen.
func (r *Renderer) stackedFilter(req Request, watermark string) string {
	scale := fmt.Sprintf("scale=%d:%d", r.cfg.StackWidth, r.cfg.StackHeight)
	filter := fmt.Sprintf(
		"[0:v]crop=%s,%s[cam_stack]; [0:v]crop=%s,%s[screen_stack]; [cam_stack][screen_stack]vstack=inputs=2",
		req.Cam, scale, req.Screen, scale,
	)
	if watermark != "" {
		return filter + "[stacked_raw]; [stacked_raw]" + drawtextFilter(watermark) + "[stacked_out]"
	}
	return filter + "[stacked_out]"
}

// drawtextFilter burns the watermark into the top-right corner.
func drawtextFilter(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(text)
	return fmt.Sprintf("drawtext=text='%s':fontcolor=white@0.6:fontsize=36:x=w-tw-20:y=20", escaped)
}
