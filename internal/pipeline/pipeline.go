package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clipper/internal/cliptable"
	"clipper/internal/config"
	"clipper/internal/history"
	"clipper/internal/logging"
	"clipper/internal/media/ffprobe"
	"clipper/internal/render"
	"clipper/internal/services"
	"clipper/internal/transcribe"
)

// LockFilename is the advisory lock guarding a root folder against
// concurrent runs. It lives next to the history database.
const LockFilename = "run.lock"

// ProbeFunc inspects a media file. Tests substitute fakes.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Pipeline processes one root folder's clip table end to end.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *render.Renderer
	bridge   *transcribe.Bridge
	store    *history.Store
	probe    ProbeFunc
}

// Option configures optional Pipeline collaborators.
type Option func(*Pipeline)

// WithTranscription attaches a transcription bridge. Without one the
// transcription stage is skipped entirely.
func WithTranscription(bridge *transcribe.Bridge) Option {
	return func(p *Pipeline) { p.bridge = bridge }
}

// WithHistory attaches a run history store.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithProbe overrides the media prober (for testing).
func WithProbe(probe ProbeFunc) Option {
	return func(p *Pipeline) { p.probe = probe }
}

// WithRenderer overrides the artifact renderer (for testing).
func WithRenderer(renderer *render.Renderer) Option {
	return func(p *Pipeline) { p.renderer = renderer }
}

// New constructs a pipeline from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logger.With(slog.String(logging.FieldComponent, "pipeline")),
		probe:  ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.renderer == nil {
		p.renderer = render.NewRenderer(cfg, logger)
	}
	return p
}

// Run processes every clip in the root folder's table. Per-clip failures
// are reported, not returned; the error is non-nil only for problems
// that prevent the run from proceeding at all.
func (p *Pipeline) Run(ctx context.Context, rootDir string) (*RunReport, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "resolve root", "", err)
	}

	unlock, err := p.acquireLock(rootDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := &RunReport{
		RootDir:    rootDir,
		TablePath:  filepath.Join(rootDir, p.cfg.Paths.TableFile),
		SourcePath: filepath.Join(rootDir, p.cfg.Paths.SourceFile),
		StartedAt:  time.Now().UTC(),
	}

	table, err := cliptable.ParseFile(report.TablePath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "parse clip table", "", err)
	}
	report.RowErrors = table.RowErrors

	probed, err := p.probe(ctx, p.cfg.Render.FFprobe, report.SourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "probe source", "", err)
	}
	env, err := p.buildEnv(rootDir, probed)
	if err != nil {
		return nil, err
	}
	report.SourceDuration = env.duration

	if p.store != nil {
		run, err := p.store.StartRun(ctx, rootDir, report.TablePath, report.SourcePath, len(table.Specs))
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "pipeline", "record run start", "", err)
		}
		report.RunID = run.ID
		if seq, ok, err := p.store.Cursor(ctx); err == nil && ok {
			p.logger.Info("previous progress found", slog.Int("last_completed_clip", seq))
		}
	} else {
		report.RunID = uuid.NewString()
	}
	env.runID = report.RunID

	logger := p.logger.With(slog.String(logging.FieldRunID, report.RunID))
	logger.Info("run started",
		slog.String("root", rootDir),
		slog.Int("clips", len(table.Specs)),
		slog.Int("bad_rows", len(table.RowErrors)),
		slog.String("source_duration", fmt.Sprintf("%.1fs", env.duration)))
	for _, rowErr := range table.RowErrors {
		logger.Warn("clip table row rejected", slog.Int("row", rowErr.Row), slog.Any("error", rowErr.Cause))
	}

	for _, spec := range table.Specs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		clip := p.processClip(ctx, logger, env, spec)
		report.Clips = append(report.Clips, clip)
		p.recordOutcome(ctx, logger, report.RunID, clip)
	}

	report.FinishedAt = time.Now().UTC()
	totals := report.Totals()
	if p.store != nil {
		if err := p.store.FinishRun(ctx, report.RunID, totals); err != nil {
			logger.Warn("record run finish failed", slog.Any("error", err))
		}
	}
	logger.Info("run finished",
		slog.Int("done", totals.Done),
		slog.Int("skipped", totals.Skipped),
		slog.Int("partial", totals.Partial))
	return report, nil
}

// clipEnv carries the run-wide facts every clip needs.
type clipEnv struct {
	rootDir      string
	runID        string
	duration     float64
	frameWidth   int
	frameHeight  int
	cam          config.Rect
	screen       config.Rect
	rootMetadata string
}

func (p *Pipeline) buildEnv(rootDir string, probed ffprobe.Result) (clipEnv, error) {
	env := clipEnv{rootDir: rootDir}

	env.duration = probed.DurationSeconds()
	if env.duration <= 0 {
		return env, services.Wrap(services.ErrValidation, "pipeline", "probe source",
			"source recording has no measurable duration", nil)
	}
	env.frameWidth, env.frameHeight = probed.VideoDimensions()
	if env.frameWidth <= 0 || env.frameHeight <= 0 {
		return env, services.Wrap(services.ErrValidation, "pipeline", "probe source",
			"source recording has no video stream", nil)
	}

	var err error
	if env.cam, err = p.cfg.CamRect(); err != nil {
		return env, services.Wrap(services.ErrConfiguration, "pipeline", "parse cam crop", "", err)
	}
	if env.screen, err = p.cfg.ScreenRect(); err != nil {
		return env, services.Wrap(services.ErrConfiguration, "pipeline", "parse screen crop", "", err)
	}

	if name := p.cfg.Paths.RootMetadataFile; name != "" {
		data, err := os.ReadFile(filepath.Join(rootDir, name))
		if err == nil {
			env.rootMetadata = string(data)
		} else if !os.IsNotExist(err) {
			return env, services.Wrap(services.ErrTransient, "pipeline", "read root metadata", "", err)
		}
	}
	return env, nil
}

func (p *Pipeline) acquireLock(rootDir string) (func(), error) {
	lockDir := filepath.Join(rootDir, history.DirName)
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "create state directory", "", err)
	}
	lock := flock.New(filepath.Join(lockDir, LockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "acquire run lock", "", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "acquire run lock",
			"another run is already processing this folder", nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Pipeline) recordOutcome(ctx context.Context, logger *slog.Logger, runID string, clip ClipReport) {
	if p.store == nil {
		return
	}
	err := p.store.RecordClip(ctx, history.ClipOutcome{
		RunID:           runID,
		Sequence:        clip.Sequence,
		Title:           clip.Title,
		State:           clip.State.String(),
		Detail:          clip.Detail,
		OutputDir:       clip.OutputDir,
		DurationSeconds: clip.Range.Duration(),
	})
	if err != nil {
		logger.Warn("record clip outcome failed",
			slog.Int(logging.FieldClip, clip.Sequence), slog.Any("error", err))
	}
	if clip.State == StateDone {
		if err := p.store.SetCursor(ctx, clip.Sequence); err != nil {
			logger.Warn("advance cursor failed",
				slog.Int(logging.FieldClip, clip.Sequence), slog.Any("error", err))
		}
	}
}
