package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DirName is the per-root state directory holding the database and the
// run lock.
const DirName = ".clipper"

// Filename is the database file name inside DirName.
const Filename = "history.db"

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// DatabasePath returns the history database location for a root folder.
func DatabasePath(rootDir string) string {
	return filepath.Join(rootDir, DirName, Filename)
}

// Open initializes or connects to the history database for rootDir.
func Open(rootDir string) (*Store, error) {
	dbPath := DatabasePath(rootDir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// StartRun inserts a new run row and returns it with a fresh identifier.
func (s *Store) StartRun(ctx context.Context, rootDir, tablePath, sourcePath string, totalClips int) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		RootDir:    rootDir,
		TablePath:  tablePath,
		SourcePath: sourcePath,
		StartedAt:  time.Now().UTC(),
		TotalClips: totalClips,
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, root_dir, table_path, source_path, started_at, total_clips)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.RootDir, run.TablePath, run.SourcePath,
		run.StartedAt.Format(time.RFC3339Nano), run.TotalClips,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordClip upserts one clip outcome for a run.
func (s *Store) RecordClip(ctx context.Context, outcome ClipOutcome) error {
	if outcome.RecordedAt.IsZero() {
		outcome.RecordedAt = time.Now().UTC()
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO clip_outcomes (run_id, sequence, title, state, detail, output_dir, duration_seconds, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id, sequence) DO UPDATE SET
             title = excluded.title,
             state = excluded.state,
             detail = excluded.detail,
             output_dir = excluded.output_dir,
             duration_seconds = excluded.duration_seconds,
             recorded_at = excluded.recorded_at`,
		outcome.RunID, outcome.Sequence, outcome.Title, outcome.State, outcome.Detail,
		outcome.OutputDir, outcome.DurationSeconds, outcome.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record clip outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and outcome totals.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals) error {
	err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, done_clips = ?, skipped_clips = ?, partial_clips = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		totals.Done, totals.Skipped, totals.Partial,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first, at most limit rows.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root_dir, table_path, source_path, started_at, finished_at,
                total_clips, done_clips, skipped_clips, partial_clips
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ClipsForRun returns a run's clip outcomes ordered by sequence.
func (s *Store) ClipsForRun(ctx context.Context, runID string) ([]ClipOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, sequence, title, state, detail, output_dir, duration_seconds, recorded_at
         FROM clip_outcomes WHERE run_id = ? ORDER BY sequence`, runID)
	if err != nil {
		return nil, fmt.Errorf("query clip outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []ClipOutcome
	for rows.Next() {
		var (
			outcome    ClipOutcome
			recordedAt string
		)
		if err := rows.Scan(&outcome.RunID, &outcome.Sequence, &outcome.Title, &outcome.State,
			&outcome.Detail, &outcome.OutputDir, &outcome.DurationSeconds, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan clip outcome: %w", err)
		}
		outcome.RecordedAt = parseTimestamp(recordedAt)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// Cursor returns the last completed sequence number recorded for this
// root, and whether one has been recorded at all.
func (s *Store) Cursor(ctx context.Context) (int, bool, error) {
	var sequence int
	err := s.db.QueryRowContext(ctx, "SELECT last_sequence FROM cursor WHERE id = 1").Scan(&sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read cursor: %w", err)
	}
	return sequence, true, nil
}

// SetCursor persists the last completed sequence number for this root.
func (s *Store) SetCursor(ctx context.Context, sequence int) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO cursor (id, last_sequence, updated_at) VALUES (1, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             last_sequence = excluded.last_sequence,
             updated_at = excluded.updated_at`,
		sequence, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	return nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
	)
	err := rows.Scan(&run.ID, &run.RootDir, &run.TablePath, &run.SourcePath,
		&startedAt, &finishedAt,
		&run.TotalClips, &run.Done, &run.Skipped, &run.Partial)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		t := parseTimestamp(finishedAt.String)
		run.FinishedAt = &t
	}
	return run, nil
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
