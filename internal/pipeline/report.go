package pipeline

import (
	"time"

	"clipper/internal/cliptable"
	"clipper/internal/history"
	"clipper/internal/render"
	"clipper/internal/timerange"
	"clipper/internal/transcribe"
)

// ClipReport records one clip's outcome.
type ClipReport struct {
	Sequence  int
	Title     string
	State     State
	Detail    string
	OutputDir string
	Range     timerange.Range
	Artifacts []render.Result
	Subtitles transcribe.Outputs
}

// RunReport summarizes a whole pipeline run. Clips appear in table
// order; RowErrors lists table rows that never became clips.
type RunReport struct {
	RunID          string
	RootDir        string
	TablePath      string
	SourcePath     string
	SourceDuration float64
	StartedAt      time.Time
	FinishedAt     time.Time
	Clips          []ClipReport
	RowErrors      []cliptable.RowError
}

// Totals counts clips by terminal state.
func (r *RunReport) Totals() history.Totals {
	var totals history.Totals
	for _, clip := range r.Clips {
		switch clip.State {
		case StateDone:
			totals.Done++
		case StateSkipped:
			totals.Skipped++
		case StatePartiallyFailed:
			totals.Partial++
		}
	}
	return totals
}

// AllDone reports whether every clip reached Done and the table had no
// bad rows. This is the CLI's success criterion.
func (r *RunReport) AllDone() bool {
	if len(r.RowErrors) > 0 {
		return false
	}
	for _, clip := range r.Clips {
		if clip.State != StateDone {
			return false
		}
	}
	return true
}
