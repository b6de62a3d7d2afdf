package history

import "time"

// Run records one pipeline invocation against a root folder.
type Run struct {
	ID         string
	RootDir    string
	TablePath  string
	SourcePath string
	StartedAt  time.Time
	FinishedAt *time.Time
	TotalClips int
	Done       int
	Skipped    int
	Partial    int
}

// Totals summarizes a finished run's clip outcomes.
type Totals struct {
	Done    int
	Skipped int
	Partial int
}

// ClipOutcome records the terminal state of one clip within a run.
// State holds the pipeline state name (Done, Skipped, or
// PartiallyFailed); Detail carries the failure message when there is
// one.
type ClipOutcome struct {
	RunID           string
	Sequence        int
	Title           string
	State           string
	Detail          string
	OutputDir       string
	DurationSeconds float64
	RecordedAt      time.Time
}
