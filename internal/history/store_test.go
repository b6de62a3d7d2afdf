package history

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesDatabaseUnderStateDir(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	want := filepath.Join(root, DirName, Filename)
	if store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "/media/stream", "crop_info.md", "original.mp4", 3)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("StartRun returned empty run ID")
	}

	outcomes := []ClipOutcome{
		{RunID: run.ID, Sequence: 1, Title: "Intro", State: "Done", OutputDir: "1_Intro", DurationSeconds: 42},
		{RunID: run.ID, Sequence: 2, State: "PartiallyFailed", Detail: "ffmpeg exited 1"},
		{RunID: run.ID, Sequence: 3, Title: "Outro", State: "Skipped", Detail: "start >= end after clamping"},
	}
	for _, outcome := range outcomes {
		if err := store.RecordClip(ctx, outcome); err != nil {
			t.Fatalf("RecordClip(%d): %v", outcome.Sequence, err)
		}
	}
	if err := store.FinishRun(ctx, run.ID, Totals{Done: 1, Skipped: 1, Partial: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.TotalClips != 3 || got.Done != 1 || got.Partial != 1 || got.Skipped != 1 {
		t.Errorf("unexpected run row: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("finished run should have FinishedAt set")
	}

	clips, err := store.ClipsForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ClipsForRun: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("got %d clip outcomes, want 3", len(clips))
	}
	if clips[0].Sequence != 1 || clips[0].State != "Done" || clips[0].OutputDir != "1_Intro" {
		t.Errorf("unexpected first outcome: %+v", clips[0])
	}
	if clips[1].Detail != "ffmpeg exited 1" {
		t.Errorf("failure detail not stored: %+v", clips[1])
	}
}

func TestRecordClipUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "/media/stream", "crop_info.md", "original.mp4", 1)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.RecordClip(ctx, ClipOutcome{RunID: run.ID, Sequence: 1, State: "PartiallyFailed", Detail: "transient"}); err != nil {
		t.Fatalf("first RecordClip: %v", err)
	}
	if err := store.RecordClip(ctx, ClipOutcome{RunID: run.ID, Sequence: 1, State: "Done"}); err != nil {
		t.Fatalf("second RecordClip: %v", err)
	}

	clips, err := store.ClipsForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ClipsForRun: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("got %d outcomes, want 1 after upsert", len(clips))
	}
	if clips[0].State != "Done" || clips[0].Detail != "" {
		t.Errorf("upsert did not replace outcome: %+v", clips[0])
	}
}

func TestCursorTracksLastCompletedSequence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Cursor(ctx); err != nil || ok {
		t.Fatalf("Cursor on fresh store = ok=%v err=%v, want no cursor", ok, err)
	}

	if err := store.SetCursor(ctx, 3); err != nil {
		t.Fatalf("SetCursor(3): %v", err)
	}
	if err := store.SetCursor(ctx, 7); err != nil {
		t.Fatalf("SetCursor(7): %v", err)
	}

	seq, ok, err := store.Cursor(ctx)
	if err != nil {
		t.Fatalf("Cursor: %v", err)
	}
	if !ok || seq != 7 {
		t.Errorf("Cursor = %d, ok=%v, want 7, true", seq, ok)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := store.StartRun(context.Background(), root, "crop_info.md", "original.mp4", 0); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("run rows lost across reopen: got %d", len(runs))
	}
}
