package transcribe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3661.042, "01:01:01,042"},
		{-3, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	for _, value := range []float64{0, 0.25, 59.999, 3725.5} {
		parsed, err := ParseTimestamp(FormatTimestamp(value))
		if err != nil {
			t.Fatalf("ParseTimestamp: %v", err)
		}
		if parsed != value {
			t.Errorf("round trip %v -> %v", value, parsed)
		}
	}
	if _, err := ParseTimestamp("12:34"); err == nil {
		t.Error("expected error for truncated timestamp")
	}
}

func TestWriteSRTOrdersAndSanitizes(t *testing.T) {
	var b strings.Builder
	err := WriteSRT(&b, []Segment{
		{Start: 5, End: 7, Text: "second"},
		{Start: 1, End: 2, Text: "first --> arrow"},
		{Start: 2, End: 2, Text: "zero length dropped"},
		{Start: 8, End: 9, Text: "   "},
	})
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	out := b.String()
	if !strings.HasPrefix(out, "1\n00:00:01,000 --> 00:00:02,000\nfirst -> arrow\n") {
		t.Errorf("unexpected first cue:\n%s", out)
	}
	if !strings.Contains(out, "2\n00:00:05,000 --> 00:00:07,000\nsecond\n") {
		t.Errorf("missing second cue:\n%s", out)
	}
	if strings.Contains(out, "dropped") || strings.Count(out, "-->") != 2 {
		t.Errorf("degenerate or blank cues leaked:\n%s", out)
	}
}

func TestWriteSRTClampsOverlap(t *testing.T) {
	var b strings.Builder
	err := WriteSRT(&b, []Segment{
		{Start: 0, End: 4, Text: "one"},
		{Start: 3, End: 6, Text: "two"},
	})
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if !strings.Contains(b.String(), "00:00:04,000 --> 00:00:06,000") {
		t.Errorf("second cue not clamped to previous end:\n%s", b.String())
	}
}

func TestParseSRT(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:02,500\nhello\nthere\n\n" +
		"2\nnot a timestamp\nskipped\n\n" +
		"3\n00:00:03.000 --> 00:00:04,000\nperiod separator\n"
	segments, err := ParseSRT(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "hello\nthere" || segments[0].End != 2.5 {
		t.Errorf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Start != 3 {
		t.Errorf("period-separated timestamp not parsed: %+v", segments[1])
	}
}

func TestSplitByHourShortTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.srt")
	if err := WriteSRTFile(path, []Segment{{Start: 10, End: 12, Text: "short"}}); err != nil {
		t.Fatalf("WriteSRTFile: %v", err)
	}
	chunks, err := SplitByHour(path)
	if err != nil {
		t.Fatalf("SplitByHour: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected no chunks for a sub-hour transcript, got %v", chunks)
	}
}

func TestSplitByHourMultiHour(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.srt")
	err := WriteSRTFile(path, []Segment{
		{Start: 30, End: 32, Text: "hour zero"},
		{Start: 3700, End: 3705, Text: "hour one"},
		{Start: 7300, End: 7302, Text: "hour two"},
	})
	if err != nil {
		t.Fatalf("WriteSRTFile: %v", err)
	}

	chunks, err := SplitByHour(path)
	if err != nil {
		t.Fatalf("SplitByHour: %v", err)
	}
	want := []string{
		filepath.Join(dir, "transcript-chunked", "transcript-0.srt"),
		filepath.Join(dir, "transcript-chunked", "transcript-1.srt"),
		filepath.Join(dir, "transcript-chunked", "transcript-2.srt"),
	}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i, chunk := range chunks {
		if chunk != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunk, want[i])
		}
	}

	data, err := os.ReadFile(chunks[1])
	if err != nil {
		t.Fatalf("read chunk: %v", err)
	}
	// Timestamps stay absolute inside chunks.
	if !strings.Contains(string(data), "01:01:40,000") {
		t.Errorf("hour-one chunk lost absolute timing:\n%s", data)
	}
}
