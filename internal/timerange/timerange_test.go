package timerange

import (
	"errors"
	"math"
	"testing"
)

func TestParseSecondsGrammars(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"90", 90},
		{"90s", 90},
		{"90S", 90},
		{"1:30", 90},
		{"00:01:30", 90},
		{"01:02:03", 3723},
		{"0:05", 5},
		{"10.5", 10.5},
		{"00:00:10.250", 10.25},
		{"2:03.5", 123.5},
	}
	for _, tc := range cases {
		got, err := ParseSeconds(tc.input)
		if err != nil {
			t.Fatalf("ParseSeconds(%q): %v", tc.input, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseSeconds(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseSecondsEquivalentNotations(t *testing.T) {
	// All four grammars for the same instant agree.
	inputs := []string{"90s", "1:30", "00:01:30", "90"}
	for _, input := range inputs {
		got, err := ParseSeconds(input)
		if err != nil {
			t.Fatalf("ParseSeconds(%q): %v", input, err)
		}
		if math.Abs(got-90) > 1e-9 {
			t.Fatalf("ParseSeconds(%q) = %v, want 90", input, got)
		}
	}
}

func TestParseSecondsRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "1:2:3:4", "-5", "1:-30", "::"} {
		if _, err := ParseSeconds(input); err == nil {
			t.Fatalf("ParseSeconds(%q) succeeded, expected error", input)
		}
		var parseErr *ParseError
		_, err := ParseSeconds(input)
		if !errors.As(err, &parseErr) {
			t.Fatalf("ParseSeconds(%q) error %v is not a ParseError", input, err)
		}
	}
}

func TestNormalizePadsAndClamps(t *testing.T) {
	// Table row 00:00:10 - 00:00:20 with default -5s/+5s padding.
	r, err := Normalize("00:00:10", "00:00:20", 5, 5, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 5 || r.End != 25 {
		t.Fatalf("got (%v, %v), want (5, 25)", r.Start, r.End)
	}

	// Start clamps to zero.
	r, err = Normalize("2", "10", 5, 5, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0 || r.End != 15 {
		t.Fatalf("got (%v, %v), want (0, 15)", r.Start, r.End)
	}

	// End clamps to the source duration.
	r, err = Normalize("10", "58", 5, 5, 60)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 5 || r.End != 60 {
		t.Fatalf("got (%v, %v), want (5, 60)", r.Start, r.End)
	}
}

func TestNormalizeIdempotentOnNormalizedRange(t *testing.T) {
	r, err := Normalize("10", "20", 5, 5, 100)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Normalize(FormatSeconds(r.Start), FormatSeconds(r.End), 0, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(again.Start-r.Start) > 1e-3 || math.Abs(again.End-r.End) > 1e-3 {
		t.Fatalf("re-normalization drifted: (%v, %v) vs (%v, %v)", again.Start, again.End, r.Start, r.End)
	}
}

func TestNormalizeDegenerateRange(t *testing.T) {
	// End before padded start after clamping.
	_, err := Normalize("30", "31", 0, 0, 25)
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}

	_, err = Normalize("10", "10", 0, 0, 100)
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for zero-length range, got %v", err)
	}
}

func TestNormalizeEndOrderInvariant(t *testing.T) {
	// End resolving before start is rejected, never swapped.
	_, err := Normalize("20", "10", 0, 0, 100)
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{5, "00:00:05.000"},
		{90.25, "00:01:30.250"},
		{3723.5, "01:02:03.500"},
		{10.2504, "00:00:10.250"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.seconds); got != tc.want {
			t.Fatalf("FormatSeconds(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
