// Package timerange converts the human time notations accepted in clip
// tables into padded, clamped second ranges and formats them back into
// ffmpeg timestamp syntax.
package timerange

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDegenerate marks a range that collapsed to zero or negative length
// after padding and clamping. Callers skip the clip rather than render it.
var ErrDegenerate = errors.New("degenerate time range")

// ParseError reports a timestamp that matched none of the accepted grammars.
type ParseError struct {
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse timestamp %q: %v", e.Input, e.Cause)
	}
	return fmt.Sprintf("parse timestamp %q", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Range holds a normalized clip range in seconds, already padded and
// clamped to the source duration.
type Range struct {
	Start float64
	End   float64
}

// Duration returns the range length in seconds.
func (r Range) Duration() float64 { return r.End - r.Start }

// ParseSeconds converts a timestamp in one of the accepted grammars to
// seconds: "HH:MM:SS", "MM:SS", bare seconds, or seconds with an "s"
// suffix. Two-field input is always MM:SS, never HH:MM. Fields may carry
// fractional parts.
func ParseSeconds(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, &ParseError{Input: value, Cause: errors.New("empty")}
	}

	if strings.Contains(trimmed, ":") {
		parts := strings.Split(trimmed, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return 0, &ParseError{Input: value, Cause: fmt.Errorf("%d colon fields", len(parts))}
		}
		fields := make([]float64, len(parts))
		for i, part := range parts {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || parsed < 0 {
				return 0, &ParseError{Input: value, Cause: fmt.Errorf("field %q", part)}
			}
			fields[i] = parsed
		}
		if len(fields) == 3 {
			return fields[0]*3600 + fields[1]*60 + fields[2], nil
		}
		return fields[0]*60 + fields[1], nil
	}

	if suffixed, ok := strings.CutSuffix(strings.ToLower(trimmed), "s"); ok {
		trimmed = suffixed
	}
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, &ParseError{Input: value, Cause: err}
	}
	return seconds, nil
}

// Normalize parses raw start/end timestamps, applies the pad amounts
// (padStart is subtracted, padEnd added), and clamps both bounds to
// [0, totalDuration]. A totalDuration <= 0 means the source duration is
// unknown and only the lower bound is clamped. Returns ErrDegenerate when
// the clamped range has no positive length.
func Normalize(rawStart, rawEnd string, padStart, padEnd, totalDuration float64) (Range, error) {
	start, err := ParseSeconds(rawStart)
	if err != nil {
		return Range{}, err
	}
	end, err := ParseSeconds(rawEnd)
	if err != nil {
		return Range{}, err
	}

	start -= padStart
	end += padEnd

	start = math.Max(start, 0)
	end = math.Max(end, 0)
	if totalDuration > 0 {
		start = math.Min(start, totalDuration)
		end = math.Min(end, totalDuration)
	}

	if start >= end {
		return Range{}, fmt.Errorf("%w: start %.3fs, end %.3fs", ErrDegenerate, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// FormatSeconds renders seconds as HH:MM:SS.mmm, the syntax ffmpeg accepts
// for -ss/-to. Millisecond precision is kept so cuts stay frame-accurate.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}
