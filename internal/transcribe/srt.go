package transcribe

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"clipper/internal/fileutil"
)

// Segment is one subtitle cue with second-precision bounds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// FormatTimestamp renders seconds in standard SRT form: HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
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
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT timestamp (comma or period millisecond
// separator) back to seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ".", ","))
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid srt timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid srt timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid srt timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// WriteSRT renders segments as an SRT document. Cues are sorted by start
// time and clamped so timestamps increase monotonically without overlap;
// "-->" inside cue text is rewritten so it cannot corrupt the format.
func WriteSRT(w io.Writer, segments []Segment) error {
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	bw := bufio.NewWriter(w)
	index := 0
	var lastEnd float64
	for _, segment := range ordered {
		text := strings.ReplaceAll(strings.TrimSpace(segment.Text), "-->", "->")
		if text == "" {
			continue
		}
		start := math.Max(segment.Start, lastEnd)
		end := segment.End
		if end <= start {
			continue
		}
		index++
		lastEnd = end
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", index, FormatTimestamp(start), FormatTimestamp(end), text)
	}
	return bw.Flush()
}

// WriteSRTFile writes segments to path atomically.
func WriteSRTFile(path string, segments []Segment) error {
	var b strings.Builder
	if err := WriteSRT(&b, segments); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644)
}

// ParseSRT reads an SRT document back into segments. Blocks with
// malformed timestamps are skipped rather than failing the parse.
func ParseSRT(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	var segments []Segment
	blocks := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		// lines[0] is the cue index; the timestamp row follows.
		timeRow := lines[1]
		if !strings.Contains(timeRow, "-->") {
			continue
		}
		parts := strings.SplitN(timeRow, "-->", 2)
		start, errStart := ParseTimestamp(parts[0])
		end, errEnd := ParseTimestamp(parts[1])
		if errStart != nil || errEnd != nil {
			continue
		}
		segments = append(segments, Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}
	return segments, nil
}

// SplitByHour splits an SRT file into per-hour chunk files under a
// "<name>-chunked" directory beside it: transcript.srt produces
// transcript-chunked/transcript-0.srt for hour 0, and so on. Timestamps
// stay absolute so the chunks still map to the full-length source.
func SplitByHour(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer file.Close()

	segments, err := ParseSRT(file)
	if err != nil {
		return nil, err
	}

	byHour := map[int][]Segment{}
	for _, segment := range segments {
		hour := int(segment.Start) / 3600
		byHour[hour] = append(byHour[hour], segment)
	}
	if len(byHour) <= 1 {
		return nil, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	chunkDir := filepath.Join(filepath.Dir(path), base+"-chunked")
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}

	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	var written []string
	for _, hour := range hours {
		chunkPath := filepath.Join(chunkDir, fmt.Sprintf("%s-%d.srt", base, hour))
		if err := WriteSRTFile(chunkPath, byHour[hour]); err != nil {
			return written, err
		}
		written = append(written, chunkPath)
	}
	return written, nil
}
