package cliptable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrFormat marks structural table problems that abort the whole parse:
// unrecognized format, missing required columns, duplicate sequence numbers.
var ErrFormat = errors.New("clip table format error")

// Format identifies the physical table format.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkdown
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Spec is one validated row of the clip table. Fields beyond the time
// range are free text, trimmed but otherwise copied verbatim.
type Spec struct {
	Sequence int
	Start    string
	End      string
	Summary  string
	Title    string
	Hook     string
	// Row is the 1-based data row index in the source table.
	Row int
}

// RowError reports one unusable row, carrying its 1-based data row index.
type RowError struct {
	Row   int
	Cause error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Cause)
}

func (e RowError) Unwrap() error { return e.Cause }

// Result holds the valid rows in table order plus the rows that failed
// per-row validation. The caller decides whether partial input is enough.
type Result struct {
	Format    Format
	Specs     []Spec
	RowErrors []RowError
}

// Required column names, matched case-insensitively.
const (
	colNo      = "no"
	colStart   = "start"
	colEnd     = "end"
	colSummary = "summary"
	colTitle   = "title"
	colHook    = "hook"
)

// ParseFile reads and parses the table at path. Format detection is by
// file extension first, content sniffing as fallback.
func ParseFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read clip table: %w", err)
	}
	content := string(data)
	return Parse(content, DetectFormat(path, content))
}

// DetectFormat resolves the physical format from the file extension, then
// from the content: a markdown table always carries a dash separator row.
func DetectFormat(path, content string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".csv":
		return FormatCSV
	}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.Contains(trimmed, "---") {
			return FormatMarkdown
		}
	}
	if strings.Contains(content, ",") {
		return FormatCSV
	}
	return FormatUnknown
}

// Parse tokenizes content in the given format and validates rows into
// specs. Both formats normalize into the same header + row-record shape
// before validation.
func Parse(content string, format Format) (Result, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)
	switch format {
	case FormatMarkdown:
		header, rows, err = tokenizeMarkdown(content)
	case FormatCSV:
		header, rows, err = tokenizeCSV(content)
	default:
		return Result{}, fmt.Errorf("%w: unrecognized table format", ErrFormat)
	}
	if err != nil {
		return Result{}, err
	}

	columns, err := matchColumns(header)
	if err != nil {
		return Result{}, err
	}

	result := Result{Format: format}
	seen := make(map[int]int, len(rows))
	for i, cells := range rows {
		rowIndex := i + 1
		spec, rowErr := buildSpec(columns, cells, rowIndex)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			continue
		}
		if prior, dup := seen[spec.Sequence]; dup {
			return Result{}, fmt.Errorf("%w: duplicate sequence number %d (rows %d and %d)",
				ErrFormat, spec.Sequence, prior, rowIndex)
		}
		seen[spec.Sequence] = rowIndex
		result.Specs = append(result.Specs, spec)
	}
	return result, nil
}

type columnMap struct {
	no      int
	start   int
	end     int
	summary int
	title   int
	hook    int
}

func matchColumns(header []string) (columnMap, error) {
	columns := columnMap{no: -1, start: -1, end: -1, summary: -1, title: -1, hook: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colNo:
			columns.no = i
		case colStart:
			columns.start = i
		case colEnd:
			columns.end = i
		case colSummary:
			columns.summary = i
		case colTitle:
			columns.title = i
		case colHook:
			columns.hook = i
		}
	}
	var missing []string
	if columns.no < 0 {
		missing = append(missing, "No")
	}
	if columns.start < 0 {
		missing = append(missing, "Start")
	}
	if columns.end < 0 {
		missing = append(missing, "End")
	}
	if len(missing) > 0 {
		return columns, fmt.Errorf("%w: missing required columns %s", ErrFormat, strings.Join(missing, ", "))
	}
	return columns, nil
}

func buildSpec(columns columnMap, cells []string, rowIndex int) (Spec, *RowError) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	noText := cell(columns.no)
	start := cell(columns.start)
	end := cell(columns.end)
	if noText == "" || start == "" || end == "" {
		return Spec{}, &RowError{Row: rowIndex, Cause: errors.New("missing No, Start, or End value")}
	}
	sequence, err := strconv.Atoi(noText)
	if err != nil || sequence <= 0 {
		return Spec{}, &RowError{Row: rowIndex, Cause: fmt.Errorf("No %q is not a positive integer", noText)}
	}

	return Spec{
		Sequence: sequence,
		Start:    start,
		End:      end,
		Summary:  cell(columns.summary),
		Title:    cell(columns.title),
		Hook:     cell(columns.hook),
		Row:      rowIndex,
	}, nil
}

// tokenizeMarkdown extracts the header and data rows from a pipe table.
// The header is the first pipe row; the dash separator row that follows is
// required, everything before the header is ignored.
func tokenizeMarkdown(content string) ([]string, [][]string, error) {
	var header []string
	var rows [][]string
	separatorSeen := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		cells := splitPipeRow(trimmed)
		switch {
		case header == nil:
			header = cells
		case !separatorSeen:
			if !isSeparatorRow(cells) {
				return nil, nil, fmt.Errorf("%w: markdown table missing separator row", ErrFormat)
			}
			separatorSeen = true
		default:
			rows = append(rows, cells)
		}
	}

	if header == nil || !separatorSeen {
		return nil, nil, fmt.Errorf("%w: no markdown table found", ErrFormat)
	}
	return header, rows, nil
}

func splitPipeRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}
	return true
}

// tokenizeCSV reads a CSV table with a required header row.
func tokenizeCSV(content string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty csv table", ErrFormat)
	}
	return records[0], records[1:], nil
}
