package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"clipper/internal/pipeline"
	"clipper/internal/preflight"
)

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range header {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paintState(state string, colorize bool) string {
	if !colorize {
		return state
	}
	switch pipeline.State(state) {
	case pipeline.StateDone:
		return text.FgGreen.Sprint(state)
	case pipeline.StateSkipped:
		return text.FgYellow.Sprint(state)
	case pipeline.StatePartiallyFailed:
		return text.FgHiYellow.Sprint(state)
	}
	return state
}

func renderChecks(checks []preflight.Result, out io.Writer) string {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		status := "FAIL"
		if check.Passed {
			status = "ok"
		} else if colorize {
			status = text.FgRed.Sprint(status)
		}
		rows = append(rows, []string{check.Name, status, check.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows)
}

func renderRunSummary(report *pipeline.RunReport, out io.Writer) string {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(report.Clips)+len(report.RowErrors))
	for _, clip := range report.Clips {
		rows = append(rows, []string{
			strconv.Itoa(clip.Sequence),
			clip.Title,
			paintState(clip.State.String(), colorize),
			formatRange(clip.Range),
			truncateDetail(clip.Detail),
		})
	}
	for _, rowErr := range report.RowErrors {
		state := "BadRow"
		if colorize {
			state = text.FgRed.Sprint(state)
		}
		rows = append(rows, []string{
			"-",
			"row " + strconv.Itoa(rowErr.Row),
			state,
			"",
			truncateDetail(rowErr.Cause.Error()),
		})
	}
	return renderTable([]string{"No", "Title", "State", "Range", "Detail"}, rows)
}
