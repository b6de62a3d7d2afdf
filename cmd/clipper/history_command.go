package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history <root-dir>",
		Short: "Show past runs recorded for a root folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			store, err := history.Open(args[0])
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				clips, err := store.ClipsForRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(clips) == 0 {
					fmt.Fprintf(out, "No clips recorded for run %s.\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(clips))
				colorize := shouldColorize(out)
				for _, clip := range clips {
					rows = append(rows, []string{
						strconv.Itoa(clip.Sequence),
						clip.Title,
						paintState(clip.State, colorize),
						fmt.Sprintf("%.1fs", clip.DurationSeconds),
						truncateDetail(clip.Detail),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"No", "Title", "State", "Length", "Detail"}, rows))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					runDuration(run),
					fmt.Sprintf("%d/%d", run.Done, run.TotalClips),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Partial),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Run", "Started", "Took", "Done", "Skipped", "Partial"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-clip outcomes for one run ID")
	return cmd
}

func runDuration(run history.Run) string {
	if run.FinishedAt == nil {
		return "unfinished"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
