package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/config"
	"clipper/internal/history"
	"clipper/internal/logging"
	"clipper/internal/pipeline"
	"clipper/internal/preflight"
	"clipper/internal/timerange"
	"clipper/internal/transcribe"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		camFlag         string
		screenFlag      string
		watermarkFlag   string
		tableFlag       string
		padStart        float64
		padEnd          float64
		noTranscribe    bool
		forceTranscribe bool
	)

	cmd := &cobra.Command{
		Use:   "run <root-dir>",
		Short: "Process every clip in a root folder's table",
		Long: "Run parses the clip table in the root folder, cuts each clip out of the " +
			"source recording, and writes the five artifacts, metadata, and subtitles " +
			"into a numbered folder per clip. Clips that already have artifacts from a " +
			"prior run are not re-rendered.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg

			if camFlag != "" {
				if _, err := config.ParseRect(camFlag); err != nil {
					return fmt.Errorf("--cam: %w", err)
				}
				runCfg.Crops.Cam = camFlag
			}
			if screenFlag != "" {
				if _, err := config.ParseRect(screenFlag); err != nil {
					return fmt.Errorf("--screen: %w", err)
				}
				runCfg.Crops.Screen = screenFlag
			}
			if cmd.Flags().Changed("pad-start") {
				runCfg.Clip.PadStartSeconds = padStart
			}
			if cmd.Flags().Changed("pad-end") {
				runCfg.Clip.PadEndSeconds = padEnd
			}
			if cmd.Flags().Changed("watermark") {
				runCfg.Clip.Watermark = watermarkFlag
			}
			if tableFlag != "" {
				runCfg.Paths.TableFile = tableFlag
			}
			if noTranscribe {
				runCfg.Transcription.Enabled = false
			}
			if err := runCfg.Validate(); err != nil {
				return err
			}

			root := args[0]

			// Preflight runs before anything touches the root folder.
			checks := preflight.RunAll(cmd.Context(), &runCfg, root)
			if !preflight.AllPassed(checks) {
				fmt.Fprintln(cmd.OutOrStdout(), renderChecks(checks, cmd.OutOrStdout()))
				return fmt.Errorf("preflight checks failed")
			}

			logger, err := logging.NewForRun(&runCfg, filepath.Join(root, runCfg.Paths.LogDir))
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			var opts []pipeline.Option
			if runCfg.History.Enabled {
				store, err := history.Open(root)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				opts = append(opts, pipeline.WithHistory(store))
			}
			if runCfg.Transcription.Enabled {
				bridge, err := buildBridge(&runCfg, logger, forceTranscribe)
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithTranscription(bridge))
			}

			report, err := pipeline.New(&runCfg, logger, opts...).Run(cmd.Context(), root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRunSummary(report, out))
			totals := report.Totals()
			if !report.AllDone() {
				return fmt.Errorf("run finished with problems: %d done, %d skipped, %d partial, %d bad rows",
					totals.Done, totals.Skipped, totals.Partial, len(report.RowErrors))
			}
			fmt.Fprintf(out, "All %d clips complete.\n", totals.Done)
			return nil
		},
	}

	cmd.Flags().StringVar(&camFlag, "cam", "", "Camera crop rectangle in W:H:X:Y notation")
	cmd.Flags().StringVar(&screenFlag, "screen", "", "Screen crop rectangle in W:H:X:Y notation")
	cmd.Flags().Float64Var(&padStart, "pad-start", 0, "Seconds subtracted from each clip's start")
	cmd.Flags().Float64Var(&padEnd, "pad-end", 0, "Seconds added to each clip's end")
	cmd.Flags().StringVar(&watermarkFlag, "watermark", "", "Text burned into the corner of visual artifacts")
	cmd.Flags().StringVar(&tableFlag, "table", "", "Clip table file name inside the root folder")
	cmd.Flags().BoolVar(&noTranscribe, "no-transcribe", false, "Skip transcription and translation")
	cmd.Flags().BoolVar(&forceTranscribe, "force-transcribe", false, "Re-transcribe even when subtitle files exist")

	return cmd
}

func buildBridge(cfg *config.Config, logger *slog.Logger, force bool) (*transcribe.Bridge, error) {
	client, err := transcribe.NewOpenAIClient(cfg.Transcription)
	if err != nil {
		return nil, err
	}
	var translator transcribe.Translator
	if cfg.Transcription.Translate {
		translator = client
	}
	bridge := transcribe.NewBridge(client, translator,
		cfg.Transcription.TargetLanguage, cfg.Transcription.SplitByHour, logger)
	bridge.SetForce(force)
	return bridge, nil
}

func formatRange(rng timerange.Range) string {
	if rng.Duration() <= 0 {
		return ""
	}
	return timerange.FormatSeconds(rng.Start) + " - " + timerange.FormatSeconds(rng.End)
}

func truncateDetail(detail string) string {
	detail = strings.ReplaceAll(detail, "\n", " ")
	const max = 80
	if len(detail) <= max {
		return detail
	}
	return detail[:max-3] + "..."
}
