package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipper/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <root-dir>",
		Short: "Validate a root folder without processing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checks := preflight.RunAll(cmd.Context(), cfg, args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderChecks(checks, out))
			if !preflight.AllPassed(checks) {
				return fmt.Errorf("preflight checks failed")
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}
