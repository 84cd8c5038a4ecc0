package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mixprep/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that configured directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Target loudness", statusInfo, fmt.Sprintf("%.1f LUFS", cfg.Mixing.TargetLUFS), colorize))
			fmt.Fprintln(out, renderStatusLine("Allowed instruments", statusInfo, fmt.Sprint(len(cfg.Mixing.AllowedInstruments)), colorize))
			fmt.Fprintln(out, renderStatusLine("Workers", statusInfo, fmt.Sprint(cfg.Mixing.Workers), colorize))
			fmt.Fprintln(out)

			fmt.Fprintln(out, renderSectionHeader("Directories", colorize))
			results := preflight.RunAll(cfg)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
