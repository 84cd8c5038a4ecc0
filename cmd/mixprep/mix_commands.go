package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mixprep/internal/batch"
)

func newMixCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mix",
		Short: "Re-render every track's mix from all of its stems",
		Long: `Mix walks paths.audio_dir and, for every track with metadata, loudness
normalizes each stem, averages them and overwrites the mix file the metadata
declares. Tracks without metadata are skipped; failures do not stop the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, closer, err := ctx.newPipeline(cmd, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			summary, err := pipeline.MixAll(cmd.Context())
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}
}

func newMixFilteredCommand(ctx *commandContext) *cobra.Command {
	var (
		all    bool
		sample int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "mix-filtered",
		Short: "Render whitelist-filtered mixes for a random sample of tracks",
		Long: `Mix-filtered picks mixing.sample_size tracks at random from paths.audio_dir,
keeps only stems whose instrument is in mixing.allowed_instruments and whose
file exists, and writes the mix plus trimmed metadata to
paths.modified_dir/<song>/. Tracks with nothing to mix are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := batch.SampleOptions{All: all, Size: cfg.Mixing.SampleSize, Seed: cfg.Mixing.Seed}
			if cmd.Flags().Changed("sample") {
				opts.Size = sample
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}

			pipeline, closer, err := ctx.newPipeline(cmd, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			summary, err := pipeline.MixFiltered(cmd.Context(), opts)
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Process every track instead of a random sample")
	cmd.Flags().IntVar(&sample, "sample", 0, "Number of tracks to sample (overrides mixing.sample_size)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for sampling (overrides mixing.seed)")
	return cmd
}

func newFilterActivationsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "filter-activations",
		Short: "Trim activation tables in the modified tree to the stems each mix kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, closer, err := ctx.newPipeline(cmd, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			summary, err := pipeline.FilterActivations(cmd.Context())
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}
}

func printSummary(out io.Writer, summary batch.Summary) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderSectionHeader(string(summary.Kind), colorize))
	if summary.RunID != "" {
		fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Tracks", statusInfo, fmt.Sprint(summary.Total), colorize))
	fmt.Fprintln(out, renderStatusLine("Succeeded", countKind(summary.Succeeded, statusOK), fmt.Sprint(summary.Succeeded), colorize))
	fmt.Fprintln(out, renderStatusLine("Skipped", countKind(summary.Skipped, statusWarn), fmt.Sprint(summary.Skipped), colorize))
	fmt.Fprintln(out, renderStatusLine("Failed", countKind(summary.Failed, statusError), fmt.Sprint(summary.Failed), colorize))
	for _, f := range summary.Failures {
		fmt.Fprintf(out, "%s  - %s: %v\n", statusIndent, f.Track, f.Err)
	}
}
