package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mixprep/internal/fetch"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <url>",
		Short: "Download one dataset archive, recording failures in the error log",
		Long: `Download fetches a single archive into paths.download_dir as <name>.zip.
An archive that is already present is left untouched. A failed download is
logged and its URL appended to paths.error_log; the command still exits 0.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Usage: mixprep download <url>")
				return errors.New("download requires exactly one url argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			fetcher := fetch.New(
				cfg.Paths.DownloadDir,
				cfg.Paths.ErrorLog,
				time.Duration(cfg.Download.TimeoutSeconds)*time.Second,
				logger,
			)
			fetcher.Progress = progressWriter(cmd.ErrOrStderr())

			pipeline, closer, err := ctx.newPipeline(cmd, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			outcome, _, err := pipeline.Download(cmd.Context(), fetcher, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch outcome.Status {
			case fetch.StatusDownloaded:
				fmt.Fprintf(out, "Downloaded %s\n", outcome.Path)
			case fetch.StatusSkipped:
				fmt.Fprintf(out, "Skipping %s, already exists.\n", outcome.Path)
			default:
				fmt.Fprintf(out, "Error downloading %s: %v\n", outcome.URL, outcome.Err)
			}
			return nil
		},
	}
}
