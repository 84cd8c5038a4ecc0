package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mixprep/internal/ledger"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					string(run.Kind),
					string(run.Status),
					formatTime(run.StartedAt),
					strconv.Itoa(run.Tracks),
					strconv.Itoa(run.Succeeded),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable("",
				[]string{"ID", "Kind", "Status", "Started", "Tracks", "OK", "Skipped", "Failed"},
				rows, 4, 5, 6, 7))
			return nil
		},
	}

	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show per-track results of a run (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			results, err := store.Results(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderSectionHeader("Run "+run.ID, colorize))
			fmt.Fprintln(out, renderStatusLine("Kind", statusInfo, string(run.Kind), colorize))
			fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), string(run.Status), colorize))
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatTime(run.StartedAt), colorize))
			if !run.FinishedAt.IsZero() {
				fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(), colorize))
			}
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(results))
			for _, res := range results {
				detail := res.OutputPath
				if res.Message != "" {
					detail = res.Message
				}
				if res.ErrorKind != "" {
					detail = res.ErrorKind + ": " + detail
				}
				rows = append(rows, []string{
					res.Track,
					string(res.Outcome),
					strconv.Itoa(res.Stems),
					strconv.Itoa(res.Dropped),
					res.Duration.Round(time.Millisecond).String(),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable("", []string{"Track", "Outcome", "Stems", "Dropped", "Time", "Detail"}, rows, 2, 3, 4))
			return nil
		},
	}
}

func runStatusKind(status ledger.RunStatus) statusKind {
	switch status {
	case ledger.RunCompleted:
		return statusOK
	case ledger.RunCancelled:
		return statusWarn
	default:
		return statusInfo
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
