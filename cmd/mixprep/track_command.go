package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mixprep/internal/layout"
	"mixprep/internal/track"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "Inspect track directories",
	}
	trackCmd.AddCommand(newTrackShowCommand())
	return trackCmd
}

func newTrackShowCommand() *cobra.Command {
	var decode bool

	cmd := &cobra.Command{
		Use:         "show <dir>",
		Short:       "Show a track's stems, instruments and activation table",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := track.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader(mt.Name(), colorize))
			fmt.Fprintln(out, renderStatusLine("Directory", statusInfo, mt.Dir(), colorize))
			fmt.Fprintln(out, renderStatusLine("Mix", statusOK, filepath.Base(mt.MixPath()), colorize))
			fmt.Fprintln(out, renderStatusLine("Instruments", statusInfo, strings.Join(quoteAll(mt.Instruments()), ", "), colorize))
			table := mt.Activations()
			fmt.Fprintln(out, renderStatusLine("Activations", statusInfo,
				fmt.Sprintf("%d columns, %d rows", len(table.Columns), len(table.Rows)), colorize))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(mt.Metadata().Stems))
			for _, stem := range mt.Metadata().Stems {
				label, _ := stem.Instrument.Label()
				rows = append(rows, []string{stem.ID, stem.Filename, label})
			}
			fmt.Fprintln(out, renderTable("Metadata stems", []string{"ID", "File", "Instrument"}, rows))

			headers := []string{"Index", "File"}
			if decode {
				headers = append(headers, "Rate", "Seconds")
			}
			fileRows := make([][]string, 0, len(mt.StemPaths()))
			for _, path := range mt.StemPaths() {
				idx, _ := layout.StemIndex(path)
				row := []string{strconv.Itoa(idx), filepath.Base(path)}
				if decode {
					sig, err := mt.Stem(idx)
					if err != nil {
						return err
					}
					row = append(row, strconv.Itoa(sig.SampleRate), fmt.Sprintf("%.2f", sig.Duration().Seconds()))
				}
				fileRows = append(fileRows, row)
			}
			if decode {
				fmt.Fprintln(out, renderTable("Stem files", headers, fileRows, 0, 2, 3))
			} else {
				fmt.Fprintln(out, renderTable("Stem files", headers, fileRows, 0))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "Decode each stem and report its sample rate and length")
	return cmd
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Quote(v)
	}
	return out
}
