package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"steamload/internal/etl"
	"steamload/internal/probe"
)

func newProbeCmd(a app, fv *flagValues) *cobra.Command {
	var records int

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Sample the input and show how its header maps onto the games table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, a, fv)
			if err != nil {
				return err
			}
			opt := probe.Options{MaxRecords: records, Charset: cfg.Charset}
			// Sniff unless a delimiter was configured explicitly.
			if cfg.Delimiter != "" && (cmd.Flags().Changed("delimiter") || cfg.Delimiter != ",") {
				opt.Delimiter = cfg.Comma()
			}

			rep, err := probe.Run(cmd.Context(), etl.SourceFor(cfg.Input, nil), opt)
			if err != nil {
				return err
			}
			printProbe(cmd.OutOrStdout(), cfg.Input, rep)
			return nil
		},
	}
	cmd.Flags().IntVar(&records, "records", probe.DefaultMaxRecords, "data records to sample")
	return cmd
}

func printProbe(w io.Writer, input string, rep probe.Report) {
	fmt.Fprintf(w, "%s: delimiter=%q sampled=%d ragged=%d\n", input, rep.Delimiter, rep.Sampled, rep.Ragged)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HEADER\tKEY\tMAPPED\tTYPE\tEMPTY")
	for _, c := range rep.Columns {
		mapped := "yes"
		if !c.Known {
			mapped = "ignored"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.Header, c.Key, mapped, c.Type, c.Empty)
	}
	_ = tw.Flush()

	if !rep.HasKey {
		fmt.Fprintln(w, "WARNING: no AppID column; every row would be rejected")
	}
	if n := len(rep.Unknown()); n > 0 {
		fmt.Fprintf(w, "%d column(s) will be ignored\n", n)
	}
}
