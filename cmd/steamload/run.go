package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"steamload/internal/config"
	"steamload/internal/datasource"
	"steamload/internal/etl"
)

func newRunCmd(a app, fv *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the import (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd, a, fv)
		},
	}
}

func runImport(cmd *cobra.Command, a app, fv *flagValues) error {
	cfg, err := resolveConfig(cmd, a, fv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := etl.NewRunID()
	flush := setupMetrics(cfg, runID)
	defer flush()

	if cfg.Verbose && !datasource.IsRemote(cfg.Input) {
		if st, err := os.Stat(cfg.Input); err == nil {
			log.Printf("input: path=%s size=%s", cfg.Input, humanize.Bytes(uint64(st.Size())))
		}
	}

	sum, err := etl.Run(ctx, cfg, etl.WithRunID(runID))
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), cfg, sum)
	return nil
}

// printSummary writes the human-readable end-of-run report.
func printSummary(w io.Writer, cfg config.Config, s etl.Summary) {
	fmt.Fprintf(w, "Imported %s into %s (%s, table %s)\n", cfg.Input, cfg.Output, cfg.Storage, cfg.Table)
	fmt.Fprintf(w, "  run id:          %s\n", s.RunID)
	fmt.Fprintf(w, "  records read:    %s\n", humanize.Comma(int64(s.Records)))
	fmt.Fprintf(w, "  inserted:        %s\n", humanize.Comma(int64(s.Inserted)))
	fmt.Fprintf(w, "  duplicates:      %s\n", humanize.Comma(int64(s.Duplicates)))
	fmt.Fprintf(w, "  failed rows:     %s\n", humanize.Comma(int64(s.Failed)))
	fmt.Fprintf(w, "  batches:         %s\n", humanize.Comma(int64(s.Batches)))
	if s.IndexFailures > 0 {
		fmt.Fprintf(w, "  index failures:  %d\n", s.IndexFailures)
	}
	fmt.Fprintf(w, "  elapsed:         %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  checksum:        %016x\n", s.Checksum)

	fmt.Fprintf(w, "Stats\n")
	fmt.Fprintf(w, "  total rows:      %s\n", humanize.Comma(s.Stats.TotalRows))
	if s.Stats.PricedRows == 0 {
		fmt.Fprintf(w, "  average price:   n/a (no priced games)\n")
		return
	}
	fmt.Fprintf(w, "  average price:   $%s (%s priced games)\n",
		humanize.FormatFloat("#,###.##", s.Stats.AvgPrice), humanize.Comma(s.Stats.PricedRows))
	fmt.Fprintf(w, "  price range:     $%s - $%s\n",
		humanize.FormatFloat("#,###.##", s.Stats.MinPrice), humanize.FormatFloat("#,###.##", s.Stats.MaxPrice))
}
