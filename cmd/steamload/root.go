package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"steamload/internal/config"
)

// app carries process-level dependencies so tests can run commands without
// touching the real environment.
type app struct {
	lookup config.LookupFunc
	dotenv bool
}

// flagValues mirrors the persistent flags.
type flagValues struct {
	configPath     string
	input          string
	output         string
	batchSize      int
	table          string
	storage        string
	delimiter      string
	charset        string
	metricsBackend string
	pushgatewayURL string
	dogstatsdAddr  string
	verbose        bool
}

func newRootCmd(a app) *cobra.Command {
	return newRootCmdWith(a, &flagValues{})
}

func newRootCmdWith(a app, fv *flagValues) *cobra.Command {
	root := &cobra.Command{
		Use:   "steamload",
		Short: "Import a Steam games CSV export into a SQL table",
		Long: `steamload reads a Steam games CSV export (local path or http(s) URL,
optionally gzip/bzip2/xz/zstd compressed), normalizes every row and loads it
in batches into SQLite or Postgres. Rows whose app_id already exists are
skipped. Secondary indexes are built after the load and summary price
statistics are printed.

Configuration precedence, lowest first: defaults, --config YAML file,
environment (a .env file is loaded first), flags.

Exit Codes:
  0  - Success
  1  - Import failed
  2  - Usage error or invalid configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.dotenv {
				// A missing .env is normal.
				_ = godotenv.Load()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd, a, fv)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "YAML config file")
	pf.StringVar(&fv.input, "input", config.DefaultInput, "input CSV path or http(s) URL ($STEAMLOAD_INPUT)")
	pf.StringVar(&fv.output, "output", config.DefaultOutput, "SQLite path or Postgres DSN ($STEAMLOAD_OUTPUT)")
	pf.IntVar(&fv.batchSize, "batch-size", config.DefaultBatchSize, "rows per transaction ($STEAMLOAD_BATCH_SIZE)")
	pf.StringVar(&fv.table, "table", config.DefaultTable, "destination table ($STEAMLOAD_TABLE)")
	pf.StringVar(&fv.storage, "storage", config.DefaultStorage, "storage backend: sqlite or postgres ($STEAMLOAD_STORAGE)")
	pf.StringVar(&fv.delimiter, "delimiter", config.DefaultDelimiter, `field delimiter, "\t" for tab ($STEAMLOAD_DELIMITER)`)
	pf.StringVar(&fv.charset, "charset", config.DefaultCharset, "input charset ($STEAMLOAD_CHARSET)")
	pf.StringVar(&fv.metricsBackend, "metrics-backend", config.MetricsNone, "metrics backend: none, prometheus, datadog ($METRICS_BACKEND)")
	pf.StringVar(&fv.pushgatewayURL, "pushgateway-url", config.DefaultPushgatewayURL, "Pushgateway base URL ($PUSHGATEWAY_URL)")
	pf.StringVar(&fv.dogstatsdAddr, "dogstatsd-addr", config.DefaultDogStatsDAddr, "DogStatsD address ($DD_DOGSTATSD_ADDR)")
	pf.BoolVarP(&fv.verbose, "verbose", "v", false, "verbose logs (per-batch progress and step timings)")

	root.AddCommand(newRunCmd(a, fv), newValidateCmd(a, fv), newProbeCmd(a, fv))
	return root
}

// resolveConfig layers defaults, the YAML file, the environment and the
// flags the user actually set.
func resolveConfig(cmd *cobra.Command, a app, fv *flagValues) (config.Config, error) {
	cfg := config.Default()

	if fv.configPath != "" {
		if err := config.LoadFile(fv.configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg, a.lookup); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("input", func() { cfg.Input = fv.input })
	set("output", func() { cfg.Output = fv.output })
	set("batch-size", func() { cfg.BatchSize = fv.batchSize })
	set("table", func() { cfg.Table = fv.table })
	set("storage", func() { cfg.Storage = fv.storage })
	set("delimiter", func() { cfg.Delimiter = fv.delimiter })
	set("charset", func() { cfg.Charset = fv.charset })
	set("metrics-backend", func() { cfg.Metrics.Backend = fv.metricsBackend })
	set("pushgateway-url", func() { cfg.Metrics.PushgatewayURL = fv.pushgatewayURL })
	set("dogstatsd-addr", func() { cfg.Metrics.DogStatsDAddr = fv.dogstatsdAddr })
	set("verbose", func() { cfg.Verbose = fv.verbose })

	if cfg.Verbose {
		log.Printf("config: input=%s output=%s storage=%s table=%s batch=%d delimiter=%q charset=%s metrics=%s",
			cfg.Input, cfg.Output, cfg.Storage, cfg.Table, cfg.BatchSize, cfg.Delimiter, cfg.Charset, cfg.Metrics.Backend)
	}
	return cfg, nil
}
