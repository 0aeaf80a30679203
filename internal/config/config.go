// Package config defines the run configuration for a steamload import.
//
// Values are layered, lowest precedence first:
//
//  1. Default()
//  2. an optional YAML file (LoadFile)
//  3. environment variables (ApplyEnv), after a .env file has been loaded
//  4. command-line flags, applied by the CLI
//
// Example YAML (every key optional):
//
//	input: data/games.csv.gz
//	output: steam_games.db
//	storage: sqlite
//	table: steam_games
//	batch_size: 5000
//	delimiter: ","
//	charset: utf-8
//	metrics:
//	  backend: prometheus
//	  pushgateway_url: http://pushgateway:9091
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by LoadFile when the file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Defaults.
const (
	DefaultInput          = "games.csv"
	DefaultOutput         = "steam_games.db"
	DefaultBatchSize      = 1000
	DefaultTable          = "steam_games"
	DefaultStorage        = "sqlite"
	DefaultDelimiter      = ","
	DefaultCharset        = "utf-8"
	DefaultPushgatewayURL = "http://localhost:9091"
	DefaultDogStatsDAddr  = "127.0.0.1:8125"
)

// Metrics backend names.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsDatadog    = "datadog"
)

// Config is the full set of options for one import run.
type Config struct {
	// Input is a local path or an http(s) URL. Compressed inputs are detected
	// by extension.
	Input string `yaml:"input"`

	// Output is the SQLite database path, or the connection string when
	// Storage is "postgres".
	Output string `yaml:"output"`

	BatchSize int    `yaml:"batch_size"`
	Table     string `yaml:"table"`
	Storage   string `yaml:"storage"`
	Delimiter string `yaml:"delimiter"`
	Charset   string `yaml:"charset"`

	Metrics Metrics `yaml:"metrics"`

	Verbose bool `yaml:"verbose"`
}

// Metrics selects and configures the metrics backend.
type Metrics struct {
	Backend        string `yaml:"backend"`
	PushgatewayURL string `yaml:"pushgateway_url"`
	DogStatsDAddr  string `yaml:"dogstatsd_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:     DefaultInput,
		Output:    DefaultOutput,
		BatchSize: DefaultBatchSize,
		Table:     DefaultTable,
		Storage:   DefaultStorage,
		Delimiter: DefaultDelimiter,
		Charset:   DefaultCharset,
		Metrics: Metrics{
			Backend:        MetricsNone,
			PushgatewayURL: DefaultPushgatewayURL,
			DogStatsDAddr:  DefaultDogStatsDAddr,
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file
// leave cfg untouched.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Environment variable names read by ApplyEnv.
const (
	EnvInput          = "STEAMLOAD_INPUT"
	EnvOutput         = "STEAMLOAD_OUTPUT"
	EnvBatchSize      = "STEAMLOAD_BATCH_SIZE"
	EnvTable          = "STEAMLOAD_TABLE"
	EnvStorage        = "STEAMLOAD_STORAGE"
	EnvDelimiter      = "STEAMLOAD_DELIMITER"
	EnvCharset        = "STEAMLOAD_CHARSET"
	EnvMetricsBackend = "METRICS_BACKEND"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvDogStatsDAddr  = "DD_DOGSTATSD_ADDR"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays set, non-empty environment variables onto cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvInput, &cfg.Input)
	str(EnvOutput, &cfg.Output)
	str(EnvTable, &cfg.Table)
	str(EnvStorage, &cfg.Storage)
	str(EnvDelimiter, &cfg.Delimiter)
	str(EnvCharset, &cfg.Charset)
	str(EnvMetricsBackend, &cfg.Metrics.Backend)
	str(EnvPushgatewayURL, &cfg.Metrics.PushgatewayURL)
	str(EnvDogStatsDAddr, &cfg.Metrics.DogStatsDAddr)

	if v, ok := lookup(EnvBatchSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s=%q: not an integer", EnvBatchSize, v)
		}
		cfg.BatchSize = n
	}
	return nil
}

// Comma returns the delimiter as a rune. "\t" and "tab" spell a tab. It
// returns utf8.RuneError when the delimiter is not exactly one rune.
func (c Config) Comma() rune {
	switch strings.ToLower(c.Delimiter) {
	case `\t`, "tab":
		return '\t'
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
