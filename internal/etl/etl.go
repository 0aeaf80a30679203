// Package etl runs one import: it opens the store, streams the source through
// the CSV reader and the row transformer, loads rows in batches, then builds
// the secondary indexes and reports summary statistics.
//
// Concurrency model:
//
//	reader + transformer (1 goroutine)
//	     → bounded channel (capacity = batch size)
//	     → LoadBatches → Writer.WriteBatch (1 goroutine)
//
// Batches are committed in read order and never overlap. Any fatal error
// cancels the shared context; the store is always closed before Run returns.
package etl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"steamload/internal/config"
	"steamload/internal/datasource"
	"steamload/internal/datasource/file"
	"steamload/internal/datasource/httpds"
	"steamload/internal/failure"
	"steamload/internal/metrics"
	"steamload/internal/parser/csv"
	"steamload/internal/schema"
	"steamload/internal/storage"
	"steamload/internal/transformer"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Job is the metrics job label for import runs.
const Job = "steamload"

// ErrInvalidConfig is returned when the configuration has validation errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// Summary reports the outcome of a run.
type Summary struct {
	RunID string

	// Records is the number of data records read from the source.
	Records    int
	Inserted   int
	Duplicates int
	Failed     int
	Batches    int

	// Ragged counts records whose field count differed from the header.
	Ragged int

	IndexesBuilt  int
	IndexFailures int

	Stats storage.Stats

	// Checksum is the xxh3-64 digest of the raw source bytes.
	Checksum uint64

	Elapsed time.Duration
}

type runOptions struct {
	source     datasource.Source
	httpClient *httpds.Client
	runID      string
}

// Option tunes Run.
type Option func(*runOptions)

// WithSource overrides the source derived from cfg.Input.
func WithSource(src datasource.Source) Option {
	return func(o *runOptions) { o.source = src }
}

// WithHTTPClient sets the client used for http(s) inputs.
func WithHTTPClient(c *httpds.Client) Option {
	return func(o *runOptions) { o.httpClient = c }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(o *runOptions) { o.runID = id }
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// SourceFor returns the source for an input location: an HTTP source for
// http(s) URLs, a local file otherwise.
func SourceFor(input string, client *httpds.Client) datasource.Source {
	if datasource.IsRemote(input) {
		return httpds.NewSource(input, client)
	}
	return file.NewLocal(input)
}

// Run executes one import described by cfg.
//
// Fatal errors (store open, schema, source read) are returned wrapped in
// their failure taxonomy; per-row insert failures are counted in the summary
// and never fail the run. Close errors are joined into the returned error.
func Run(ctx context.Context, cfg config.Config, opts ...Option) (sum Summary, err error) {
	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = NewRunID()
	}
	sum.RunID = o.runID

	start := time.Now()
	defer func() { sum.Elapsed = time.Since(start) }()

	for _, iss := range config.Validate(cfg) {
		if iss.Severity == config.SeverityError {
			return sum, fmt.Errorf("%w: %s", ErrInvalidConfig, iss.Error())
		}
	}

	if cfg.Verbose {
		log.Printf("run: id=%s input=%s storage=%s output=%s table=%s batch=%d",
			o.runID, cfg.Input, cfg.Storage, cfg.Output, cfg.Table, cfg.BatchSize)
	}

	// 1) store
	var w storage.Writer
	err = step("open_store", cfg.Verbose, func() error {
		var oerr error
		w, oerr = storage.New(ctx, storage.Config{
			Kind:      cfg.Storage,
			DSN:       cfg.Output,
			Table:     cfg.Table,
			BatchSize: cfg.BatchSize,
		})
		if oerr != nil && !errors.Is(oerr, failure.ErrIO) {
			oerr = failure.IO("open store", oerr)
		}
		return oerr
	})
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()

	// 2) schema
	if err = step("ensure_schema", cfg.Verbose, func() error { return w.EnsureSchema(ctx) }); err != nil {
		return sum, err
	}

	// 3) source + reader
	src := o.source
	if src == nil {
		src = SourceFor(cfg.Input, o.httpClient)
	}
	var r *csv.Reader
	err = step("open_source", cfg.Verbose, func() error {
		rc, oerr := src.Open(ctx)
		if oerr != nil {
			return oerr
		}
		copt := csv.DefaultOptions()
		copt.Comma = cfg.Comma()
		copt.Charset = cfg.Charset
		r, oerr = csv.NewReader(rc, copt)
		return oerr
	})
	if err != nil {
		return sum, err
	}
	defer r.Close()

	// 4) stream + load
	var loaded storage.LoadResult
	err = step("load", cfg.Verbose, func() error {
		var lerr error
		loaded, lerr = pump(ctx, r, w, cfg.BatchSize, cfg.Verbose)
		return lerr
	})
	sum.Records = r.Records()
	sum.Ragged = r.Ragged()
	sum.Checksum = r.Checksum()
	sum.Batches = loaded.Batches
	sum.Inserted = loaded.Inserted
	sum.Duplicates = loaded.Duplicates
	sum.Failed = loaded.Failed
	recordRows(sum)
	if err != nil {
		return sum, err
	}

	// 5) indexes
	var report storage.IndexReport
	err = step("build_indexes", cfg.Verbose, func() error {
		var ierr error
		report, ierr = w.BuildIndexes(ctx)
		return ierr
	})
	if err != nil {
		return sum, err
	}
	sum.IndexesBuilt = report.Built()
	sum.IndexFailures = len(report.Failed())
	for _, f := range report.Failed() {
		log.Printf("WARN etl: index %s not built: %v", f.Name, f.Err)
	}
	metrics.RecordIndexFailures(Job, int64(sum.IndexFailures))

	// 6) stats
	err = step("stats", cfg.Verbose, func() error {
		var serr error
		sum.Stats, serr = w.Stats(ctx)
		return serr
	})
	if err != nil {
		return sum, err
	}

	if accounted := sum.Inserted + sum.Duplicates + sum.Failed; accounted != sum.Records {
		log.Printf("WARN etl: row accounting mismatch: records=%d accounted=%d", sum.Records, accounted)
	}
	log.Printf(
		"summary: run_id=%s records=%d inserted=%d duplicates=%d failed=%d batches=%d ragged=%d index_failures=%d checksum=%016x elapsed=%s",
		sum.RunID, sum.Records, sum.Inserted, sum.Duplicates, sum.Failed, sum.Batches,
		sum.Ragged, sum.IndexFailures, sum.Checksum, time.Since(start).Truncate(time.Millisecond),
	)
	return sum, nil
}

// pump runs the reader/transformer goroutine and the loader goroutine until
// the source is exhausted or either side fails.
func pump(ctx context.Context, r *csv.Reader, w storage.Writer, batchSize int, verbose bool) (storage.LoadResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan schema.Game, min(batchSize, storage.MaxPrealloc))

	// rows is closed only at end of input, so a read error never flushes a
	// partial batch; the loader sees the canceled context instead.
	g.Go(func() error {
		tr := transformer.New()
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				close(rows)
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case rows <- tr.Transform(rec):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var res storage.LoadResult
	g.Go(func() error {
		write := func(ctx context.Context, batch []schema.Game) (storage.BatchResult, error) {
			br, err := w.WriteBatch(ctx, batch)
			if err == nil {
				metrics.RecordBatches(Job, 1)
			}
			return br, err
		}
		var err error
		res, err = storage.LoadBatches(gctx, rows, batchSize, write, storage.WithProgress(verbose))
		return err
	})

	err := g.Wait()
	return res, err
}

// step times fn, records it as a metrics step and, in verbose mode, logs it.
func step(name string, verbose bool, fn func() error) error {
	t0 := time.Now()
	err := fn()
	d := time.Since(t0)
	metrics.RecordStep(Job, name, err, d)
	if err != nil {
		log.Printf("etl: step=%s failed kind=%s elapsed=%s err=%v", name, failure.Kind(err), d.Truncate(time.Millisecond), err)
	} else if verbose {
		log.Printf("etl: step=%s ok elapsed=%s", name, d.Truncate(time.Millisecond))
	}
	return err
}

func recordRows(s Summary) {
	metrics.RecordRow(Job, "read", int64(s.Records))
	metrics.RecordRow(Job, "inserted", int64(s.Inserted))
	metrics.RecordRow(Job, "duplicate", int64(s.Duplicates))
	metrics.RecordRow(Job, "failed", int64(s.Failed))
}
