// This file implements the batch accumulator that sits between the row
// producer and a Writer: it drains typed rows from a channel, groups them
// into batches and hands each batch to a write function.
//
// Logging: with WithProgress, every flush emits a concise progress line with
// running totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"steamload/internal/schema"
)

// WriteFn writes one batch. It is usually Writer.WriteBatch, possibly
// wrapped for metrics. The batch slice is reused after WriteFn returns.
type WriteFn func(ctx context.Context, rows []schema.Game) (BatchResult, error)

// LoadResult sums the BatchResults of a load.
type LoadResult struct {
	Batches    int
	Rows       int
	Inserted   int
	Duplicates int
	Failed     int
}

func (r *LoadResult) add(b BatchResult) {
	r.Batches++
	r.Rows += b.Rows()
	r.Inserted += b.Inserted
	r.Duplicates += b.Duplicates
	r.Failed += b.Failed
}

// MaxPrealloc caps the rows preallocated for a batch or buffered between the
// producer and the loader. Larger batches grow on demand.
const MaxPrealloc = 4096

type loadOptions struct {
	progress bool
}

// LoadOption tunes LoadBatches.
type LoadOption func(*loadOptions)

// WithProgress logs a line after every flushed batch.
func WithProgress(on bool) LoadOption {
	return func(o *loadOptions) { o.progress = on }
}

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls write for each non-empty batch, in arrival order. A partial batch is
// flushed when in is closed. It returns the accumulated totals and the first
// error from write; processing stops at that error.
//
// Cancellation: returns (totals, ctx.Err()) when ctx is done.
func LoadBatches(
	ctx context.Context,
	in <-chan schema.Game,
	batchSize int,
	write WriteFn,
	opts ...LoadOption,
) (LoadResult, error) {
	var total LoadResult
	if batchSize <= 0 {
		return total, fmt.Errorf("batchSize must be > 0")
	}
	if write == nil {
		return total, fmt.Errorf("write must not be nil")
	}
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		batch       = make([]schema.Game, 0, min(batchSize, MaxPrealloc))
		start       = time.Now()
		lastFlushTS = start
		lastRows    int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := write(ctx, batch)
		n := len(batch)
		batch = batch[:0]
		if err != nil {
			log.Printf("loader: batch #%d failed rows=%d total_inserted=%d err=%v", total.Batches+1, n, total.Inserted, err)
			return err
		}
		total.add(res)

		if o.progress {
			now := time.Now()
			sinceLast := now.Sub(lastFlushTS)
			rps := float64(0)
			if sinceLast > 0 {
				rps = float64(total.Rows-lastRows) / sinceLast.Seconds()
			}
			log.Printf(
				"batch #%d: rps=%.0f inserted=%d duplicates=%d failed=%d total_inserted=%d elapsed=%s since_last=%s",
				total.Batches,
				rps,
				res.Inserted,
				res.Duplicates,
				res.Failed,
				total.Inserted,
				now.Sub(start).Truncate(time.Millisecond),
				sinceLast.Truncate(time.Millisecond),
			)
			lastFlushTS = now
			lastRows = total.Rows
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				final := len(batch)
				if err := flush(); err != nil {
					return total, err
				}
				if o.progress {
					log.Printf("loader: input closed, final_flush=%d total_inserted=%d", final, total.Inserted)
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
