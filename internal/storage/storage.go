// Package storage contains the backend-agnostic Store Writer contract and the
// helpers every backend shares: the lifecycle state machine, the factory
// registry, per-row outcome bookkeeping and the batch loader.
//
// A Writer is driven through a fixed sequence:
//
//	EnsureSchema → WriteBatch* → BuildIndexes → Stats → Close
//
// Each WriteBatch is one transaction. Rows are inserted with
// insert-or-ignore semantics keyed by the catalog id, so the first row seen
// for an id wins and later ones are reported as duplicates. A row the store
// rejects is recorded as failed and the rest of the batch still commits.
package storage

import (
	"context"
	"fmt"

	"steamload/internal/schema"
)

// RowStatus is the per-row result of a WriteBatch.
type RowStatus int

const (
	RowInserted RowStatus = iota
	RowDuplicate
	RowFailed
)

func (s RowStatus) String() string {
	switch s {
	case RowInserted:
		return "inserted"
	case RowDuplicate:
		return "duplicate"
	case RowFailed:
		return "failed"
	default:
		return fmt.Sprintf("RowStatus(%d)", int(s))
	}
}

// RowOutcome reports what happened to rows[Index] of a batch. Err is set only
// for RowFailed and wraps failure.ErrRowInsert.
type RowOutcome struct {
	Index  int
	Ident  string
	Status RowStatus
	Err    error
}

// BatchResult is the outcome of one committed WriteBatch.
type BatchResult struct {
	Outcomes   []RowOutcome
	Inserted   int
	Duplicates int
	Failed     int
}

// Rows returns the number of rows the batch carried.
func (b BatchResult) Rows() int { return b.Inserted + b.Duplicates + b.Failed }

// IndexResult reports one CREATE INDEX attempt. Err wraps failure.ErrSchema.
type IndexResult struct {
	Name string
	Err  error
}

// IndexReport lists every index attempt in creation order.
type IndexReport struct {
	Results []IndexResult
}

// Built returns the number of indexes created successfully.
func (r IndexReport) Built() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the failed attempts.
func (r IndexReport) Failed() []IndexResult {
	var out []IndexResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Stats summarizes the stored table. Price aggregates cover rows with
// price > 0 only; when there are none PricedRows is 0 and the aggregates
// are zero.
type Stats struct {
	TotalRows  int64
	PricedRows int64
	AvgPrice   float64
	MinPrice   float64
	MaxPrice   float64
}

// Writer is the Store Writer contract implemented by every backend.
type Writer interface {
	// EnsureSchema creates the games table if it does not exist. Failures
	// wrap failure.ErrSchema.
	EnsureSchema(ctx context.Context) error

	// WriteBatch inserts rows in one transaction. The returned error is set
	// only when the transaction itself could not be started or committed
	// (failure.ErrIO), the writer is in the wrong state (ErrInvalidState) or
	// the batch exceeds the configured size. Implementations must not retain
	// rows after returning.
	WriteBatch(ctx context.Context, rows []schema.Game) (BatchResult, error)

	// BuildIndexes creates the secondary indexes. Individual failures are
	// logged and reported; the error is reserved for invalid state.
	BuildIndexes(ctx context.Context) (IndexReport, error)

	// Stats queries summary statistics from the stored table.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the store handle. It is idempotent.
	Close() error
}
