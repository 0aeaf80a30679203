package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"steamload/internal/failure"
	"steamload/internal/schema"
)

// ErrBatchTooLarge is returned by WriteBatch when a batch exceeds
// Config.BatchSize.
var ErrBatchTooLarge = errors.New("storage: batch exceeds configured size")

// errNullKey rejects rows without a catalog id before they reach the driver.
var errNullKey = errors.New("null app_id")

// InsertFn inserts one row inside the caller's transaction. It reports
// whether a row was actually stored (false means the key already existed).
// A non-nil error fails only this row.
type InsertFn func(ctx context.Context, g *schema.Game) (inserted bool, err error)

// CheckBatchSize returns ErrBatchTooLarge when n exceeds limit (limit > 0).
func CheckBatchSize(n, limit int) error {
	if limit > 0 && n > limit {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, n, limit)
	}
	return nil
}

// InsertRows runs insert for every row and records per-row outcomes. Rows
// without a catalog id are failed without calling insert. Failed rows are
// logged as warnings with their identifier.
func InsertRows(ctx context.Context, backend string, rows []schema.Game, insert InsertFn) BatchResult {
	res := BatchResult{Outcomes: make([]RowOutcome, len(rows))}
	for i := range rows {
		g := &rows[i]
		out := RowOutcome{Index: i, Ident: g.Ident()}

		var (
			ok  bool
			err error
		)
		if g.AppID == nil {
			err = errNullKey
		} else {
			ok, err = insert(ctx, g)
		}

		switch {
		case err != nil:
			out.Status = RowFailed
			out.Err = failure.RowInsert(out.Ident, err)
			res.Failed++
			log.Printf("WARN %s: row rejected %s err=%v", backend, out.Ident, err)
		case ok:
			out.Status = RowInserted
			res.Inserted++
		default:
			out.Status = RowDuplicate
			res.Duplicates++
		}
		res.Outcomes[i] = out
	}
	return res
}
