// Package failure defines the error taxonomy shared by the import pipeline.
//
// Every fatal or contained failure is wrapped with exactly one of the sentinel
// errors below so callers can classify it with errors.Is regardless of which
// package produced it:
//
//   - ErrIO:        source unreadable, destination store unwritable (fatal)
//   - ErrSchema:    table or index creation failed (table fatal, index not)
//   - ErrRowInsert: a single row was rejected by the store (contained)
//
// Coercion fallbacks are not errors; the transformer substitutes documented
// defaults and never reports them here.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks source read failures and destination store I/O failures.
	ErrIO = errors.New("io failure")

	// ErrSchema marks table or index creation failures.
	ErrSchema = errors.New("schema failure")

	// ErrRowInsert marks a single row rejected by the store.
	ErrRowInsert = errors.New("row insert failure")
)

// IO wraps err as an ErrIO failure with a short operation description.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// Schema wraps err as an ErrSchema failure.
func Schema(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrSchema, op, err)
}

// RowInsert wraps err as an ErrRowInsert failure for the row identified by id.
func RowInsert(id string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: row %s: %w", ErrRowInsert, id, err)
}

// Kind returns a short label for the taxonomy class of err, suitable for log
// lines and metric labels. Unclassified errors report "other".
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrRowInsert):
		return "row_insert"
	default:
		return "other"
	}
}
