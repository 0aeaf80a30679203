package sqlite

import (
	"context"

	"steamload/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Writer, error) {
		r, err := newRepository(ctx, Config{
			DSN:       cfg.DSN,
			Table:     cfg.Table,
			BatchSize: cfg.BatchSize,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
