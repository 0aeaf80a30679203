// Package postgres implements the Postgres-backed storage.Writer using pgx v5.
//
// A batch is one transaction. Every row is inserted inside its own savepoint
// (a pgx nested transaction) with ON CONFLICT (app_id) DO NOTHING, so a row
// the server rejects is rolled back alone and does not abort the batch.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"steamload/internal/ddl"
	"steamload/internal/failure"
	"steamload/internal/schema"
	"steamload/internal/storage"
)

// Config holds Postgres writer configuration.
type Config struct {
	DSN       string // connection string for pgxpool
	Table     string // target table, e.g. "public.steam_games"
	BatchSize int    // rows per WriteBatch; zero means unbounded
}

// Repository is the Postgres implementation of storage.Writer.
type Repository struct {
	storage.Lifecycle

	pool      *pgxpool.Pool
	cfg       Config
	insertSQL string
}

// NewRepository creates the pool and verifies connectivity. Failures wrap
// failure.ErrIO.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, failure.IO("postgres: pgxpool", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, failure.IO("postgres: ping", err)
	}

	return &Repository{pool: pool, cfg: cfg, insertSQL: insertStatement(cfg.Table)}, nil
}

// insertStatement renders the positional INSERT ... ON CONFLICT DO NOTHING.
func insertStatement(table string) string {
	return storage.InsertSQL("INSERT INTO", table,
		"ON CONFLICT ("+ddl.QuoteIdent(schema.KeyColumn)+") DO NOTHING",
		func(i int) string { return "$" + strconv.Itoa(i+1) })
}

// EnsureSchema implements storage.Writer.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if err := r.Require("EnsureSchema", storage.StateUnopened, storage.StateSchemaReady); err != nil {
		return err
	}
	if err := storage.EnsureTable(ctx, r.cfg.Table, MapType, r.Exec); err != nil {
		return err
	}
	r.Advance(storage.StateSchemaReady)
	return nil
}

// WriteBatch implements storage.Writer.
func (r *Repository) WriteBatch(ctx context.Context, rows []schema.Game) (storage.BatchResult, error) {
	if err := r.Require("WriteBatch", storage.StateSchemaReady); err != nil {
		return storage.BatchResult{}, err
	}
	if err := storage.CheckBatchSize(len(rows), r.cfg.BatchSize); err != nil {
		return storage.BatchResult{}, err
	}
	if len(rows) == 0 {
		return storage.BatchResult{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storage.BatchResult{}, failure.IO("postgres: begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res := storage.InsertRows(ctx, "postgres", rows, func(ctx context.Context, g *schema.Game) (bool, error) {
		return insertRow(ctx, tx, r.insertSQL, g)
	})

	if err := tx.Commit(ctx); err != nil {
		return storage.BatchResult{}, failure.IO("postgres: commit", err)
	}
	return res, nil
}

// insertRow runs one INSERT inside a savepoint of tx.
func insertRow(ctx context.Context, tx pgx.Tx, stmt string, g *schema.Game) (bool, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return false, err
	}
	tag, err := sp.Exec(ctx, stmt, g.Values()...)
	if err != nil {
		_ = sp.Rollback(ctx)
		return false, describe(err)
	}
	if err := sp.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// describe surfaces the server detail and SQLSTATE of a Postgres error.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s: %s)", err, pgErr.SQLState(), pgErr.Detail)
	}
	return err
}

// BuildIndexes implements storage.Writer.
func (r *Repository) BuildIndexes(ctx context.Context) (storage.IndexReport, error) {
	if err := r.Require("BuildIndexes", storage.StateSchemaReady); err != nil {
		return storage.IndexReport{}, err
	}
	rep := storage.CreateIndexes(ctx, "postgres", r.cfg.Table, nil, r.Exec)
	r.Advance(storage.StateIndexesBuilt)
	return rep, nil
}

// Stats implements storage.Writer.
func (r *Repository) Stats(ctx context.Context) (storage.Stats, error) {
	if err := r.Require("Stats", storage.StateSchemaReady, storage.StateIndexesBuilt); err != nil {
		return storage.Stats{}, err
	}
	countSQL, priceSQL := storage.StatsSQL(r.cfg.Table)

	var st storage.Stats
	if err := r.pool.QueryRow(ctx, countSQL).Scan(&st.TotalRows); err != nil {
		return storage.Stats{}, failure.IO("postgres: count rows", err)
	}
	var avg, lo, hi *float64
	if err := r.pool.QueryRow(ctx, priceSQL).Scan(&st.PricedRows, &avg, &lo, &hi); err != nil {
		return storage.Stats{}, failure.IO("postgres: price stats", err)
	}
	if avg != nil {
		st.AvgPrice, st.MinPrice, st.MaxPrice = *avg, *lo, *hi
	}
	return st, nil
}

// Close implements storage.Writer. It is idempotent.
func (r *Repository) Close() error {
	if r.MarkClosed() && r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// Exec runs a single statement on the pool.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", describe(err))
	}
	return nil
}

var _ storage.Writer = (*Repository)(nil)
