// Package sqlite implements the SQLite-backed storage.Writer using
// database/sql and the pure-Go modernc.org/sqlite driver.
//
// Each batch runs in one transaction with a prepared INSERT OR IGNORE; SQLite
// has no bulk-load API like Postgres COPY, but a transaction per batch keeps
// throughput high. The database runs in WAL mode with synchronous=NORMAL for
// the duration of the load.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"steamload/internal/ddl"
	"steamload/internal/failure"
	"steamload/internal/schema"
	"steamload/internal/storage"
)

// Config holds SQLite writer configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite database path or URI, e.g. "steam_games.db" or
	// "file:steam.db?cache=shared".
	DSN string

	// Table is the destination table. SQLite accepts "main.steam_games" as
	// well as a bare name.
	Table string

	// BatchSize bounds rows per WriteBatch; zero means unbounded.
	BatchSize int
}

// bulkPragmas tune the connection for a single-writer bulk load.
var bulkPragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
	"PRAGMA temp_store = MEMORY;",
}

// Repository is the SQLite implementation of storage.Writer.
type Repository struct {
	storage.Lifecycle

	db        *sql.DB
	cfg       Config
	insertSQL string
}

// NewRepository opens the database at cfg.DSN, pings it and applies the bulk
// load pragmas. Open and ping failures wrap failure.ErrIO.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, failure.IO("sqlite: open", fmt.Errorf("DSN must not be empty"))
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, failure.IO("sqlite: open", err)
	}
	// One connection: the writer owns the store and PRAGMAs are per
	// connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, failure.IO("sqlite: ping", err)
	}

	for _, p := range bulkPragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, failure.IO("sqlite: "+p, err)
		}
	}

	return &Repository{
		db:  db,
		cfg: cfg,
		insertSQL: storage.InsertSQL("INSERT OR IGNORE INTO", cfg.Table, "",
			func(int) string { return "?" }),
	}, nil
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

// WriteBatch implements storage.Writer. Each row is an INSERT OR IGNORE; a
// row whose statement fails is recorded and the transaction continues, since
// SQLite rolls back only the failing statement.
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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.BatchResult{}, failure.IO("sqlite: begin tx", err)
	}
	stmt, err := tx.PrepareContext(ctx, r.insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return storage.BatchResult{}, failure.IO("sqlite: prepare insert", err)
	}
	defer stmt.Close()

	res := storage.InsertRows(ctx, "sqlite", rows, func(ctx context.Context, g *schema.Game) (bool, error) {
		out, err := stmt.ExecContext(ctx, g.Values()...)
		if err != nil {
			return false, err
		}
		n, err := out.RowsAffected()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})

	if err := tx.Commit(); err != nil {
		return storage.BatchResult{}, failure.IO("sqlite: commit", err)
	}
	return res, nil
}

// BuildIndexes implements storage.Writer.
func (r *Repository) BuildIndexes(ctx context.Context) (storage.IndexReport, error) {
	if err := r.Require("BuildIndexes", storage.StateSchemaReady); err != nil {
		return storage.IndexReport{}, err
	}
	rep := storage.CreateIndexes(ctx, "sqlite", r.cfg.Table, ddl.SchemaQualifiedIndex, r.Exec)
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
	if err := r.db.QueryRowContext(ctx, countSQL).Scan(&st.TotalRows); err != nil {
		return storage.Stats{}, failure.IO("sqlite: count rows", err)
	}
	var avg, lo, hi sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, priceSQL).Scan(&st.PricedRows, &avg, &lo, &hi); err != nil {
		return storage.Stats{}, failure.IO("sqlite: price stats", err)
	}
	st.AvgPrice, st.MinPrice, st.MaxPrice = avg.Float64, lo.Float64, hi.Float64
	return st, nil
}

// Close implements storage.Writer. It is idempotent.
func (r *Repository) Close() error {
	if !r.MarkClosed() {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return failure.IO("sqlite: close", err)
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL) using the underlying
// database/sql connection.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

var _ storage.Writer = (*Repository)(nil)
