package storage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"steamload/internal/ddl"
	"steamload/internal/failure"
	"steamload/internal/schema"
)

// InsertSQL renders a single-row INSERT of every schema column into table.
// placeholder renders the i-th (0-based) bind parameter; verb is the leading
// keyword phrase (e.g. "INSERT OR IGNORE INTO") and suffix is appended
// verbatim (e.g. an ON CONFLICT clause).
func InsertSQL(verb, table, suffix string, placeholder func(i int) string) string {
	names := schema.ColumnNames()
	cols := make([]string, len(names))
	params := make([]string, len(names))
	for i, n := range names {
		cols[i] = ddl.QuoteIdent(n)
		params[i] = placeholder(i)
	}
	q := fmt.Sprintf("%s %s (%s) VALUES (%s)",
		verb, ddl.QuoteFQN(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	if suffix != "" {
		q += " " + suffix
	}
	return q
}

// StatsSQL returns the row-count query and the priced-row aggregate query.
// Both are portable across the supported dialects.
func StatsSQL(table string) (count, price string) {
	t := ddl.QuoteFQN(table)
	return "SELECT COUNT(*) FROM " + t,
		`SELECT COUNT(*), AVG("price"), MIN("price"), MAX("price") FROM ` + t + ` WHERE "price" > 0`
}

// ExecFn runs one DDL statement.
type ExecFn func(ctx context.Context, stmt string) error

// EnsureTable renders and applies CREATE TABLE IF NOT EXISTS for the games
// table. Failures wrap failure.ErrSchema.
func EnsureTable(ctx context.Context, table string, mapType func(string) string, exec ExecFn) error {
	stmt, err := ddl.BuildCreateTableSQL(schema.GamesTable(table, mapType))
	if err != nil {
		return failure.Schema("render create table", err)
	}
	if err := exec(ctx, stmt); err != nil {
		return failure.Schema("create table "+table, err)
	}
	return nil
}

// CreateIndexes builds every games index, logging and recording failures
// without stopping. A non-nil adapt rewrites each definition for the dialect
// before rendering.
func CreateIndexes(ctx context.Context, backend, table string, adapt func(ddl.IndexDef) ddl.IndexDef, exec ExecFn) IndexReport {
	defs := schema.GamesIndexes(table)
	rep := IndexReport{Results: make([]IndexResult, 0, len(defs))}
	for _, ix := range defs {
		def := ix
		if adapt != nil {
			def = adapt(ix)
		}
		stmt, err := ddl.BuildCreateIndexSQL(def)
		if err == nil {
			err = exec(ctx, stmt)
		}
		if err != nil {
			err = failure.Schema("create index "+ix.Name, err)
			log.Printf("WARN %s: index failed name=%s err=%v", backend, ix.Name, err)
		}
		rep.Results = append(rep.Results, IndexResult{Name: ix.Name, Err: err})
	}
	return rep
}
