// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE / CREATE INDEX statements from that model.
//
// Both supported backends (SQLite and Postgres) accept ANSI double-quoted
// identifiers and IF NOT EXISTS on tables and indexes, so rendering lives
// here; dialect packages only map logical kinds to SQL types.
//
// Rendered statements are idempotent: re-running them against a store that
// already has the objects is a no-op.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement.
//
// Rules:
//
//   - t.FQN must be non-empty; each dotted segment is quoted.
//
//   - Each column must have a non-empty Name and SQLType and is rendered as:
//
//     "<Name>" <SQLType> [NOT NULL] [DEFAULT <Default>]
//
//   - Columns with PrimaryKey == true are collected into a trailing
//     PRIMARY KEY ("pk1", ...) table constraint.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := QuoteFQN(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildCreateIndexSQL renders a CREATE INDEX IF NOT EXISTS statement.
// Both the index name and the table may be dotted.
func BuildCreateIndexSQL(ix IndexDef) (string, error) {
	name := strings.TrimSpace(ix.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: index name must not be empty")
	}
	table := QuoteFQN(ix.Table)
	if table == "" {
		return "", fmt.Errorf("ddl: index %s: table must not be empty", name)
	}
	if len(ix.Columns) == 0 {
		return "", fmt.Errorf("ddl: index %s: at least one column is required", name)
	}

	cols := make([]string, 0, len(ix.Columns))
	for _, c := range ix.Columns {
		c = strings.TrimSpace(c)
		if c == "" {
			return "", fmt.Errorf("ddl: index %s: empty column name", name)
		}
		cols = append(cols, QuoteIdent(c))
	}

	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
		QuoteFQN(name),
		table,
		strings.Join(cols, ", "),
	), nil
}

// SchemaQualifiedIndex moves the schema prefix of ix.Table onto ix.Name, as
// SQLite requires (CREATE INDEX s.idx ON t). Undotted tables are returned
// unchanged.
func SchemaQualifiedIndex(ix IndexDef) IndexDef {
	i := strings.LastIndexByte(ix.Table, '.')
	if i < 0 {
		return ix
	}
	ix.Name = ix.Table[:i] + "." + ix.Name
	ix.Table = ix.Table[i+1:]
	return ix
}

// QuoteIdent double-quotes id and escapes embedded double quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each non-empty dotted segment of fqn. It returns "" when
// fqn has no usable segments.
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, QuoteIdent(p))
	}
	return strings.Join(out, ".")
}
