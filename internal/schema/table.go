package schema

import (
	"steamload/internal/ddl"
)

// Logical column kinds. Dialect packages map them to concrete SQL types.
const (
	KindInt       = "int"
	KindReal      = "real"
	KindText      = "text"
	KindTimestamp = "timestamp"
)

// KeyColumn is the primary key of the games table.
const KeyColumn = "app_id"

// CreatedAtColumn is the store-assigned creation timestamp column. It is not
// part of Columns() because rows never carry a value for it.
const CreatedAtColumn = "created_at"

// Column describes one destination column of the games table.
type Column struct {
	Name     string
	Kind     string
	Nullable bool
	Default  string
}

// columns mirrors the field order of Game and Game.Values.
var columns = []Column{
	{Name: "app_id", Kind: KindInt},
	{Name: "name", Kind: KindText, Nullable: true},
	{Name: "release_date", Kind: KindText, Nullable: true},
	{Name: "estimated_owners", Kind: KindText, Nullable: true},
	{Name: "peak_ccu", Kind: KindInt, Default: "0"},
	{Name: "required_age", Kind: KindInt, Default: "0"},
	{Name: "price", Kind: KindReal, Default: "0"},
	{Name: "dlc_count", Kind: KindInt, Default: "0"},
	{Name: "about_the_game", Kind: KindText, Nullable: true},
	{Name: "supported_languages", Kind: KindText, Nullable: true},
	{Name: "full_audio_languages", Kind: KindText, Nullable: true},
	{Name: "reviews", Kind: KindText, Nullable: true},
	{Name: "header_image", Kind: KindText, Nullable: true},
	{Name: "website", Kind: KindText, Nullable: true},
	{Name: "support_url", Kind: KindText, Nullable: true},
	{Name: "support_email", Kind: KindText, Nullable: true},
	{Name: "windows", Kind: KindText, Nullable: true},
	{Name: "mac", Kind: KindText, Nullable: true},
	{Name: "linux", Kind: KindText, Nullable: true},
	{Name: "metacritic_score", Kind: KindText, Nullable: true},
	{Name: "metacritic_url", Kind: KindText, Nullable: true},
	{Name: "user_score", Kind: KindText, Nullable: true},
	{Name: "positive", Kind: KindInt, Default: "0"},
	{Name: "negative", Kind: KindInt, Default: "0"},
	{Name: "score_rank", Kind: KindInt, Default: "0"},
	{Name: "achievements", Kind: KindInt, Nullable: true},
	{Name: "recommendations", Kind: KindInt, Default: "0"},
	{Name: "notes", Kind: KindText, Nullable: true},
	{Name: "average_playtime_forever", Kind: KindText, Nullable: true},
	{Name: "average_playtime_two_weeks", Kind: KindInt, Default: "0"},
	{Name: "median_playtime_forever", Kind: KindInt, Default: "0"},
	{Name: "median_playtime_two_weeks", Kind: KindInt, Default: "0"},
	{Name: "developers", Kind: KindText, Nullable: true},
	{Name: "publishers", Kind: KindText, Nullable: true},
	{Name: "categories", Kind: KindText, Nullable: true},
	{Name: "genres", Kind: KindText, Nullable: true},
	{Name: "tags", Kind: KindText, Nullable: true},
	{Name: "screenshots", Kind: KindText, Nullable: true},
	{Name: "movies", Kind: KindText, Nullable: true},
}

// Columns returns a copy of the insertable columns in Game.Values order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// ColumnNames returns the insertable column names in Game.Values order.
func ColumnNames() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Name
	}
	return out
}

// GamesTable builds the table definition for the given table name, using
// mapType to translate logical kinds into the backend's SQL types.
func GamesTable(table string, mapType func(kind string) string) ddl.TableDef {
	defs := make([]ddl.ColumnDef, 0, len(columns)+1)
	for _, c := range columns {
		defs = append(defs, ddl.ColumnDef{
			Name:       c.Name,
			SQLType:    mapType(c.Kind),
			Nullable:   c.Nullable,
			PrimaryKey: c.Name == KeyColumn,
			Default:    c.Default,
		})
	}
	defs = append(defs, ddl.ColumnDef{
		Name:    CreatedAtColumn,
		SQLType: mapType(KindTimestamp),
		Default: "CURRENT_TIMESTAMP",
	})
	return ddl.TableDef{FQN: table, Columns: defs}
}

// GamesIndexes returns the secondary indexes built after the bulk load.
// Names are derived from the last segment of table so that schema-qualified
// names still produce valid index identifiers.
func GamesIndexes(table string) []ddl.IndexDef {
	base := indexBase(table)
	ix := func(suffix string, cols ...string) ddl.IndexDef {
		return ddl.IndexDef{Name: "idx_" + base + "_" + suffix, Table: table, Columns: cols}
	}
	return []ddl.IndexDef{
		ix("app_id", "app_id"),
		ix("name", "name"),
		ix("price", "price"),
		ix("positive", "positive"),
		ix("release_date", "release_date"),
		ix("price_positive", "price", "positive"),
	}
}

func indexBase(table string) string {
	for i := len(table) - 1; i >= 0; i-- {
		if table[i] == '.' {
			return table[i+1:]
		}
	}
	return table
}
