package schema

import (
	"reflect"
	"strings"
	"testing"
)

// TestColumnsMatchGameFields keeps the column list, the struct tags and the
// Values order in lock-step.
func TestColumnsMatchGameFields(t *testing.T) {
	t.Parallel()

	names := ColumnNames()
	if len(names) != 39 {
		t.Fatalf("columns = %d, want 39", len(names))
	}

	typ := reflect.TypeOf(Game{})
	if typ.NumField() != len(names) {
		t.Fatalf("Game has %d fields, columns has %d", typ.NumField(), len(names))
	}
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("db"); tag != names[i] {
			t.Fatalf("field %d (%s) tag %q, column %q", i, typ.Field(i).Name, tag, names[i])
		}
	}

	var g Game
	if got := len(g.Values()); got != len(names) {
		t.Fatalf("Values() len = %d, want %d", got, len(names))
	}
}

func TestValuesNullsAndDefaults(t *testing.T) {
	t.Parallel()

	id := int64(730)
	name := "Counter-Strike 2"
	g := Game{AppID: &id, Name: &name, Price: 0, PeakCCU: 12}

	v := g.Values()
	if v[0] != int64(730) || v[1] != "Counter-Strike 2" {
		t.Fatalf("unexpected head values: %#v", v[:2])
	}
	if v[2] != nil {
		t.Fatalf("release_date should be nil, got %#v", v[2])
	}
	if v[4] != int64(12) {
		t.Fatalf("peak_ccu = %#v", v[4])
	}
	if v[6] != float64(0) {
		t.Fatalf("price = %#v", v[6])
	}
	if v[25] != nil {
		t.Fatalf("achievements should be nil, got %#v", v[25])
	}
}

func TestIdent(t *testing.T) {
	t.Parallel()

	var g Game
	if got := g.Ident(); got != "app_id=<null>" {
		t.Fatalf("Ident = %q", got)
	}
	id := int64(10)
	g.AppID = &id
	if got := g.Ident(); got != "app_id=10" {
		t.Fatalf("Ident = %q", got)
	}
}

func TestGamesTable(t *testing.T) {
	t.Parallel()

	td := GamesTable("steam_games", strings.ToUpper)
	if td.FQN != "steam_games" {
		t.Fatalf("FQN = %q", td.FQN)
	}
	if len(td.Columns) != 40 {
		t.Fatalf("columns = %d, want 39 + created_at", len(td.Columns))
	}

	pk := 0
	for _, c := range td.Columns {
		if c.PrimaryKey {
			pk++
			if c.Name != KeyColumn || c.Nullable {
				t.Fatalf("unexpected primary key column %+v", c)
			}
		}
	}
	if pk != 1 {
		t.Fatalf("primary key columns = %d, want 1", pk)
	}

	last := td.Columns[len(td.Columns)-1]
	if last.Name != CreatedAtColumn || last.Default != "CURRENT_TIMESTAMP" || last.SQLType != "TIMESTAMP" {
		t.Fatalf("created_at column = %+v", last)
	}
}

func TestGamesIndexes(t *testing.T) {
	t.Parallel()

	ix := GamesIndexes("public.steam_games")
	if len(ix) != 6 {
		t.Fatalf("indexes = %d, want 6", len(ix))
	}
	want := map[string][]string{
		"idx_steam_games_app_id":         {"app_id"},
		"idx_steam_games_name":           {"name"},
		"idx_steam_games_price":          {"price"},
		"idx_steam_games_positive":       {"positive"},
		"idx_steam_games_release_date":   {"release_date"},
		"idx_steam_games_price_positive": {"price", "positive"},
	}
	for _, d := range ix {
		cols, ok := want[d.Name]
		if !ok {
			t.Fatalf("unexpected index %q", d.Name)
		}
		if !reflect.DeepEqual(cols, d.Columns) || d.Table != "public.steam_games" {
			t.Fatalf("index %s = %+v", d.Name, d)
		}
	}
}
