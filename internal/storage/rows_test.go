package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"steamload/internal/ddl"
	"steamload/internal/failure"
	"steamload/internal/schema"
)

func TestInsertRows_Outcomes(t *testing.T) {
	t.Parallel()

	boom := errors.New("constraint failed")
	rows := []schema.Game{gameWithID(1), gameWithID(2), {}, gameWithID(3)}

	var called []int64
	res := InsertRows(context.Background(), "test", rows, func(_ context.Context, g *schema.Game) (bool, error) {
		called = append(called, *g.AppID)
		switch *g.AppID {
		case 2:
			return false, nil
		case 3:
			return false, boom
		}
		return true, nil
	})

	if res.Inserted != 1 || res.Duplicates != 1 || res.Failed != 2 || res.Rows() != 4 {
		t.Fatalf("counts = %+v", res)
	}
	if len(called) != 3 {
		t.Fatalf("insert called for %v; null key must be skipped", called)
	}

	want := []RowStatus{RowInserted, RowDuplicate, RowFailed, RowFailed}
	for i, o := range res.Outcomes {
		if o.Index != i || o.Status != want[i] {
			t.Fatalf("outcome %d = %+v, want %s", i, o, want[i])
		}
	}
	if o := res.Outcomes[2]; !errors.Is(o.Err, failure.ErrRowInsert) || o.Ident != "app_id=<null>" {
		t.Fatalf("null key outcome = %+v", o)
	}
	if o := res.Outcomes[3]; !errors.Is(o.Err, boom) || !strings.Contains(o.Err.Error(), "app_id=3") {
		t.Fatalf("driver failure outcome = %+v", o)
	}
}

func TestCheckBatchSize(t *testing.T) {
	t.Parallel()

	if err := CheckBatchSize(10, 0); err != nil {
		t.Fatalf("unbounded: %v", err)
	}
	if err := CheckBatchSize(10, 10); err != nil {
		t.Fatalf("at limit: %v", err)
	}
	if err := CheckBatchSize(11, 10); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("over limit: %v", err)
	}
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()

	q := InsertSQL("INSERT OR IGNORE INTO", "steam_games", "", func(int) string { return "?" })
	if !strings.HasPrefix(q, `INSERT OR IGNORE INTO "steam_games" ("app_id", "name", `) {
		t.Fatalf("prefix: %s", q)
	}
	if got := strings.Count(q, "?"); got != len(schema.ColumnNames()) {
		t.Fatalf("placeholders = %d", got)
	}
	if strings.Contains(q, "created_at") {
		t.Fatal("created_at must be left to the store default")
	}

	pg := InsertSQL("INSERT INTO", "public.steam_games", `ON CONFLICT ("app_id") DO NOTHING`,
		func(i int) string { return "$" + strconv.Itoa(i+1) })
	if !strings.HasPrefix(pg, `INSERT INTO "public"."steam_games"`) || !strings.HasSuffix(pg, `ON CONFLICT ("app_id") DO NOTHING`) {
		t.Fatalf("pg insert: %s", pg)
	}
	if !strings.Contains(pg, "$39)") {
		t.Fatalf("pg placeholders: %s", pg)
	}
}

func TestCreateIndexes_ContinuesOnFailure(t *testing.T) {
	t.Parallel()

	var stmts []string
	rep := CreateIndexes(context.Background(), "test", "steam_games", nil, func(_ context.Context, stmt string) error {
		stmts = append(stmts, stmt)
		if strings.Contains(stmt, "idx_steam_games_name") {
			return errors.New("disk full")
		}
		return nil
	})
	if len(stmts) != 6 {
		t.Fatalf("statements = %d, want 6", len(stmts))
	}
	if rep.Built() != 5 {
		t.Fatalf("built = %d, want 5", rep.Built())
	}
	failed := rep.Failed()
	if len(failed) != 1 || failed[0].Name != "idx_steam_games_name" || !errors.Is(failed[0].Err, failure.ErrSchema) {
		t.Fatalf("failed = %+v", failed)
	}
}

func TestCreateIndexes_Adapt(t *testing.T) {
	t.Parallel()

	var stmts []string
	rep := CreateIndexes(context.Background(), "test", "main.steam_games", ddl.SchemaQualifiedIndex,
		func(_ context.Context, stmt string) error {
			stmts = append(stmts, stmt)
			return nil
		})
	if rep.Built() != 6 {
		t.Fatalf("built = %d, want 6", rep.Built())
	}
	want := `CREATE INDEX IF NOT EXISTS "main"."idx_steam_games_app_id" ON "steam_games" ("app_id");`
	if stmts[0] != want {
		t.Fatalf("stmt = %s\nwant %s", stmts[0], want)
	}
	if rep.Results[0].Name != "idx_steam_games_app_id" {
		t.Fatalf("reported name = %s", rep.Results[0].Name)
	}
}

func TestEnsureTable_WrapsSchemaFailure(t *testing.T) {
	t.Parallel()

	err := EnsureTable(context.Background(), "steam_games", strings.ToUpper, func(context.Context, string) error {
		return errors.New("read-only")
	})
	if !errors.Is(err, failure.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}
