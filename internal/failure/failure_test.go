package failure

import (
	"errors"
	"os"
	"testing"
)

func TestWrappersClassify(t *testing.T) {
	t.Parallel()

	base := os.ErrNotExist

	cases := []struct {
		name string
		err  error
		want error
		kind string
	}{
		{"io", IO("open games.csv", base), ErrIO, "io"},
		{"schema", Schema("create table", base), ErrSchema, "schema"},
		{"row", RowInsert("app_id=10", base), ErrRowInsert, "row_insert"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(c.err, c.want) {
				t.Fatalf("errors.Is(%v, %v) = false", c.err, c.want)
			}
			if !errors.Is(c.err, base) {
				t.Fatalf("cause lost: %v", c.err)
			}
			if got := Kind(c.err); got != c.kind {
				t.Fatalf("Kind = %q, want %q", got, c.kind)
			}
		})
	}
}

func TestWrappersNil(t *testing.T) {
	t.Parallel()

	if IO("x", nil) != nil || Schema("x", nil) != nil || RowInsert("x", nil) != nil {
		t.Fatal("wrapping nil must return nil")
	}
	if got := Kind(nil); got != "none" {
		t.Fatalf("Kind(nil) = %q", got)
	}
	if got := Kind(errors.New("boom")); got != "other" {
		t.Fatalf("Kind(other) = %q", got)
	}
}
