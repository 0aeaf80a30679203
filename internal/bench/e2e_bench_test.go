package bench

import (
	"context"
	"testing"

	"steamload/internal/schema"
	"steamload/internal/storage"
	"steamload/internal/transformer"
)

// BenchmarkEndToEnd exercises the hot path of the import in memory:
//
//   - Transformer.Transform: raw header/value pairs → typed schema.Game
//   - LoadBatches:           batching semantics feeding a fake write function
//
// No I/O and no database driver is involved, so the number approximates the
// CPU ceiling of a run.
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkEndToEnd$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkEndToEnd(b *testing.B) {
	ctx := context.Background()

	// A realistic subset of an export row, using store-page header spellings.
	raw := schema.RawRecord{Line: 2, Fields: []schema.Field{
		{Name: "AppID", Value: "20200"},
		{Name: "Name", Value: "Galactic Bowling"},
		{Name: "Release date", Value: "Oct 21, 2008"},
		{Name: "Estimated owners", Value: "0 - 20000"},
		{Name: "Peak CCU", Value: "0"},
		{Name: "Price", Value: "19.99"},
		{Name: "DiscountDLC count", Value: "0"},
		{Name: "Windows", Value: "TRUE"},
		{Name: "Mac", Value: "False"},
		{Name: "Linux", Value: "False"},
		{Name: "Positive", Value: "6"},
		{Name: "Negative", Value: "11"},
		{Name: "Achievements", Value: "30"},
		{Name: "Tags", Value: "Indie,Casual,Sports,Bowling"},
	}}

	// Producer: transform b.N records; close 'in' once all rows are produced.
	in := make(chan schema.Game, 8192)
	go func() {
		defer close(in)
		tr := transformer.New()
		for i := 0; i < b.N; i++ {
			in <- tr.Transform(raw)
		}
	}()

	// Fake write that reports every row as inserted. This isolates
	// batch-building and iteration costs from actual I/O.
	write := func(_ context.Context, rows []schema.Game) (storage.BatchResult, error) {
		return storage.BatchResult{Inserted: len(rows)}, nil
	}

	b.ReportAllocs()
	b.ResetTimer()
	res, err := storage.LoadBatches(ctx, in, 4096, write)
	b.StopTimer()

	if err != nil {
		b.Fatalf("LoadBatches: %v", err)
	}
	if res.Inserted != b.N {
		b.Fatalf("inserted %d rows, want %d", res.Inserted, b.N)
	}
}
