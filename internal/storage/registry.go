package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	// Kind is the registered backend name, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string. For sqlite this is the database
	// file path.
	DSN string

	// Table is the destination table, optionally schema-qualified.
	Table string

	// BatchSize bounds the number of rows accepted per WriteBatch. Zero
	// means unbounded.
	BatchSize int
}

// Factory opens a Writer for cfg. Backends register one in init.
type Factory func(ctx context.Context, cfg Config) (Writer, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Writer using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Writer, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
