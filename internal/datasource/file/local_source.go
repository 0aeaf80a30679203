// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"io"
	"os"

	"steamload/internal/datasource"
	"steamload/internal/failure"
)

// Local is a filesystem data source that opens files from the local disk.
// Files ending in .gz, .bz2, .xz, .zst or .zstd are decompressed on the fly.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path. The returned value is safe for concurrent use by multiple goroutines
// as long as the underlying path location is valid for concurrent reads.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error immediately without touching
//     the filesystem.
//   - Otherwise, Open opens the file, hints sequential access to the kernel
//     where supported, and wraps it in a decompressor chosen by extension.
//   - Filesystem and decoder errors wrap failure.ErrIO and keep the
//     underlying cause reachable (errors.Is(err, os.ErrNotExist) still works).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, failure.IO("open source", err)
	}
	adviseSequential(f)

	rc, err := datasource.Decompress(f, datasource.DetectCompression(l.path))
	if err != nil {
		_ = f.Close()
		return nil, failure.IO("decompress "+l.path, err)
	}
	return rc, nil
}

var _ datasource.Source = (*Local)(nil)
