// Package datasource defines where the importer's bytes come from. Concrete
// sources live in sub-packages (file, httpds); every source hands back a
// plain, already-decompressed byte stream.
package datasource

import (
	"context"
	"io"
	"strings"
)

// Source opens the input for reading. The caller closes the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsRemote reports whether location names an http(s) resource rather than a
// local path.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
