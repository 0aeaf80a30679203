package datasource

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies the codec wrapping an input stream.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

func (c Compression) String() string {
	switch c {
	case CompressionGZ:
		return "gzip"
	case CompressionBZ2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// DetectCompression infers the codec from the extension of a path or URL.
// Query strings and fragments are ignored for URLs.
func DetectCompression(location string) Compression {
	p := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".gz", ".gzip":
		return CompressionGZ
	case ".bz2":
		return CompressionBZ2
	case ".xz":
		return CompressionXZ
	case ".zst", ".zstd":
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// Decompress wraps rc with a decoder for c. Closing the result closes the
// decoder and then rc. On error rc is left open for the caller.
func Decompress(rc io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return rc, nil

	case CompressionGZ:
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return &decoded{Reader: gz, closeDecoder: gz.Close, src: rc}, nil

	case CompressionBZ2:
		return &decoded{Reader: bzip2.NewReader(rc), src: rc}, nil

	case CompressionXZ:
		xr, err := xz.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		return &decoded{Reader: xr, src: rc}, nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &decoded{
			Reader:       dec,
			closeDecoder: func() error { dec.Close(); return nil },
			src:          rc,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

type decoded struct {
	io.Reader
	closeDecoder func() error
	src          io.Closer
}

func (d *decoded) Close() error {
	var err error
	if d.closeDecoder != nil {
		err = d.closeDecoder()
	}
	if cerr := d.src.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
