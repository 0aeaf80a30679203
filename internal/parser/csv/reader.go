// Package csv reads a delimited export one record at a time.
//
// The Reader consumes the header eagerly and then yields one schema.RawRecord
// per data line, pairing each cell with its header name. Memory stays bounded
// by one record; the file is never buffered whole. Input may be UTF-8
// (validated, BOM stripped) or any charset listed by Charsets, which is
// decoded to UTF-8 on the fly.
//
// End of input is reported as io.EOF and nothing else. Every other failure
// wraps failure.ErrIO and is terminal: once Next returns an error it keeps
// returning that same error.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"steamload/internal/failure"
	"steamload/internal/schema"
)

// ErrMalformedEncoding is reported when UTF-8 input contains invalid bytes.
var ErrMalformedEncoding = errors.New("malformed encoding")

// Options configures the reader. Use DefaultOptions as the starting point;
// the zero value disables trimming.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// Charset names the input encoding. Empty means UTF-8.
	Charset string

	// LazyQuotes tolerates bare quotes inside unquoted fields.
	LazyQuotes bool

	// TrimSpace trims leading/trailing whitespace from values.
	TrimSpace bool
}

// DefaultOptions returns comma-delimited UTF-8 with trimming on.
func DefaultOptions() Options {
	return Options{Comma: ',', Charset: CharsetUTF8, TrimSpace: true}
}

// Reader yields Raw Records from a delimited stream. It is not safe for
// concurrent use.
type Reader struct {
	src  io.ReadCloser
	cr   *csv.Reader
	hash *xxh3.Hasher

	header   []string
	trim     bool
	validate bool

	line   int
	count  int
	ragged int
	err    error
	closed bool
}

// NewReader wraps src and reads the header line. The Reader owns src from
// here on: it is closed by Close, or immediately when NewReader fails.
//
// An input with no header line, an unreadable header or an unknown charset
// yields an error wrapping failure.ErrIO.
func NewReader(src io.ReadCloser, opt Options) (*Reader, error) {
	hash := xxh3.New()
	dec, err := decodeReader(io.TeeReader(src, hash), opt.Charset)
	if err != nil {
		_ = src.Close()
		return nil, failure.IO("csv reader", err)
	}

	cr := csv.NewReader(SkipBOM(dec))
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.ReuseRecord = true
	// Width is reconciled against the header in Next.
	cr.FieldsPerRecord = -1

	r := &Reader{
		src:      src,
		cr:       cr,
		hash:     hash,
		trim:     opt.TrimSpace,
		validate: canonicalCharset(opt.Charset) == CharsetUTF8,
		line:     1,
	}

	hdr, err := cr.Read()
	if err != nil {
		_ = src.Close()
		r.closed = true
		if errors.Is(err, io.EOF) {
			return nil, failure.IO("read header", errors.New("input is empty"))
		}
		return nil, failure.IO("read header", err)
	}

	header := StripHeaderBOM(append([]string(nil), hdr...))
	for i, h := range header {
		if r.validate && !utf8.ValidString(h) {
			_ = src.Close()
			r.closed = true
			return nil, failure.IO("read header", ErrMalformedEncoding)
		}
		header[i] = strings.TrimSpace(h)
	}
	r.header = header
	return r, nil
}

// Header returns a copy of the header names (BOM stripped, trimmed).
func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// Next returns the next data record. It returns io.EOF exactly once the input
// is exhausted. Rows shorter than the header are padded with absent values;
// cells beyond the header width are dropped.
func (r *Reader) Next() (schema.RawRecord, error) {
	if r.err != nil {
		return schema.RawRecord{}, r.err
	}
	if r.closed {
		r.err = failure.IO("read csv", errors.New("reader closed"))
		return schema.RawRecord{}, r.err
	}

	rec, err := r.cr.Read()
	if err == io.EOF {
		r.err = io.EOF
		return schema.RawRecord{}, io.EOF
	}
	if err != nil {
		r.err = failure.IO("read csv", err)
		return schema.RawRecord{}, r.err
	}

	r.line, _ = r.cr.FieldPos(0)
	if len(rec) != len(r.header) {
		r.ragged++
	}

	fields := make([]schema.Field, len(r.header))
	for i, name := range r.header {
		v := ""
		if i < len(rec) {
			v = rec[i]
		}
		if r.validate && !utf8.ValidString(v) {
			r.err = failure.IO(fmt.Sprintf("read csv: line %d column %q", r.line, name), ErrMalformedEncoding)
			return schema.RawRecord{}, r.err
		}
		if r.trim {
			v = strings.TrimSpace(v)
		}
		fields[i] = schema.Field{Name: name, Value: v}
	}
	r.count++
	return schema.RawRecord{Line: r.line, Fields: fields}, nil
}

// Line returns the 1-based source line on which the last returned record
// started (1 before any data record has been read).
func (r *Reader) Line() int { return r.line }

// Records returns the number of data records returned so far.
func (r *Reader) Records() int { return r.count }

// Ragged returns how many records had a field count different from the
// header.
func (r *Reader) Ragged() int { return r.ragged }

// Checksum returns the xxh3-64 digest of the raw bytes consumed so far. After
// Next has returned io.EOF it covers the entire input.
func (r *Reader) Checksum() uint64 { return r.hash.Sum64() }

// Close releases the underlying stream. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.src.Close(); err != nil {
		return failure.IO("close source", err)
	}
	return nil
}
