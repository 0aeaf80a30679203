package csv

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// utf8BOM is the byte order mark some exporters put in front of UTF-8 text.
const utf8BOM = "\uFEFF"

// SkipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
// Read errors hit while peeking are returned by the first Read.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, _ := br.Peek(len(utf8BOM)); bytes.Equal(b, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	return headers
}
