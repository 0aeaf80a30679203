package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CharsetUTF8 is the default input encoding. UTF-8 input is validated rather
// than decoded, so malformed bytes surface as read errors instead of U+FFFD.
const CharsetUTF8 = "utf-8"

var charsets = map[string]encoding.Encoding{
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// canonicalCharset lower-cases name and folds the common spellings of UTF-8.
func canonicalCharset(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf8", "utf-8", "utf-8-sig":
		return CharsetUTF8
	}
	return n
}

// SupportedCharset reports whether name can be passed as Options.Charset.
func SupportedCharset(name string) bool {
	n := canonicalCharset(name)
	if n == CharsetUTF8 {
		return true
	}
	_, ok := charsets[n]
	return ok
}

// Charsets lists the accepted charset names, UTF-8 first.
func Charsets() []string {
	return []string{
		CharsetUTF8, "utf-16", "utf-16le", "utf-16be",
		"windows-1252", "cp1252", "iso-8859-1", "latin1", "iso-8859-15",
	}
}

// decodeReader wraps r so that it yields UTF-8. For UTF-8 input r is
// returned unchanged.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	n := canonicalCharset(name)
	if n == CharsetUTF8 {
		return r, nil
	}
	enc, ok := charsets[n]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
