// Package probe samples the head of an export and reports how its header maps
// onto the games table: which columns are recognized, which will be ignored,
// and what type each column's sampled values look like. It is a dry run; no
// store is opened.
package probe

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"steamload/internal/datasource"
	"steamload/internal/parser/csv"
	"steamload/internal/transformer"
)

// DefaultMaxRecords bounds the sample when Options.MaxRecords is zero.
const DefaultMaxRecords = 1000

// sniffWindow is how many leading bytes are inspected to guess the delimiter.
const sniffWindow = 64 << 10

// Options control sampling.
type Options struct {
	// MaxRecords is the number of data records to sample.
	MaxRecords int

	// Delimiter forces the field delimiter. Zero sniffs it from the header.
	Delimiter rune

	// Charset names the input encoding. Empty means UTF-8.
	Charset string
}

// Column describes one header cell.
type Column struct {
	Header string
	Key    string // normalized column key
	Known  bool   // maps onto a destination column
	Type   string // inferred from the sample: integer, real, boolean, date, timestamp, text, empty
	Empty  int    // empty values in the sample
}

// Report is the outcome of a probe.
type Report struct {
	Delimiter rune
	Columns   []Column
	Sampled   int
	Ragged    int

	// HasKey is false when no header maps onto app_id; every row would then
	// be rejected.
	HasKey bool
}

// Unknown returns the columns that will be ignored on import.
func (r Report) Unknown() []Column {
	var out []Column
	for _, c := range r.Columns {
		if !c.Known {
			out = append(out, c)
		}
	}
	return out
}

// Run opens src and samples up to opt.MaxRecords records.
func Run(ctx context.Context, src datasource.Source, opt Options) (Report, error) {
	var rep Report
	if opt.MaxRecords <= 0 {
		opt.MaxRecords = DefaultMaxRecords
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return rep, err
	}
	br := bufio.NewReaderSize(rc, sniffWindow)

	rep.Delimiter = opt.Delimiter
	if rep.Delimiter == 0 {
		rep.Delimiter = ','
		if !strings.HasPrefix(strings.ToLower(opt.Charset), "utf-16") {
			head, _ := br.Peek(sniffWindow)
			rep.Delimiter = SniffDelimiter(firstLine(head))
		}
	}

	copt := csv.DefaultOptions()
	copt.Comma = rep.Delimiter
	copt.Charset = opt.Charset
	r, err := csv.NewReader(struct {
		io.Reader
		io.Closer
	}{br, rc}, copt)
	if err != nil {
		return rep, err
	}
	defer r.Close()

	header := r.Header()
	samples := make([][]string, len(header))
	for rep.Sampled < opt.MaxRecords {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rep, err
		}
		for i, f := range rec.Fields {
			if i < len(samples) {
				samples[i] = append(samples[i], f.Value)
			}
		}
		rep.Sampled++
	}
	rep.Ragged = r.Ragged()

	rep.Columns = make([]Column, len(header))
	for i, h := range header {
		c := Column{
			Header: h,
			Key:    transformer.NormalizeKey(h),
			Known:  transformer.Known(h),
			Type:   InferType(samples[i]),
		}
		for _, v := range samples[i] {
			if v == "" {
				c.Empty++
			}
		}
		rep.Columns[i] = c
		if transformer.IsKey(h) {
			rep.HasKey = true
		}
	}
	return rep, nil
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}

// SniffDelimiter picks the candidate delimiter that occurs most often outside
// quotes in line. Ties and an empty line fall back to ','.
func SniffDelimiter(line string) rune {
	candidates := []rune{',', ';', '\t', '|'}
	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}
	best, bestN := ',', counts[',']
	for _, c := range candidates[1:] {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}

// InferType guesses a column type from sampled values. Every non-empty value
// must satisfy the narrower type for it to be chosen.
func InferType(values []string) string {
	nonEmpty := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			nonEmpty = append(nonEmpty, v)
		}
	}
	if len(nonEmpty) == 0 {
		return "empty"
	}
	if allMatch(nonEmpty, isInt) {
		return "integer"
	}
	if allMatch(nonEmpty, isBool) {
		return "boolean"
	}
	if allMatch(nonEmpty, isNumber) {
		return "real"
	}

	allDate, anyTime := true, false
	for _, v := range nonEmpty {
		ok, hasTime := parseDateOrTimestamp(v)
		if !ok {
			allDate = false
			break
		}
		anyTime = anyTime || hasTime
	}
	if allDate {
		if anyTime {
			return "timestamp"
		}
		return "date"
	}
	return "text"
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n", "1", "0":
		return true
	default:
		return false
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// dateLayouts covers ISO dates and the store-page spellings ("Oct 21, 2008",
// "21 Oct, 2008", "Oct 2008").
var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan, 2006",
	"Jan 2006",
	"January 2, 2006",
}

func parseDateOrTimestamp(s string) (ok bool, hasTime bool) {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, false
		}
	}
	return false, false
}
