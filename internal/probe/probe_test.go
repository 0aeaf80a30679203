package probe

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"steamload/internal/failure"
)

type stringSource string

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

type failingSource struct{ err error }

func (f failingSource) Open(context.Context) (io.ReadCloser, error) { return nil, f.err }

func TestSniffDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want rune
	}{
		{"", ','},
		{"AppID,Name,Price", ','},
		{"AppID;Name;Price", ';'},
		{"AppID\tName\tPrice", '\t'},
		{"AppID|Name|Price", '|'},
		{`"a;b;c",d,e`, ','},        // quoted semicolons do not count
		{"a;b,c", ','},              // tie keeps comma
		{`AppID;"Name, full";Price`, ';'},
	}
	for _, tt := range tests {
		if got := SniffDelimiter(tt.line); got != tt.want {
			t.Fatalf("SniffDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestInferType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"all empty", []string{"", " "}, "empty"},
		{"integers", []string{"1", "", "-20"}, "integer"},
		{"booleans", []string{"True", "false", "yes"}, "boolean"},
		{"01 is integer first", []string{"0", "1"}, "integer"},
		{"prices", []string{"19.99", "0", "4.5"}, "real"},
		{"store dates", []string{"Oct 21, 2008", "Jan 2020"}, "date"},
		{"iso dates", []string{"2008-10-21"}, "date"},
		{"timestamps", []string{"2008-10-21 12:00:00", "2008-10-21"}, "timestamp"},
		{"mixed", []string{"1", "N/A"}, "text"},
	}
	for _, tt := range tests {
		if got := InferType(tt.in); got != tt.want {
			t.Fatalf("%s: InferType(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestRun_Report(t *testing.T) {
	t.Parallel()

	content := "\uFEFFAppID;Name;Release date;Price;Windows;Mystery;Notes\n" +
		"10;Alpha;Oct 21, 2008;19.99;True;x;\n" +
		"20;Beta;Jan 2020;0;False;y;\n" +
		"30;Gamma\n"

	rep, err := Run(context.Background(), stringSource(content), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Delimiter != ';' {
		t.Fatalf("Delimiter = %q, want ';'", rep.Delimiter)
	}
	if rep.Sampled != 3 || rep.Ragged != 1 {
		t.Fatalf("Sampled/Ragged = %d/%d, want 3/1", rep.Sampled, rep.Ragged)
	}
	if !rep.HasKey {
		t.Fatal("HasKey = false")
	}

	want := []Column{
		{Header: "AppID", Key: "appid", Known: true, Type: "integer"},
		{Header: "Name", Key: "name", Known: true, Type: "text"},
		{Header: "Release date", Key: "release_date", Known: true, Type: "date", Empty: 1},
		{Header: "Price", Key: "price", Known: true, Type: "real", Empty: 1},
		{Header: "Windows", Key: "windows", Known: true, Type: "boolean", Empty: 1},
		{Header: "Mystery", Key: "mystery", Known: false, Type: "text", Empty: 1},
		{Header: "Notes", Key: "notes", Known: true, Type: "empty", Empty: 3},
	}
	if len(rep.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d: %+v", len(rep.Columns), len(want), rep.Columns)
	}
	for i := range want {
		if rep.Columns[i] != want[i] {
			t.Fatalf("column %d = %+v, want %+v", i, rep.Columns[i], want[i])
		}
	}

	unknown := rep.Unknown()
	if len(unknown) != 1 || unknown[0].Header != "Mystery" {
		t.Fatalf("Unknown() = %+v", unknown)
	}
}

func TestRun_MaxRecordsAndForcedDelimiter(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("Name|Price\n")
	for i := 0; i < 50; i++ {
		sb.WriteString("x|1.5\n")
	}

	rep, err := Run(context.Background(), stringSource(sb.String()), Options{MaxRecords: 10, Delimiter: '|'})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Sampled != 10 {
		t.Fatalf("Sampled = %d, want 10", rep.Sampled)
	}
	if rep.HasKey {
		t.Fatal("HasKey = true for a header without AppID")
	}
	if rep.Columns[1].Type != "real" {
		t.Fatalf("Price type = %q", rep.Columns[1].Type)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	openErr := failure.IO("open source", errors.New("gone"))
	if _, err := Run(context.Background(), failingSource{openErr}, Options{}); !errors.Is(err, failure.ErrIO) {
		t.Fatalf("open failure: err = %v, want ErrIO", err)
	}
	if _, err := Run(context.Background(), stringSource(""), Options{}); !errors.Is(err, failure.ErrIO) {
		t.Fatalf("empty input: err = %v, want ErrIO", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, stringSource("a\n1\n"), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: err = %v, want context.Canceled", err)
	}
}
