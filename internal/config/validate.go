package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"steamload/internal/datasource"
	"steamload/internal/parser/csv"
	"steamload/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// MaxRecommendedBatch is the batch size above which Validate warns.
const MaxRecommendedBatch = 100000

// tableNameRE accepts a bare or schema-qualified table name.
var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Issue describes a single validation finding.
//
// Path names the offending option (e.g. "batch_size", "metrics.backend").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static checks over c. It does not mutate c. Storage kinds
// are checked against the backends registered with the storage package.
func Validate(c Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Input) == "" {
		add(SeverityError, "input", "input must not be empty")
	}
	if strings.TrimSpace(c.Output) == "" {
		add(SeverityError, "output", "output must not be empty")
	}

	switch {
	case c.BatchSize <= 0:
		add(SeverityError, "batch_size", "batch_size must be > 0, got %d", c.BatchSize)
	case c.BatchSize > MaxRecommendedBatch:
		add(SeverityWarning, "batch_size",
			"batch_size %d is very large; each batch is one transaction held in memory", c.BatchSize)
	}

	switch {
	case c.Table == "":
		add(SeverityError, "table", "table must not be empty")
	case !tableNameRE.MatchString(c.Table):
		add(SeverityError, "table", "table %q must match %s", c.Table, tableNameRE.String())
	}

	kinds := storage.ListKinds()
	if !slices.Contains(kinds, c.Storage) {
		add(SeverityError, "storage", "unsupported storage kind %q; known kinds: %s",
			c.Storage, strings.Join(kinds, ", "))
	}
	if c.Storage == "postgres" && !strings.Contains(c.Output, "=") && !strings.Contains(c.Output, "://") {
		add(SeverityWarning, "output",
			"storage is postgres but output %q does not look like a connection string", c.Output)
	}

	if !csv.SupportedCharset(c.Charset) {
		add(SeverityError, "charset", "unsupported charset %q; known: %s",
			c.Charset, strings.Join(csv.Charsets(), ", "))
	}

	switch r := c.Comma(); {
	case r == utf8.RuneError:
		add(SeverityError, "delimiter", "delimiter must be a single character, got %q", c.Delimiter)
	case r == '"' || r == '\r' || r == '\n':
		add(SeverityError, "delimiter", "delimiter %q is not allowed", c.Delimiter)
	}

	issues = append(issues, validateMetrics(c.Metrics)...)

	if datasource.IsRemote(c.Input) && strings.HasSuffix(strings.ToLower(c.Input), "/") {
		add(SeverityWarning, "input", "input URL %q names a directory, not a file", c.Input)
	}

	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", MetricsNone:
	case MetricsPrometheus:
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus metrics require a pushgateway URL",
			})
		}
	case MetricsDatadog:
		if strings.TrimSpace(m.DogStatsDAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.dogstatsd_addr",
				Message:  "datadog metrics require a DogStatsD address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message: fmt.Sprintf("unknown metrics backend %q; use %s, %s or %s",
				m.Backend, MetricsNone, MetricsPrometheus, MetricsDatadog),
		})
	}
	return issues
}
