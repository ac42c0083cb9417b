package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoLines           = errors.New("pdf yielded no extractable lines")
	ErrMalformedPDF      = errors.New("malformed pdf")
	ErrMalformedLookup   = errors.New("malformed lookup spreadsheet")
	ErrMissingAttachment = errors.New("missing attachment")
)

// ConfigError reports a lookup table that lacks a required column. It aborts
// the run before any output is produced.
type ConfigError struct {
	Missing []string
	Found   []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("lookup table is missing column(s) %s; found: %s",
		quoteList(e.Missing), quoteList(e.Found))
}

func quoteList(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}
