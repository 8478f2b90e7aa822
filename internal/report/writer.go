package report

import (
	"io"
	"sort"
	"strings"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// Writer defines the interface for report output.
// Implementations write batch results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the batch result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(batch *model.BatchResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write batch results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the batch result to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(batch *model.BatchResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(batch)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// joinList renders a string list as a single cell value.
func joinList(values []string) string {
	return strings.Join(values, "; ")
}

// renderSocial flattens a platform-to-handles map into one cell,
// with platforms in alphabetical order for stable output.
func renderSocial(social map[string][]string) string {
	if len(social) == 0 {
		return ""
	}

	platforms := make([]string, 0, len(social))
	for p := range social {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	parts := make([]string, 0, len(platforms))
	for _, p := range platforms {
		parts = append(parts, p+": "+strings.Join(social[p], ", "))
	}
	return strings.Join(parts, "; ")
}
