package report

import (
	"io"

	"github.com/nao1215/imgshield/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the review to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(review *model.ImageReview) (int, error)

	// WriteSummary outputs an already built summary.
	WriteSummary(summary *model.ReviewSummary) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the review to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(review *model.ImageReview) (int, error) {
	return m.WriteSummary(model.NewReviewSummary(review))
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.ReviewSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
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

// statusText describes how far the review got.
func statusText(s *model.ReviewSummary) string {
	switch {
	case s.TimedOut:
		return "Cancelled (partial results)"
	case s.Error != "":
		return "Error - " + s.Error
	case s.Analysed:
		return "Complete"
	default:
		return "Not analysed"
	}
}

// shortDigest keeps digests readable in tables.
func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityInfo,
}
