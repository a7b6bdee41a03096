package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/imgshield/internal/model"
)

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the review and its summary.
func (w *JSONWriter) Write(review *model.ImageReview) (int, error) {
	return w.writeJSON(NewJSONReport(review, ""))
}

// WriteSummary outputs only the summary.
func (w *JSONWriter) WriteSummary(summary *model.ReviewSummary) (int, error) {
	return w.writeJSON(summary)
}

// WriteBatch outputs several reviews as one JSON document.
func (w *JSONWriter) WriteBatch(reviews []*model.ImageReview, version string) (int, error) {
	reports := make([]*JSONReport, 0, len(reviews))
	for _, r := range reviews {
		if r == nil {
			continue
		}
		reports = append(reports, NewJSONReport(r, version))
	}
	return w.writeJSON(reports)
}

// WriteHistory outputs score history entries.
func (w *JSONWriter) WriteHistory(entries []model.ScoreEntry) (int, error) {
	if entries == nil {
		entries = []model.ScoreEntry{}
	}
	return w.writeJSON(entries)
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a review with its summary and the tool version.
type JSONReport struct {
	// Version is the imgshield version that generated this report.
	Version string `json:"version,omitempty"`

	// Review is the raw review, including the analysis response.
	Review *model.ImageReview `json:"review"`

	// Summary is the display-ready form of the review.
	Summary *model.ReviewSummary `json:"summary"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(review *model.ImageReview, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Review:  review,
		Summary: model.NewReviewSummary(review),
	}
}
