package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/imgshield/internal/model"
)

// barWidth is the width of a full bar in text charts.
const barWidth = 30

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the review in human-readable format.
func (w *SimpleWriter) Write(review *model.ImageReview) (int, error) {
	return w.WriteSummary(model.NewReviewSummary(review))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(s *model.ReviewSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, s)
	if s.Analysed {
		w.writeScore(&sb, s)
		w.writeRisk(&sb, s)
		w.writeExtractedText(&sb, s)
		w.writeDetectedData(&sb, s)
		w.writeBreakdown(&sb, s)
		w.writeScenarios(&sb, s)
		w.writeRecommendations(&sb, s)
	}
	w.writeFindings(&sb, s)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with review information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.ReviewSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      IMAGE PRIVACY REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Image:          %s\n", s.Image)
	if s.Digest != "" {
		fmt.Fprintf(sb, "Digest:         %s\n", shortDigest(s.Digest))
	}
	fmt.Fprintf(sb, "Review Date:    %s\n", s.DateReviewed.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(s))
	if w.verbose && len(s.PerformedSteps) > 0 {
		fmt.Fprintf(sb, "Steps:          %s\n", strings.Join(s.PerformedSteps, ", "))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScore(sb *strings.Builder, s *model.ReviewSummary) {
	if s.PrivacyScore == nil {
		return
	}
	section(sb, "PRIVACY SCORE")

	score := *s.PrivacyScore
	filled := max(0, min(barWidth, score*barWidth/100))
	fmt.Fprintf(sb, "  %3d/100 [%s%s]\n", score, strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled))
	fmt.Fprintf(sb, "  %s\n\n", s.ScoreMessage)
}

func (w *SimpleWriter) writeRisk(sb *strings.Builder, s *model.ReviewSummary) {
	section(sb, "RISK LEVEL")

	fmt.Fprintf(sb, "  Level:       %s\n", strings.ToUpper(string(s.RiskLevel)))
	fmt.Fprintf(sb, "  Gauge:       %+d°\n", s.GaugeRotation)
	fmt.Fprintf(sb, "  Findings:    %d\n", s.TotalFindings)
	fmt.Fprintf(sb, "  Explanation: %s\n\n", s.RiskExplanation)
}

func (w *SimpleWriter) writeExtractedText(sb *strings.Builder, s *model.ReviewSummary) {
	section(sb, "EXTRACTED TEXT")

	for line := range strings.SplitSeq(s.ExtractedText, "\n") {
		fmt.Fprintf(sb, "  %s\n", line)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDetectedData(sb *strings.Builder, s *model.ReviewSummary) {
	section(sb, "DETECTED DATA")

	for line := range strings.SplitSeq(model.FormatDetectedData(s.DetectedData), "\n") {
		fmt.Fprintf(sb, "  %s\n", line)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeBreakdown(sb *strings.Builder, s *model.ReviewSummary) {
	categories := s.Categories
	if !w.showEmpty {
		categories = s.NonEmptyCategories()
	}
	if len(categories) == 0 {
		return
	}
	section(sb, "CATEGORY BREAKDOWN")

	maxWeighted := 0
	for _, c := range categories {
		maxWeighted = max(maxWeighted, c.Weighted)
	}
	for _, c := range categories {
		filled := 0
		if maxWeighted > 0 {
			filled = c.Weighted * barWidth / maxWeighted
		}
		fmt.Fprintf(sb, "  %-24s %3d items %3d%%  risk %3d %s\n",
			truncateString(c.Label, 24), c.Count, c.Percent, c.Weighted, strings.Repeat("#", filled))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScenarios(sb *strings.Builder, s *model.ReviewSummary) {
	section(sb, "RISK SCENARIOS")

	if len(s.Scenarios) == 0 {
		fmt.Fprintf(sb, "  %s\n\n", model.NoRiskScenarios)
		return
	}
	for _, sc := range s.Scenarios {
		fmt.Fprintf(sb, "  %s %s\n", sc.Marker, sc.Text)
	}
	if s.MultipleScenarios {
		fmt.Fprintf(sb, "\n  %s\n", model.MultipleScenarioWarning)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, s *model.ReviewSummary) {
	if len(s.Recommendations) == 0 && !w.showEmpty {
		return
	}
	section(sb, "RECOMMENDATIONS")

	if len(s.Recommendations) == 0 {
		sb.WriteString("  No recommendations\n")
	}
	for _, r := range s.Recommendations {
		fmt.Fprintf(sb, "  [+] %s\n", r)
	}
	sb.WriteString("\n")
}

// writeFindings writes metadata findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, s *model.ReviewSummary) {
	if len(s.Findings) == 0 && !w.showEmpty {
		return
	}
	section(sb, "METADATA FINDINGS")

	if len(s.Findings) == 0 {
		sb.WriteString("  No metadata findings\n\n")
		return
	}

	for _, severity := range severityOrder {
		findings := s.FindingsBySeverity(severity)
		if len(findings) == 0 {
			continue
		}

		fmt.Fprintf(sb, "[%s] %s\n", severityIndicator(severity), severity.String())
		for _, f := range findings {
			fmt.Fprintf(sb, "  * %s\n", f.Title)
			if f.Value != "" {
				fmt.Fprintf(sb, "    Value: %s\n", f.Value)
			}
			if w.verbose && f.Description != "" {
				fmt.Fprintf(sb, "    Description: %s\n", f.Description)
			}
			if w.verbose && f.Recommendation != "" {
				fmt.Fprintf(sb, "    Recommendation: %s\n", f.Recommendation)
			}
		}
		sb.WriteString("\n")
	}
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by imgshield\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
