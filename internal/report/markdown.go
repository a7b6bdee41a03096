package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/imgshield/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the review in Markdown format.
func (w *MarkdownWriter) Write(review *model.ImageReview) (int, error) {
	return w.WriteSummary(model.NewReviewSummary(review))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(s *model.ReviewSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	if s.Analysed {
		w.writeScore(md, s)
		w.writeRisk(md, s)
		w.writeDetectedData(md, s)
		w.writeScenarios(md, s)
		w.writeRecommendations(md, s)
	} else if s.Error != "" {
		md.Cautionf("Analysis did not complete: %s", s.Error)
		md.PlainText("")
	}
	w.writeFindings(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.ReviewSummary) {
	md.H1("Image Privacy Report")
	md.PlainText("")

	rows := [][]string{
		{"Image", "`" + s.Image + "`"},
	}
	if s.Digest != "" {
		rows = append(rows, []string{"Digest", "`" + shortDigest(s.Digest) + "`"})
	}
	rows = append(rows,
		[]string{"Review Date", s.DateReviewed.Format("2006-01-02 15:04:05 MST")},
		[]string{"Status", statusIcon(s) + " " + statusText(s)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusIcon(s *model.ReviewSummary) string {
	switch {
	case s.TimedOut:
		return "⚠️"
	case s.Error != "":
		return "❌"
	case s.Analysed:
		return "✅"
	default:
		return "➖"
	}
}

func (w *MarkdownWriter) writeScore(md *markdown.Markdown, s *model.ReviewSummary) {
	if s.PrivacyScore == nil {
		return
	}
	md.H2("Privacy Score")
	md.PlainText("")
	md.PlainTextf("**%d / 100**", *s.PrivacyScore)
	md.PlainText("")

	switch s.ScoreBand {
	case model.BandExcellent:
		md.Tip(s.ScoreMessage)
	case model.BandFair:
		md.Warningf("%s", s.ScoreMessage)
	default:
		md.Cautionf("%s", s.ScoreMessage)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRisk(md *markdown.Markdown, s *model.ReviewSummary) {
	md.H2("Risk Level")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Level", "Gauge", "Findings"},
		Rows: [][]string{
			{riskIcon(s.RiskLevel) + " " + strings.ToUpper(string(s.RiskLevel)), fmt.Sprintf("%+d°", s.GaugeRotation), strconv.Itoa(s.TotalFindings)},
		},
	})
	md.PlainText("")
	md.PlainText(s.RiskExplanation)
	md.PlainText("")
}

func riskIcon(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "🔴"
	case model.RiskMedium:
		return "🟡"
	case model.RiskLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func (w *MarkdownWriter) writeDetectedData(md *markdown.Markdown, s *model.ReviewSummary) {
	md.H2("Extracted Text")
	md.PlainText("")
	md.Details("Show extracted text", s.ExtractedText)
	md.PlainText("")

	md.H2("Detected Data")
	md.PlainText("")
	if !s.HasDetectedData() {
		md.PlainText(model.NoDetectedData)
		md.PlainText("")
		return
	}

	for _, c := range s.NonEmptyCategories() {
		md.PlainText("### " + c.Label)
		md.PlainText("")
		md.BulletList(s.DetectedData[c.Category]...)
		md.PlainText("")
	}

	w.writePieChart(md, s)

	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		rows = append(rows, []string{
			c.Label,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.Percent) + "%",
			strconv.Itoa(model.CategoryWeight(c.Category)),
			strconv.Itoa(c.Weighted),
		})
	}
	md.PlainText("### Risk Breakdown")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Items", "Share", "Weight", "Weighted Risk"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the detected categories.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.ReviewSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Detected Data Distribution"),
		piechart.WithShowData(true),
	)

	for _, c := range s.NonEmptyCategories() {
		chart.LabelAndIntValue(c.Label, uint64(c.Count)) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeScenarios(md *markdown.Markdown, s *model.ReviewSummary) {
	md.H2("Risk Scenarios")
	md.PlainText("")

	if len(s.Scenarios) == 0 {
		md.PlainText(model.NoRiskScenarios)
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		items = append(items, sc.Marker+" "+sc.Text)
	}
	md.BulletList(items...)
	md.PlainText("")

	if s.MultipleScenarios {
		md.Warningf("%s", model.MultipleScenarioWarning)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, s *model.ReviewSummary) {
	if len(s.Recommendations) == 0 {
		return
	}
	md.H2("Recommendations")
	md.PlainText("")
	md.BulletList(s.Recommendations...)
	md.PlainText("")
}

// writeFindings writes metadata findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, s *model.ReviewSummary) {
	md.H2("Metadata Findings")
	md.PlainText("")

	if len(s.Findings) == 0 {
		md.PlainText("No metadata findings.")
		md.PlainText("")
		return
	}

	switch {
	case s.CriticalCount > 0:
		md.Cautionf("The image reveals where it was taken. %d critical finding(s).", s.CriticalCount)
	case s.HighCount > 0:
		md.Warningf("The image metadata identifies a person or device. %d high severity finding(s).", s.HighCount)
	default:
		md.Note("Only minor metadata was found.")
	}
	md.PlainText("")

	headers := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityHigh, "### 🟠 High"},
		{model.SeverityMedium, "### 🟡 Medium"},
		{model.SeverityLow, "### 🔵 Low"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range headers {
		findings := s.FindingsBySeverity(sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")

		rows := make([][]string, len(findings))
		for i, f := range findings {
			value := f.Value
			if value == "" {
				value = "-"
			}
			rec := f.Recommendation
			if rec == "" {
				rec = "-"
			}
			rows[i] = []string{f.Title, truncateString(value, 50), truncateString(rec, 60)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Title", "Value", "Recommendation"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by imgshield*")
}
