package model

import (
	"strings"
	"time"
)

// Placeholder texts used when the analysis leaves a field empty.
const (
	NoExtractedText   = "No text extracted"
	NoExplanation     = "No explanation provided"
	NoDetectedData    = "No sensitive data detected"
	NoRiskScenarios   = "No specific risk scenarios generated."
	AnalysisFailedMsg = "Analysis failed"
)

// Scenario is a risk scenario split into its marker and text.
type Scenario struct {
	Marker string `json:"marker"`
	Text   string `json:"text"`
}

// ReviewSummary is the display-ready form of an ImageReview. Writers render
// it instead of walking the raw analysis.
type ReviewSummary struct {
	Image        string    `json:"image"`
	Digest       string    `json:"digest,omitempty"`
	DateReviewed time.Time `json:"date_reviewed"`

	// Analysed is false when no successful analysis was received.
	Analysed bool   `json:"analysed"`
	Error    string `json:"error,omitempty"`
	TimedOut bool   `json:"timed_out"`

	ExtractedText   string              `json:"extracted_text"`
	DetectedData    map[string][]string `json:"detected_data,omitempty"`
	TotalFindings   int                 `json:"total_findings"`
	RiskLevel       RiskLevel           `json:"risk_level"`
	GaugeRotation   int                 `json:"gauge_rotation"`
	RiskExplanation string              `json:"risk_explanation"`
	Recommendations []string            `json:"recommendations,omitempty"`

	PrivacyScore *int      `json:"privacy_score,omitempty"`
	ScoreBand    ScoreBand `json:"score_band,omitempty"`
	ScoreMessage string    `json:"score_message,omitempty"`
	ScoreSaved   bool      `json:"score_saved"`

	Scenarios         []Scenario `json:"risk_scenarios,omitempty"`
	MultipleScenarios bool       `json:"multiple_scenarios"`

	// Categories has every category, including empty ones.
	Categories []CategoryCount `json:"categories,omitempty"`

	Findings       []Finding `json:"findings,omitempty"`
	CriticalCount  int       `json:"critical_count"`
	HighCount      int       `json:"high_count"`
	MediumCount    int       `json:"medium_count"`
	LowCount       int       `json:"low_count"`
	InfoCount      int       `json:"info_count"`
	PerformedSteps []string  `json:"performed_steps,omitempty"`
}

// NewReviewSummary builds the summary of a review.
func NewReviewSummary(r *ImageReview) *ReviewSummary {
	s := &ReviewSummary{
		Image:          r.Image,
		Digest:         r.Digest,
		DateReviewed:   r.DateReviewed,
		TimedOut:       r.TimedOut,
		Error:          r.ErrorMessage,
		ExtractedText:  NoExtractedText,
		RiskLevel:      RiskUnknown,
		ScoreSaved:     r.ScoreSaved,
		Findings:       r.Findings,
		PerformedSteps: r.PerformedSteps,
	}

	counts := r.SeverityCounts()
	s.CriticalCount = counts[SeverityCritical]
	s.HighCount = counts[SeverityHigh]
	s.MediumCount = counts[SeverityMedium]
	s.LowCount = counts[SeverityLow]
	s.InfoCount = counts[SeverityInfo]

	resp := r.Response
	if resp == nil {
		return s
	}
	if !resp.Success {
		if resp.Error != "" {
			s.Error = resp.Error
		}
		if s.Error == "" {
			s.Error = AnalysisFailedMsg
		}
		return s
	}

	s.Analysed = true
	if strings.TrimSpace(resp.ExtractedText) != "" {
		s.ExtractedText = resp.ExtractedText
	}

	a := resp.Analysis
	s.RiskLevel = a.Risk()
	s.GaugeRotation = GaugeRotation(s.RiskLevel)
	s.RiskExplanation = NoExplanation
	if a == nil {
		return s
	}

	if a.RiskExplanation != "" {
		s.RiskExplanation = a.RiskExplanation
	}
	s.DetectedData = a.DetectedData
	s.TotalFindings = a.TotalFindings
	s.Recommendations = a.Recommendations
	s.Categories = Breakdown(a.DetectedData)

	if a.HasScore() {
		s.PrivacyScore = a.PrivacyScore
		s.ScoreBand = BandForScore(*a.PrivacyScore)
		s.ScoreMessage = s.ScoreBand.Message()
	}

	for _, scenario := range a.RiskScenarios {
		marker, text := SplitScenario(scenario)
		s.Scenarios = append(s.Scenarios, Scenario{Marker: marker, Text: text})
	}
	s.MultipleScenarios = len(s.Scenarios) >= 2

	return s
}

// HasDetectedData reports whether any category has items.
func (s *ReviewSummary) HasDetectedData() bool {
	for _, items := range s.DetectedData {
		if len(items) > 0 {
			return true
		}
	}
	return false
}

// NonEmptyCategories returns the categories that contain items.
func (s *ReviewSummary) NonEmptyCategories() []CategoryCount {
	result := make([]CategoryCount, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Count > 0 {
			result = append(result, c)
		}
	}
	return result
}

// FindingsBySeverity returns metadata findings of one severity.
func (s *ReviewSummary) FindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// FormatDetectedData renders detected items as "CATEGORY NAME: a, b" lines.
// Empty categories are skipped; with nothing detected it returns NoDetectedData.
func FormatDetectedData(detected map[string][]string) string {
	var lines []string
	for _, category := range sortedCategories(detected) {
		items := detected[category]
		if len(items) == 0 {
			continue
		}
		label := strings.ToUpper(strings.ReplaceAll(category, "_", " "))
		lines = append(lines, label+": "+strings.Join(items, ", "))
	}
	if len(lines) == 0 {
		return NoDetectedData
	}
	return strings.Join(lines, "\n")
}
