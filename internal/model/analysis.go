package model

import "strings"

// RiskLevel is the overall risk rating assigned by the analysis endpoint.
type RiskLevel string

const (
	// RiskLow means few or no sensitive items were found.
	RiskLow RiskLevel = "low"
	// RiskMedium means some sensitive items were found.
	RiskMedium RiskLevel = "medium"
	// RiskHigh means the image exposes significant personal data.
	RiskHigh RiskLevel = "high"
	// RiskUnknown covers missing or unrecognised ratings.
	RiskUnknown RiskLevel = "unknown"
)

// ParseRiskLevel normalises a rating string. Anything that is not
// low, medium or high becomes RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch level := RiskLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case RiskLow, RiskMedium, RiskHigh:
		return level
	default:
		return RiskUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so that decoded
// responses never carry an unrecognised rating.
func (r *RiskLevel) UnmarshalText(text []byte) error {
	*r = ParseRiskLevel(string(text))
	return nil
}

// AnalysisResponse is the JSON body returned by the analysis endpoint.
type AnalysisResponse struct {
	// Success is false when the server rejected or failed to process the image.
	Success bool `json:"success"`

	// ExtractedText is the text the server read from the image.
	ExtractedText string `json:"extracted_text,omitempty"`

	// Analysis holds the privacy assessment. It is nil on failure.
	Analysis *Analysis `json:"analysis,omitempty"`

	// Error is the server's message when Success is false.
	Error string `json:"error,omitempty"`
}

// Analysis is the privacy assessment of one image.
type Analysis struct {
	// DetectedData maps a category such as "financial_info" to the items found.
	DetectedData map[string][]string `json:"detected_data"`

	// RiskLevel is the overall rating.
	RiskLevel RiskLevel `json:"risk_level"`

	// RiskExplanation is a one-line summary of the rating.
	RiskExplanation string `json:"risk_explanation,omitempty"`

	// Recommendations are suggested actions before sharing the image.
	Recommendations []string `json:"recommendations,omitempty"`

	// PrivacyScore ranges from 0 to 100. It is nil when the server omits it.
	PrivacyScore *int `json:"privacy_score,omitempty"`

	// TotalFindings is the number of detected items across all categories.
	TotalFindings int `json:"total_findings"`

	// RiskScenarios are short narratives, usually prefixed with an emoji.
	RiskScenarios []string `json:"risk_scenarios,omitempty"`
}

// Risk returns the rating, treating an empty value as unknown.
func (a *Analysis) Risk() RiskLevel {
	if a == nil || a.RiskLevel == "" {
		return RiskUnknown
	}
	return ParseRiskLevel(string(a.RiskLevel))
}

// HasScore reports whether the server returned a privacy score.
func (a *Analysis) HasScore() bool {
	return a != nil && a.PrivacyScore != nil
}
