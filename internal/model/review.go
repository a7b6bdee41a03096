package model

import "time"

// ImageReview is the accumulated result of reviewing one image.
// Pipeline steps fill it in order: metadata findings, the analysis
// response, then the history bookkeeping.
type ImageReview struct {
	// Image is the path of the reviewed file.
	Image string `json:"image"`

	// Digest is the hex BLAKE2b-256 digest of the file contents.
	Digest string `json:"digest,omitempty"`

	// DateReviewed is when the review started.
	DateReviewed time.Time `json:"date_reviewed"`

	// Findings are the metadata findings, in tag order.
	Findings []Finding `json:"findings,omitempty"`

	// Response is the analysis endpoint's reply. It is nil when the upload
	// step did not run or failed.
	Response *AnalysisResponse `json:"response,omitempty"`

	// ScoreSaved is true once the privacy score was stored in the history.
	ScoreSaved bool `json:"score_saved"`

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut indicates the review was cancelled before all steps ran.
	TimedOut bool `json:"timed_out"`

	// Error is the last step failure. It is not serialized; see ErrorMessage.
	Error error `json:"-"`

	// ErrorMessage is the text of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewImageReview creates a review for the given image path.
func NewImageReview(image string) *ImageReview {
	return &ImageReview{
		Image:        image,
		DateReviewed: time.Now(),
		Findings:     make([]Finding, 0),
	}
}

// AddFinding appends a metadata finding.
func (r *ImageReview) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Analysis returns the privacy assessment, or nil if none was received.
func (r *ImageReview) Analysis() *Analysis {
	if r.Response == nil {
		return nil
	}
	return r.Response.Analysis
}

// FindingsBySeverity returns findings filtered by severity.
func (r *ImageReview) FindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// SeverityCounts counts findings per severity level.
func (r *ImageReview) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}
