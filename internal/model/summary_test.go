package model

import "testing"

func TestNewReviewSummary(t *testing.T) {
	t.Parallel()

	t.Run("review without response keeps placeholders", func(t *testing.T) {
		t.Parallel()

		s := NewReviewSummary(NewImageReview("a.png"))
		if s.Analysed {
			t.Error("expected Analysed to be false")
		}
		if s.ExtractedText != NoExtractedText {
			t.Errorf("expected placeholder text, got %q", s.ExtractedText)
		}
		if s.RiskLevel != RiskUnknown {
			t.Errorf("expected unknown risk, got %q", s.RiskLevel)
		}
	})

	t.Run("unsuccessful response without message reports analysis failed", func(t *testing.T) {
		t.Parallel()

		r := NewImageReview("a.png")
		r.Response = &AnalysisResponse{Success: false}

		s := NewReviewSummary(r)
		if s.Error != AnalysisFailedMsg {
			t.Errorf("expected %q, got %q", AnalysisFailedMsg, s.Error)
		}
	})

	t.Run("successful response is summarised", func(t *testing.T) {
		t.Parallel()

		score := 42
		r := NewImageReview("a.png")
		r.AddFinding(NewFinding(FindingGPSLocation, "GPS", "", "", ""))
		r.Response = &AnalysisResponse{
			Success:       true,
			ExtractedText: "Visa 4111",
			Analysis: &Analysis{
				DetectedData:  map[string][]string{"financial_info": {"4111"}, "medical_info": {}},
				RiskLevel:     RiskHigh,
				PrivacyScore:  &score,
				TotalFindings: 1,
				RiskScenarios: []string{"💳 Card fraud", "nomarker"},
			},
		}

		s := NewReviewSummary(r)
		if !s.Analysed {
			t.Fatal("expected Analysed")
		}
		if s.GaugeRotation != 45 {
			t.Errorf("expected rotation 45, got %d", s.GaugeRotation)
		}
		if s.RiskExplanation != NoExplanation {
			t.Errorf("expected explanation placeholder, got %q", s.RiskExplanation)
		}
		if s.ScoreBand != BandPoor || s.ScoreMessage != BandPoor.Message() {
			t.Errorf("unexpected band %q %q", s.ScoreBand, s.ScoreMessage)
		}
		if len(s.Scenarios) != 2 || s.Scenarios[0].Marker != "💳" || s.Scenarios[1].Marker != DefaultScenarioMarker {
			t.Errorf("unexpected scenarios %+v", s.Scenarios)
		}
		if !s.MultipleScenarios {
			t.Error("expected multiple scenario warning")
		}
		if len(s.Categories) != 2 || len(s.NonEmptyCategories()) != 1 {
			t.Errorf("unexpected categories %+v", s.Categories)
		}
		if s.CriticalCount != 1 {
			t.Errorf("expected one critical finding, got %d", s.CriticalCount)
		}
	})

	t.Run("a single scenario does not warn", func(t *testing.T) {
		t.Parallel()

		r := NewImageReview("a.png")
		r.Response = &AnalysisResponse{Success: true, Analysis: &Analysis{RiskScenarios: []string{"⚠️ one"}}}

		if NewReviewSummary(r).MultipleScenarios {
			t.Error("expected no warning")
		}
	})
}

func TestFormatDetectedData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		detected map[string][]string
		want     string
	}{
		{"empty map", nil, NoDetectedData},
		{"only empty categories", map[string][]string{"financial_info": {}}, NoDetectedData},
		{
			"categories are upper case with spaces",
			map[string][]string{"personal_identifiers": {"Jane", "Doe"}, "financial_info": {"4111"}},
			"FINANCIAL INFO: 4111\nPERSONAL IDENTIFIERS: Jane, Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatDetectedData(tt.detected); got != tt.want {
				t.Errorf("FormatDetectedData() = %q, want %q", got, tt.want)
			}
		})
	}
}
