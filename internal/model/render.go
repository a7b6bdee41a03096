package model

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultScenarioMarker is shown in front of scenarios that have no marker of their own.
const DefaultScenarioMarker = "⚠️"

// MultipleScenarioWarning is shown when two or more risk scenarios were generated.
const MultipleScenarioWarning = "⚠️ Multiple risk scenarios detected - consider reviewing your post carefully"

// categoryWeights weights categories in the risk breakdown. Unlisted categories weigh 1.
var categoryWeights = map[string]int{
	"financial_info":       3,
	"medical_info":         3,
	"personal_identifiers": 2,
	"location_data":        2,
	"other_sensitive_data": 1,
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// CategoryLabel turns a category key such as "financial_info" into "Financial Info".
func CategoryLabel(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

// CategoryWeight returns the risk weight of a category.
func CategoryWeight(category string) int {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return 1
}

// CategoryCount is the number of items detected in one category.
type CategoryCount struct {
	// Category is the raw category key.
	Category string `json:"category"`
	// Label is the display name.
	Label string `json:"label"`
	// Count is the number of items.
	Count int `json:"count"`
	// Weighted is Count multiplied by the category weight.
	Weighted int `json:"weighted"`
	// Percent is the share of all items, rounded to a whole percent.
	Percent int `json:"percent"`
}

// sortedCategories returns the keys of detected in a stable order.
func sortedCategories(detected map[string][]string) []string {
	keys := make([]string, 0, len(detected))
	for k := range detected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Breakdown returns one entry per category, including empty ones, sorted by key.
// Percentages are zero when nothing was detected.
func Breakdown(detected map[string][]string) []CategoryCount {
	total := 0
	for _, items := range detected {
		total += len(items)
	}

	result := make([]CategoryCount, 0, len(detected))
	for _, category := range sortedCategories(detected) {
		count := len(detected[category])
		entry := CategoryCount{
			Category: category,
			Label:    CategoryLabel(category),
			Count:    count,
			Weighted: count * CategoryWeight(category),
		}
		if total > 0 {
			entry.Percent = int(math.Round(float64(count) / float64(total) * 100))
		}
		result = append(result, entry)
	}
	return result
}

// CategoryCounts returns only the categories that contain at least one item.
func CategoryCounts(detected map[string][]string) []CategoryCount {
	all := Breakdown(detected)
	result := make([]CategoryCount, 0, len(all))
	for _, c := range all {
		if c.Count > 0 {
			result = append(result, c)
		}
	}
	return result
}

// WeightedScores maps every category to its weighted item count.
func WeightedScores(detected map[string][]string) map[string]int {
	scores := make(map[string]int, len(detected))
	for category, items := range detected {
		scores[category] = len(items) * CategoryWeight(category)
	}
	return scores
}

// ScoreBand classifies a privacy score for display.
type ScoreBand string

const (
	// BandExcellent covers scores of 80 and above.
	BandExcellent ScoreBand = "excellent"
	// BandFair covers scores from 50 to 79.
	BandFair ScoreBand = "fair"
	// BandPoor covers scores below 50.
	BandPoor ScoreBand = "poor"
)

// BandForScore returns the band of a privacy score.
func BandForScore(score int) ScoreBand {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// Message returns the sentence shown next to the score.
func (b ScoreBand) Message() string {
	switch b {
	case BandExcellent:
		return "🎉 Excellent! Your privacy is well protected."
	case BandFair:
		return "⚠️ Good, but there's room for improvement."
	default:
		return "🚨 High risk detected. Review recommendations below."
	}
}

// GaugeRotation returns the needle angle in degrees for a risk level.
func GaugeRotation(level RiskLevel) int {
	switch level {
	case RiskLow:
		return -45
	case RiskHigh:
		return 45
	default:
		return 0
	}
}

// SplitScenario separates a scenario's leading marker token from its text.
// A scenario without whitespace has no marker and gets DefaultScenarioMarker.
func SplitScenario(scenario string) (marker, text string) {
	idx := strings.IndexAny(scenario, " \t\n\r")
	if idx <= 0 {
		return DefaultScenarioMarker, scenario
	}
	return scenario[:idx], scenario[idx+1:]
}
