package model

import "time"

// ScoreEntry is one privacy score stored in the history.
type ScoreEntry struct {
	// ID is the database row id.
	ID int64 `json:"id"`

	// Score is the privacy score, 0 to 100.
	Score int `json:"score"`

	// Timestamp is when the score was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Image is the base name of the analysed file.
	Image string `json:"image,omitempty"`

	// Digest identifies the file contents.
	Digest string `json:"digest,omitempty"`
}

// Band returns the display band of the entry's score.
func (e ScoreEntry) Band() ScoreBand {
	return BandForScore(e.Score)
}
