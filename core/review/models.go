package review

import (
	"time"

	"github.com/mutombo/kamusi/core"
)

// Difficulty is the learner's judgment of their recall of a word.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Progress is the stored review state for one word for one user. It is
// overwritten wholesale on every rating; no history of prior ratings is kept.
// A missing record means the word has never been reviewed and is implicitly due.
type Progress struct {
	WordID       string     `json:"word_id"`
	Difficulty   Difficulty `json:"difficulty"`
	IntervalDays int        `json:"interval_days"`
	LastReviewed time.Time  `json:"last_reviewed"` // UTC
	NextReview   time.Time  `json:"next_review"`   // UTC; always LastReviewed + IntervalDays days
	ReviewCount  int        `json:"review_count"`
	UpdatedAt    time.Time  `json:"updated_at"` // UTC
}

// Intervals maps each difficulty rating to the number of days until the word
// becomes due again. One record per user, replaced wholesale; values are only
// validated when set, never re-checked at read time.
type Intervals struct {
	Easy   int `json:"easy" validate:"min=1,max=30"`
	Medium int `json:"medium" validate:"min=1,max=30"`
	Hard   int `json:"hard" validate:"min=1,max=30"`
}

func DefaultIntervals() Intervals {
	return Intervals{Easy: 7, Medium: 3, Hard: 1}
}

// Days returns the day count matching the rating.
func (iv Intervals) Days(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return iv.Easy
	case DifficultyMedium:
		return iv.Medium
	default:
		return iv.Hard
	}
}

func (iv Intervals) Validate() error {
	return core.Validate.Struct(iv)
}
