package review

import (
	"time"

	"github.com/mutombo/kamusi/core/vocab"
)

// DueWords filters the user's vocabulary down to the words due for review at
// `now`. A word is due if it has no progress record, or if its NextReview is
// at or before `now` (inclusive boundary). The input order is preserved; no
// additional sort by due-ness or difficulty is applied. The function is pure
// and is simply re-run after every rating.
func DueWords(words []vocab.Word, progress map[string]Progress, now time.Time) []vocab.Word {
	due := make([]vocab.Word, 0, len(words))
	for _, w := range words {
		p, ok := progress[w.ID]
		if !ok || !p.NextReview.After(now) {
			due = append(due, w)
		}
	}
	return due
}

// ForceDueWords implements the explicit "review again" mode: every word is
// due regardless of its stored NextReview, except those already shown in the
// current session. The shown set is keyed by word ID and lives client-side
// for the duration of the session only.
func ForceDueWords(words []vocab.Word, shown map[string]bool) []vocab.Word {
	due := make([]vocab.Word, 0, len(words))
	for _, w := range words {
		if !shown[w.ID] {
			due = append(due, w)
		}
	}
	return due
}

// ProgressByWordID indexes progress records for due-set computation.
func ProgressByWordID(records []Progress) map[string]Progress {
	m := make(map[string]Progress, len(records))
	for _, p := range records {
		m[p.WordID] = p
	}
	return m
}
