package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mutombo/kamusi/core/vocab"
)

func words(ids ...string) []vocab.Word {
	ws := make([]vocab.Word, 0, len(ids))
	for _, id := range ids {
		ws = append(ws, vocab.Word{ID: id, English: id})
	}
	return ws
}

func ids(ws []vocab.Word) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ID)
	}
	return out
}

func TestDueWords(t *testing.T) {
	now := time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		words    []vocab.Word
		progress map[string]Progress
		want     []string
	}{
		{
			name:  "never reviewed is always due",
			words: words("a", "b"),
			want:  []string{"a", "b"},
		},
		{
			name:  "overdue included, future excluded",
			words: words("a", "b", "c"),
			progress: map[string]Progress{
				"a": {WordID: "a", NextReview: now.Add(-time.Second)},
				"b": {WordID: "b", NextReview: now.Add(time.Second)},
			},
			want: []string{"a", "c"},
		},
		{
			name:  "boundary is inclusive",
			words: words("a"),
			progress: map[string]Progress{
				"a": {WordID: "a", NextReview: now},
			},
			want: []string{"a"},
		},
		{
			name:  "original relative order preserved",
			words: words("z", "m", "a"),
			progress: map[string]Progress{
				"m": {WordID: "m", NextReview: now.Add(-48 * time.Hour)},
				"z": {WordID: "z", NextReview: now.Add(-time.Hour)},
			},
			want: []string{"z", "m", "a"},
		},
		{
			name: "empty vocabulary",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueWords(tt.words, tt.progress, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestForceDueWords(t *testing.T) {
	ws := words("a", "b", "c")

	// nothing shown yet: everything is due regardless of stored NextReview
	assert.Equal(t, []string{"a", "b", "c"}, ids(ForceDueWords(ws, nil)))

	// words already shown this session are excluded
	shown := map[string]bool{"b": true}
	assert.Equal(t, []string{"a", "c"}, ids(ForceDueWords(ws, shown)))
}

func TestProgressByWordID(t *testing.T) {
	recs := []Progress{{WordID: "a", ReviewCount: 1}, {WordID: "b", ReviewCount: 2}}
	m := ProgressByWordID(recs)
	assert.Len(t, m, 2)
	assert.Equal(t, 2, m["b"].ReviewCount)
}
