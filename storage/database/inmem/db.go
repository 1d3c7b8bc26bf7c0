package inmemdb

import (
	"sync"

	"github.com/mutombo/kamusi/core/lesson"
	"github.com/mutombo/kamusi/core/review"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	wordTable struct {
		mutex sync.RWMutex
		table map[string]*vocab.Word
		order []string // word IDs in insertion order
	}

	progressKey struct {
		userID string
		wordID string
	}

	reviewTable struct {
		mutex     sync.RWMutex
		progress  map[progressKey]*review.Progress
		intervals map[string]*review.Intervals
	}

	lessonTable struct {
		mutex    sync.RWMutex
		lessons  map[string]*lesson.Lesson
		homework map[string][]*lesson.HomeworkSubmission // keyed by lesson ID
	}

	// DB is a mutex-guarded in-memory store. It backs the API tests and the
	// admin CLI's dry-run mode; data does not survive a restart.
	DB struct {
		user   *userTable
		word   *wordTable
		review *reviewTable
		lesson *lessonTable
	}
)

func NewDB() *DB {
	return &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		word:   &wordTable{table: make(map[string]*vocab.Word)},
		review: &reviewTable{progress: make(map[progressKey]*review.Progress), intervals: make(map[string]*review.Intervals)},
		lesson: &lessonTable{lessons: make(map[string]*lesson.Lesson), homework: make(map[string][]*lesson.HomeworkSubmission)},
	}
}
