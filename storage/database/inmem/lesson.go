package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mutombo/kamusi/core/lesson"
)

type lessonRepository struct {
	db *lessonTable
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *DB) *lessonRepository {
	return &lessonRepository{db: db.lesson}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l.ID = uuid.New().String()
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id string) (lesson.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if l, ok := repo.db.lessons[id]; ok {
		return *l, nil
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) ListLessonsForUser(ctx context.Context, userID string) ([]lesson.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]lesson.Lesson, 0)
	for _, l := range repo.db.lessons {
		if l.StudentID == userID || l.TeacherID == userID {
			lessons = append(lessons, *l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ScheduledAt.After(lessons[j].ScheduledAt) })
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.lessons[l.ID]
	if !ok {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	orig.Subject = l.Subject
	orig.Notes = l.Notes
	orig.ScheduledAt = l.ScheduledAt
	orig.DurationMinutes = l.DurationMinutes
	orig.UpdatedAt = l.UpdatedAt
	return *orig, nil
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.lessons[id]; !ok {
		return lesson.ErrNotFound
	}
	delete(repo.db.lessons, id)
	delete(repo.db.homework, id)
	return nil
}

func (repo *lessonRepository) CreateHomework(ctx context.Context, hw lesson.HomeworkSubmission) (lesson.HomeworkSubmission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	hw.ID = uuid.New().String()
	repo.db.homework[hw.LessonID] = append(repo.db.homework[hw.LessonID], &hw)
	return hw, nil
}

func (repo *lessonRepository) ListHomeworkForLesson(ctx context.Context, lessonID string) ([]lesson.HomeworkSubmission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]lesson.HomeworkSubmission, 0, len(repo.db.homework[lessonID]))
	for _, hw := range repo.db.homework[lessonID] {
		subs = append(subs, *hw)
	}
	return subs, nil
}
