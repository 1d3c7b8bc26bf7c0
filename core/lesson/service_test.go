package lesson

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	lessons  []Lesson
	homework []HomeworkSubmission
	nextID   int
}

func (r *fakeRepo) CreateLesson(_ context.Context, l Lesson) (Lesson, error) {
	r.nextID++
	l.ID = strconv.Itoa(r.nextID)
	r.lessons = append(r.lessons, l)
	return l, nil
}

func (r *fakeRepo) GetLessonByID(_ context.Context, id string) (Lesson, error) {
	for _, l := range r.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return Lesson{}, ErrNotFound
}

func (r *fakeRepo) ListLessonsForUser(_ context.Context, userID string) ([]Lesson, error) {
	var out []Lesson
	for _, l := range r.lessons {
		if l.StudentID == userID || l.TeacherID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateLesson(_ context.Context, l Lesson) (Lesson, error) {
	for i := range r.lessons {
		if r.lessons[i].ID == l.ID {
			r.lessons[i] = l
			return l, nil
		}
	}
	return Lesson{}, ErrNotFound
}

func (r *fakeRepo) DeleteLesson(_ context.Context, id string) error {
	for i, l := range r.lessons {
		if l.ID == id {
			r.lessons = append(r.lessons[:i], r.lessons[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) CreateHomework(_ context.Context, hw HomeworkSubmission) (HomeworkSubmission, error) {
	r.nextID++
	hw.ID = strconv.Itoa(r.nextID)
	r.homework = append(r.homework, hw)
	return hw, nil
}

func (r *fakeRepo) ListHomeworkForLesson(_ context.Context, lessonID string) ([]HomeworkSubmission, error) {
	var out []HomeworkSubmission
	for _, hw := range r.homework {
		if hw.LessonID == lessonID {
			out = append(out, hw)
		}
	}
	return out, nil
}

func Test_service_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	sched := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	l, err := svc.Create(ctx, "teacher-1", NewLesson{
		StudentID:       "student-1",
		Subject:         "Greetings",
		Notes:           "bring workbook",
		ScheduledAt:     sched,
		DurationMinutes: 45,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "teacher-1", l.TeacherID)
	assert.Equal(t, "student-1", l.StudentID)
	assert.Equal(t, sched, l.ScheduledAt)
	assert.False(t, l.CreatedAt.IsZero())
}

func Test_service_Update(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo)

	l, err := svc.Create(ctx, "teacher-1", NewLesson{
		StudentID:       "student-1",
		Subject:         "Greetings",
		ScheduledAt:     time.Now().UTC().Add(24 * time.Hour),
		DurationMinutes: 45,
	})
	assert.NoError(t, err)

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", UpdateLesson{Subject: "Numbers"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero-valued fields keep current values", func(t *testing.T) {
		got, err := svc.Update(ctx, l.ID, UpdateLesson{Subject: "Numbers"})
		assert.NoError(t, err)
		assert.Equal(t, "Numbers", got.Subject)
		assert.Equal(t, l.ScheduledAt, got.ScheduledAt)
		assert.Equal(t, 45, got.DurationMinutes)
	})

	t.Run("notes can be cleared", func(t *testing.T) {
		empty := ""
		got, err := svc.Update(ctx, l.ID, UpdateLesson{Notes: &empty})
		assert.NoError(t, err)
		assert.Empty(t, got.Notes)
	})
}

func Test_service_ListForUser(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo)

	nl := NewLesson{Subject: "Greetings", ScheduledAt: time.Now().UTC(), DurationMinutes: 30}

	nl.StudentID = "student-1"
	_, err := svc.Create(ctx, "teacher-1", nl)
	assert.NoError(t, err)
	nl.StudentID = "student-2"
	_, err = svc.Create(ctx, "teacher-1", nl)
	assert.NoError(t, err)

	lessons, err := svc.ListForUser(ctx, "student-1")
	assert.NoError(t, err)
	assert.Len(t, lessons, 1)

	lessons, err = svc.ListForUser(ctx, "teacher-1") // sees both
	assert.NoError(t, err)
	assert.Len(t, lessons, 2)

	lessons, err = svc.ListForUser(ctx, "nobody")
	assert.NoError(t, err)
	assert.Empty(t, lessons)
}

func Test_service_SubmitHomework(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo)

	l, err := svc.Create(ctx, "teacher-1", NewLesson{
		StudentID:       "student-1",
		Subject:         "Greetings",
		ScheduledAt:     time.Now().UTC(),
		DurationMinutes: 30,
	})
	assert.NoError(t, err)

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := svc.SubmitHomework(ctx, "nope", "student-1", NewHomework{Content: "Habari"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("submission recorded", func(t *testing.T) {
		hw, err := svc.SubmitHomework(ctx, l.ID, "student-1", NewHomework{Content: "Habari"})
		assert.NoError(t, err)
		assert.NotEmpty(t, hw.ID)
		assert.Equal(t, l.ID, hw.LessonID)
		assert.False(t, hw.SubmittedAt.IsZero())

		subs, err := svc.ListHomework(ctx, l.ID)
		assert.NoError(t, err)
		assert.Len(t, subs, 1)
	})
}
