package lesson

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		// ListLessonsForUser returns lessons where the user is either the
		// student or the teacher, most recent first.
		ListLessonsForUser(ctx context.Context, userID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error

		CreateHomework(ctx context.Context, hw HomeworkSubmission) (HomeworkSubmission, error)
		ListHomeworkForLesson(ctx context.Context, lessonID string) ([]HomeworkSubmission, error)
	}

	Service interface {
		Create(ctx context.Context, teacherID string, nl NewLesson) (Lesson, error)
		GetByID(ctx context.Context, id string) (Lesson, error)
		ListForUser(ctx context.Context, userID string) ([]Lesson, error)
		Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		Delete(ctx context.Context, id string) error

		SubmitHomework(ctx context.Context, lessonID, studentID string, nh NewHomework) (HomeworkSubmission, error)
		ListHomework(ctx context.Context, lessonID string) ([]HomeworkSubmission, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, teacherID string, nl NewLesson) (Lesson, error) {
	now := time.Now().UTC()
	l := Lesson{
		StudentID:       nl.StudentID,
		TeacherID:       teacherID,
		Subject:         nl.Subject,
		Notes:           nl.Notes,
		ScheduledAt:     nl.ScheduledAt.UTC(),
		DurationMinutes: nl.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateLesson(ctx, l)
}

func (svc *service) GetByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) ListForUser(ctx context.Context, userID string) ([]Lesson, error) {
	return svc.repo.ListLessonsForUser(ctx, userID)
}

func (svc *service) Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	l, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if ul.Subject != "" {
		l.Subject = ul.Subject
	}
	if ul.Notes != nil {
		l.Notes = *ul.Notes
	}
	if !ul.ScheduledAt.IsZero() {
		l.ScheduledAt = ul.ScheduledAt.UTC()
	}
	if ul.DurationMinutes != 0 {
		l.DurationMinutes = ul.DurationMinutes
	}
	l.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, l)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteLesson(ctx, id)
}

func (svc *service) SubmitHomework(ctx context.Context, lessonID, studentID string, nh NewHomework) (HomeworkSubmission, error) {
	if _, err := svc.repo.GetLessonByID(ctx, lessonID); err != nil {
		return HomeworkSubmission{}, err
	}
	hw := HomeworkSubmission{
		LessonID:    lessonID,
		StudentID:   studentID,
		Content:     nh.Content,
		SubmittedAt: time.Now().UTC(),
	}
	return svc.repo.CreateHomework(ctx, hw)
}

func (svc *service) ListHomework(ctx context.Context, lessonID string) ([]HomeworkSubmission, error) {
	return svc.repo.ListHomeworkForLesson(ctx, lessonID)
}
