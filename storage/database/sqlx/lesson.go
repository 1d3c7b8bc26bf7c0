package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mutombo/kamusi/core/lesson"
)

type lessonRow struct {
	ID              string      `db:"id"`
	StudentID       string      `db:"student_id"`
	TeacherID       string      `db:"teacher_id"`
	Subject         string      `db:"subject"`
	Notes           null.String `db:"notes"`
	ScheduledAt     time.Time   `db:"scheduled_at"`
	DurationMinutes int         `db:"duration_minutes"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func (row lessonRow) lesson() lesson.Lesson {
	return lesson.Lesson{
		ID:              row.ID,
		StudentID:       row.StudentID,
		TeacherID:       row.TeacherID,
		Subject:         row.Subject,
		Notes:           row.Notes.String,
		ScheduledAt:     row.ScheduledAt,
		DurationMinutes: row.DurationMinutes,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func newLessonRow(l lesson.Lesson) lessonRow {
	return lessonRow{
		ID:              l.ID,
		StudentID:       l.StudentID,
		TeacherID:       l.TeacherID,
		Subject:         l.Subject,
		Notes:           null.NewString(l.Notes, l.Notes != ""),
		ScheduledAt:     l.ScheduledAt.UTC(),
		DurationMinutes: l.DurationMinutes,
		CreatedAt:       l.CreatedAt.UTC(),
		UpdatedAt:       l.UpdatedAt.UTC(),
	}
}

type homeworkRow struct {
	ID          string    `db:"id"`
	LessonID    string    `db:"lesson_id"`
	StudentID   string    `db:"student_id"`
	Content     string    `db:"content"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (row homeworkRow) homework() lesson.HomeworkSubmission {
	return lesson.HomeworkSubmission{
		ID:          row.ID,
		LessonID:    row.LessonID,
		StudentID:   row.StudentID,
		Content:     row.Content,
		SubmittedAt: row.SubmittedAt,
	}
}

type lessonRepository struct {
	db *sqlx.DB
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *sqlx.DB) *lessonRepository {
	return &lessonRepository{db: db}
}

func (repo lessonRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return lesson.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	row := newLessonRow(l)
	q := `
INSERT INTO lesson (id, student_id, teacher_id, subject, notes, scheduled_at, duration_minutes, created_at, updated_at)
VALUES (:id, :student_id, :teacher_id, :subject, :notes, :scheduled_at, :duration_minutes, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return row.lesson(), nil
}

func (repo lessonRepository) GetLessonByID(ctx context.Context, id string) (lesson.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	var row lessonRow
	q := `SELECT * FROM lesson WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return lesson.Lesson{}, repo.trapNoRowsErr(err, "finding lesson")
	}
	return row.lesson(), nil
}

func (repo lessonRepository) ListLessonsForUser(ctx context.Context, userID string) ([]lesson.Lesson, error) {
	var rows []lessonRow
	q := `SELECT * FROM lesson WHERE student_id = $1 OR teacher_id = $1 ORDER BY scheduled_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]lesson.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.lesson())
	}
	return lessons, nil
}

func (repo lessonRepository) UpdateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	row := newLessonRow(l)
	q := `
UPDATE lesson
SET subject = :subject, notes = :notes, scheduled_at = :scheduled_at,
    duration_minutes = :duration_minutes, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	return row.lesson(), nil
}

func (repo lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return lesson.ErrNotFound
	}
	return nil
}

func (repo lessonRepository) CreateHomework(ctx context.Context, hw lesson.HomeworkSubmission) (lesson.HomeworkSubmission, error) {
	hw.ID = uuid.New().String()
	row := homeworkRow{
		ID:          hw.ID,
		LessonID:    hw.LessonID,
		StudentID:   hw.StudentID,
		Content:     hw.Content,
		SubmittedAt: hw.SubmittedAt.UTC(),
	}
	q := `
INSERT INTO homework_submission (id, lesson_id, student_id, content, submitted_at)
VALUES (:id, :lesson_id, :student_id, :content, :submitted_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return lesson.HomeworkSubmission{}, errors.Wrap(err, "inserting homework")
	}
	return row.homework(), nil
}

func (repo lessonRepository) ListHomeworkForLesson(ctx context.Context, lessonID string) ([]lesson.HomeworkSubmission, error) {
	var rows []homeworkRow
	q := `SELECT * FROM homework_submission WHERE lesson_id = $1 ORDER BY submitted_at`
	if err := repo.db.SelectContext(ctx, &rows, q, lessonID); err != nil {
		return nil, errors.Wrap(err, "querying homework")
	}
	subs := make([]lesson.HomeworkSubmission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.homework())
	}
	return subs, nil
}
