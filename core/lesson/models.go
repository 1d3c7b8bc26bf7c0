package lesson

import (
	"time"

	"github.com/mutombo/kamusi/core"
)

// Lesson is one scheduled tutoring session between a teacher and a student.
type Lesson struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	TeacherID       string    `json:"teacher_id"`
	Subject         string    `json:"subject"`
	Notes           string    `json:"notes,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"` // UTC
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// HomeworkSubmission is a student's answer to the homework of one lesson.
type HomeworkSubmission struct {
	ID          string    `json:"id"`
	LessonID    string    `json:"lesson_id"`
	StudentID   string    `json:"student_id"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
}

type NewLesson struct {
	StudentID       string    `json:"student_id" validate:"required"`
	Subject         string    `json:"subject" validate:"required,max=100"`
	Notes           string    `json:"notes"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15,max=240"`
}

func (nl *NewLesson) Validate() error {
	nl.Subject = core.CleanString(nl.Subject)
	nl.Notes = core.CleanString(nl.Notes)
	return core.Validate.Struct(nl)
}

// UpdateLesson defines what may be changed on an existing lesson. Zero-valued
// fields keep their current value.
type UpdateLesson struct {
	Subject         string    `json:"subject" validate:"omitempty,max=100"`
	Notes           *string   `json:"notes"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=240"`
}

func (ul *UpdateLesson) Validate() error {
	ul.Subject = core.CleanString(ul.Subject)
	return core.Validate.Struct(ul)
}

type NewHomework struct {
	Content string `json:"content" validate:"required"`
}

func (nh *NewHomework) Validate() error {
	nh.Content = core.CleanString(nh.Content)
	return core.Validate.Struct(nh)
}
