package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mutombo/kamusi/core/lesson"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateWord(
	t *testing.T,
	repo vocab.Repository,
	ownerID, english string,
	translations map[string]string,
	createdAt ...time.Time,
) vocab.Word {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	w, err := repo.CreateWord(context.Background(), vocab.Word{
		OwnerID:      ownerID,
		English:      english,
		Translations: translations,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateWord() failed: %v", err)
	}
	return w
}

func CreateLesson(
	t *testing.T,
	repo lesson.Repository,
	studentID, teacherID, subject string,
	scheduledAt time.Time,
) lesson.Lesson {
	t.Helper()

	now := time.Now().UTC()
	l, err := repo.CreateLesson(context.Background(), lesson.Lesson{
		StudentID:       studentID,
		TeacherID:       teacherID,
		Subject:         subject,
		ScheduledAt:     scheduledAt.UTC(),
		DurationMinutes: 60,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return l
}
