package remindersvc

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mutombo/kamusi/core/review"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
	emailsvc "github.com/mutombo/kamusi/services/email"
	inmemdb "github.com/mutombo/kamusi/storage/database/inmem"
	testutil "github.com/mutombo/kamusi/tests"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func TestService_SendDueReminders(t *testing.T) {
	ctx := context.Background()
	emailsvc.SentMessages = emailsvc.SentMessages[:0]

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	wordRepo := inmemdb.NewWordRepository(db)
	reviewRepo := inmemdb.NewReviewRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	vocabSvc := vocab.NewService(wordRepo)
	reviewSvc := review.NewService(reviewRepo, nopLogger{})

	now := time.Now().UTC()

	// two due words (one never reviewed, one overdue)
	busy := testutil.CreateUser(t, usrRepo, "Busy", "busybe", "busy@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateWord(t, wordRepo, busy.ID, "mango", nil)
	overdue := testutil.CreateWord(t, wordRepo, busy.ID, "river", nil)
	if err := reviewRepo.SaveProgress(ctx, busy.ID, review.Progress{
		WordID:       overdue.ID,
		Difficulty:   review.DifficultyHard,
		IntervalDays: 1,
		LastReviewed: now.AddDate(0, 0, -2),
		NextReview:   now.AddDate(0, 0, -1),
		ReviewCount:  1,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("SaveProgress() failed: %v", err)
	}

	// all caught up, should not be emailed
	done := testutil.CreateUser(t, usrRepo, "Done", "donezo", "done@test.cd", "", []string{user.RoleStudent}, true)
	scheduled := testutil.CreateWord(t, wordRepo, done.ID, "stone", nil)
	if err := reviewRepo.SaveProgress(ctx, done.ID, review.Progress{
		WordID:       scheduled.ID,
		Difficulty:   review.DifficultyEasy,
		IntervalDays: 7,
		LastReviewed: now,
		NextReview:   now.AddDate(0, 0, 7),
		ReviewCount:  1,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("SaveProgress() failed: %v", err)
	}

	// deactivated, should not be emailed despite due words
	gone := testutil.CreateUser(t, usrRepo, "Gone", "gonerr", "gone@test.cd", "", []string{user.RoleStudent}, false)
	testutil.CreateWord(t, wordRepo, gone.ID, "tree", nil)

	// teachers have no flashcards
	testutil.CreateUser(t, usrRepo, "Teacher", "teache", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	svc := NewService(usrSvc, vocabSvc, reviewSvc, mailSvc, nopLogger{})
	svc.nowFunc = func() time.Time { return now }

	svc.SendDueReminders()

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("SendDueReminders() sent %d messages; want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if got := msg.To[0].Address; got != busy.Email {
		t.Errorf("To = %v; want %v", got, busy.Email)
	}
	if msg.Subject != "Flashcards due for review" {
		t.Errorf("Subject = %v", msg.Subject)
	}
	if !strings.Contains(msg.TextContent, "You have 2 flashcards due for review today.") {
		t.Errorf("TextContent = %v", msg.TextContent)
	}
	if !strings.Contains(msg.TextContent, "Hi Busy,") {
		t.Errorf("TextContent = %v", msg.TextContent)
	}
}

func TestService_SendDueReminders_singular(t *testing.T) {
	emailsvc.SentMessages = emailsvc.SentMessages[:0]

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	wordRepo := inmemdb.NewWordRepository(db)
	reviewRepo := inmemdb.NewReviewRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	vocabSvc := vocab.NewService(wordRepo)
	reviewSvc := review.NewService(reviewRepo, nopLogger{})

	student := testutil.CreateUser(t, usrRepo, "Solo", "solow", "solo@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateWord(t, wordRepo, student.ID, "mango", nil)

	svc := NewService(usrSvc, vocabSvc, reviewSvc, mailSvc, nopLogger{})
	svc.SendDueReminders()

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("SendDueReminders() sent %d messages; want 1", len(emailsvc.SentMessages))
	}
	if got := emailsvc.SentMessages[0].TextContent; !strings.Contains(got, "You have 1 flashcard due for review today.") {
		t.Errorf("TextContent = %v", got)
	}
}
