package remindersvc

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mutombo/kamusi/core"
	"github.com/mutombo/kamusi/core/review"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
)

const reminderTemplate = `Hi {{ .Name }},

You have {{ .Count }} flashcard{{ if gt .Count 1 }}s{{ end }} due for review today.
Log in to {{ .AppName }} to keep your streak going!

{{ .URL }}`

// Service emails each active student a daily summary of their due flashcards.
type Service struct {
	scheduler *gocron.Scheduler
	usrSvc    user.Service
	vocabSvc  vocab.Service
	reviewSvc review.Service
	mailSvc   core.EmailService
	logger    core.Logger
	nowFunc   func() time.Time
}

func NewService(usrSvc user.Service, vocabSvc vocab.Service, reviewSvc review.Service, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		scheduler: gocron.NewScheduler(time.UTC),
		usrSvc:    usrSvc,
		vocabSvc:  vocabSvc,
		reviewSvc: reviewSvc,
		mailSvc:   mailSvc,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// Start schedules the daily job and returns immediately.
func (svc *Service) Start() error {
	at := fmt.Sprintf("%02d:00", core.Conf.Reminder.Hour)
	if _, err := svc.scheduler.Every(1).Day().At(at).Do(svc.SendDueReminders); err != nil {
		return err
	}
	svc.scheduler.StartAsync()
	svc.logger.Info("due-word reminders scheduled daily at " + at + " UTC")
	return nil
}

func (svc *Service) Stop() {
	svc.scheduler.Stop()
}

// SendDueReminders emails every active student who has at least one due word.
func (svc *Service) SendDueReminders() {
	ctx := context.Background()

	isActive := true
	students, err := svc.usrSvc.Query(ctx, &user.QueryFilter{Roles: user.StudentRoles, IsActive: &isActive}, nil)
	if err != nil {
		svc.logger.Error("querying students for reminders", err)
		return
	}

	now := svc.nowFunc().UTC()
	for _, student := range students {
		count, err := svc.dueCount(ctx, student.ID, now)
		if err != nil {
			svc.logger.Error("counting due words for "+student.Username, err)
			continue
		}
		if count == 0 {
			continue
		}
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:          []mail.Address{{Name: student.Name, Address: student.Email}},
			Subject:     "Flashcards due for review",
			TemplateStr: reminderTemplate,
			TemplateData: struct {
				Name    string
				Count   int
				AppName string
				URL     string
			}{
				Name:    student.Name,
				Count:   count,
				AppName: core.Conf.AppName,
				URL:     core.Conf.FrontendBaseURL + "/flashcards",
			},
		})
	}
}

func (svc *Service) dueCount(ctx context.Context, userID string, now time.Time) (int, error) {
	words, err := svc.vocabSvc.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	progress, err := svc.reviewSvc.ListProgress(ctx, userID)
	if err != nil {
		return 0, err
	}
	due := review.DueWords(words, review.ProgressByWordID(progress), now)
	return len(due), nil
}
