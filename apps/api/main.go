package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/mutombo/kamusi/apps/api/echo"
	"github.com/mutombo/kamusi/core"
	"github.com/mutombo/kamusi/core/lesson"
	"github.com/mutombo/kamusi/core/review"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
	emailsvc "github.com/mutombo/kamusi/services/email"
	logsvc "github.com/mutombo/kamusi/services/logger"
	remindersvc "github.com/mutombo/kamusi/services/reminder"
	"github.com/mutombo/kamusi/storage/database"
	sqlxrepos "github.com/mutombo/kamusi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	vocabSvc := vocab.NewService(sqlxrepos.NewWordRepository(db))
	reviewSvc := review.NewService(sqlxrepos.NewReviewRepository(db), logger)
	lessonSvc := lesson.NewService(sqlxrepos.NewLessonRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Reminder Scheduler

	if core.Conf.Reminder.Enabled {
		reminder := remindersvc.NewService(usrSvc, vocabSvc, reviewSvc, mailSvc, logger)
		if err = reminder.Start(); err != nil {
			logger.Fatal(fmt.Sprintf("starting reminder scheduler: %v", err), err)
		}
		defer reminder.Stop()
	}

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        core.Conf.Server.Host + ":" + core.Conf.Server.Port,
		Logger:         logger,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		UserSvc:        usrSvc,
		VocabSvc:       vocabSvc,
		ReviewSvc:      reviewSvc,
		LessonSvc:      lessonSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
