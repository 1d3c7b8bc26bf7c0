package review

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core"
)

var (
	// errors
	ErrNotFound          = errors.New("progress not found")
	ErrInvalidDifficulty = errors.New("difficulty must be one of easy, medium or hard")
)

type (
	Repository interface {
		GetProgress(ctx context.Context, userID, wordID string) (Progress, error)
		ListProgress(ctx context.Context, userID string) ([]Progress, error)
		// SaveProgress overwrites the user's record for the word, creating it if absent.
		SaveProgress(ctx context.Context, userID string, p Progress) error
		GetIntervals(ctx context.Context, userID string) (Intervals, error)
		SaveIntervals(ctx context.Context, userID string, iv Intervals) error
	}

	Service interface {
		// EffectiveIntervals resolves the user's configured intervals, falling
		// back to the defaults when unset or unreadable. It never fails: a
		// rating must not be blocked by an inability to read preferences.
		EffectiveIntervals(ctx context.Context, userID string) Intervals
		SetIntervals(ctx context.Context, userID string, iv Intervals) error
		ListProgress(ctx context.Context, userID string) ([]Progress, error)
		Rate(ctx context.Context, userID, wordID string, d Difficulty) (Progress, error)
	}

	service struct {
		repo    Repository
		logger  core.Logger
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{
		repo:    repo,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (svc *service) EffectiveIntervals(ctx context.Context, userID string) Intervals {
	iv, err := svc.repo.GetIntervals(ctx, userID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Warn("reading custom intervals, using defaults", err)
		}
		return DefaultIntervals()
	}
	return iv
}

func (svc *service) SetIntervals(ctx context.Context, userID string, iv Intervals) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	return svc.repo.SaveIntervals(ctx, userID, iv)
}

func (svc *service) ListProgress(ctx context.Context, userID string) ([]Progress, error) {
	return svc.repo.ListProgress(ctx, userID)
}

// Rate records the user's judgment of one word and reschedules it:
// NextReview = now + interval(difficulty) days; ReviewCount = prior count + 1.
// It is deliberately not idempotent; duplicate submissions are the caller's
// problem to prevent. Exactly one record write happens per call.
func (svc *service) Rate(ctx context.Context, userID, wordID string, d Difficulty) (Progress, error) {
	if !d.Valid() {
		return Progress{}, core.NewValidationError(
			ErrInvalidDifficulty, core.FieldError{Field: "difficulty", Error: ErrInvalidDifficulty.Error()})
	}

	days := svc.EffectiveIntervals(ctx, userID).Days(d)
	now := svc.nowFunc().UTC()

	var count int
	cur, err := svc.repo.GetProgress(ctx, userID, wordID)
	switch errors.Cause(err) {
	case nil:
		count = cur.ReviewCount
	case ErrNotFound:
		// first rating for this word
	default:
		return Progress{}, errors.Wrap(err, "reading current progress")
	}

	p := Progress{
		WordID:       wordID,
		Difficulty:   d,
		IntervalDays: days,
		LastReviewed: now,
		NextReview:   now.AddDate(0, 0, days),
		ReviewCount:  count + 1,
		UpdatedAt:    now,
	}
	if err := svc.repo.SaveProgress(ctx, userID, p); err != nil {
		return Progress{}, errors.Wrap(err, "saving progress")
	}
	return p, nil
}
