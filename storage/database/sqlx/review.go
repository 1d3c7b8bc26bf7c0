package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core/review"
)

type progressRow struct {
	UserID       string    `db:"user_id"`
	WordID       string    `db:"word_id"`
	Difficulty   string    `db:"difficulty"`
	IntervalDays int       `db:"interval_days"`
	LastReviewed time.Time `db:"last_reviewed"`
	NextReview   time.Time `db:"next_review"`
	ReviewCount  int       `db:"review_count"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row progressRow) progress() review.Progress {
	return review.Progress{
		WordID:       row.WordID,
		Difficulty:   review.Difficulty(row.Difficulty),
		IntervalDays: row.IntervalDays,
		LastReviewed: row.LastReviewed,
		NextReview:   row.NextReview,
		ReviewCount:  row.ReviewCount,
		UpdatedAt:    row.UpdatedAt,
	}
}

func newProgressRow(userID string, p review.Progress) progressRow {
	return progressRow{
		UserID:       userID,
		WordID:       p.WordID,
		Difficulty:   string(p.Difficulty),
		IntervalDays: p.IntervalDays,
		LastReviewed: p.LastReviewed.UTC(),
		NextReview:   p.NextReview.UTC(),
		ReviewCount:  p.ReviewCount,
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

type intervalsRow struct {
	UserID    string    `db:"user_id"`
	Easy      int       `db:"easy"`
	Medium    int       `db:"medium"`
	Hard      int       `db:"hard"`
	UpdatedAt time.Time `db:"updated_at"`
}

type reviewRepository struct {
	db *sqlx.DB
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *sqlx.DB) *reviewRepository {
	return &reviewRepository{db: db}
}

func (repo reviewRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return review.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo reviewRepository) GetProgress(ctx context.Context, userID, wordID string) (review.Progress, error) {
	var row progressRow
	q := `SELECT * FROM flashcard_progress WHERE user_id = $1 AND word_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, userID, wordID); err != nil {
		return review.Progress{}, repo.trapNoRowsErr(err, "finding progress")
	}
	return row.progress(), nil
}

func (repo reviewRepository) ListProgress(ctx context.Context, userID string) ([]review.Progress, error) {
	var rows []progressRow
	q := `SELECT * FROM flashcard_progress WHERE user_id = $1`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	progress := make([]review.Progress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, row.progress())
	}
	return progress, nil
}

func (repo reviewRepository) SaveProgress(ctx context.Context, userID string, p review.Progress) error {
	row := newProgressRow(userID, p)
	q := `
INSERT INTO flashcard_progress (user_id, word_id, difficulty, interval_days, last_reviewed, next_review, review_count, updated_at)
VALUES (:user_id, :word_id, :difficulty, :interval_days, :last_reviewed, :next_review, :review_count, :updated_at)
ON CONFLICT (user_id, word_id) DO UPDATE
SET difficulty = EXCLUDED.difficulty, interval_days = EXCLUDED.interval_days,
    last_reviewed = EXCLUDED.last_reviewed, next_review = EXCLUDED.next_review,
    review_count = EXCLUDED.review_count, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "saving progress")
	}
	return nil
}

func (repo reviewRepository) GetIntervals(ctx context.Context, userID string) (review.Intervals, error) {
	var row intervalsRow
	q := `SELECT * FROM custom_intervals WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		return review.Intervals{}, repo.trapNoRowsErr(err, "finding intervals")
	}
	return review.Intervals{Easy: row.Easy, Medium: row.Medium, Hard: row.Hard}, nil
}

func (repo reviewRepository) SaveIntervals(ctx context.Context, userID string, iv review.Intervals) error {
	row := intervalsRow{
		UserID:    userID,
		Easy:      iv.Easy,
		Medium:    iv.Medium,
		Hard:      iv.Hard,
		UpdatedAt: time.Now().UTC(),
	}
	q := `
INSERT INTO custom_intervals (user_id, easy, medium, hard, updated_at)
VALUES (:user_id, :easy, :medium, :hard, :updated_at)
ON CONFLICT (user_id) DO UPDATE
SET easy = EXCLUDED.easy, medium = EXCLUDED.medium, hard = EXCLUDED.hard, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "saving intervals")
	}
	return nil
}
