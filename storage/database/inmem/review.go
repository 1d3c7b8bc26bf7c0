package inmemdb

import (
	"context"

	"github.com/mutombo/kamusi/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) *reviewRepository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) GetProgress(ctx context.Context, userID, wordID string) (review.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.progress[progressKey{userID, wordID}]; ok {
		return *p, nil
	}
	return review.Progress{}, review.ErrNotFound
}

func (repo *reviewRepository) ListProgress(ctx context.Context, userID string) ([]review.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	progress := make([]review.Progress, 0)
	for key, p := range repo.db.progress {
		if key.userID == userID {
			progress = append(progress, *p)
		}
	}
	return progress, nil
}

func (repo *reviewRepository) SaveProgress(ctx context.Context, userID string, p review.Progress) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.progress[progressKey{userID, p.WordID}] = &p
	return nil
}

func (repo *reviewRepository) GetIntervals(ctx context.Context, userID string) (review.Intervals, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if iv, ok := repo.db.intervals[userID]; ok {
		return *iv, nil
	}
	return review.Intervals{}, review.ErrNotFound
}

func (repo *reviewRepository) SaveIntervals(ctx context.Context, userID string, iv review.Intervals) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.intervals[userID] = &iv
	return nil
}
