package review

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mutombo/kamusi/core"
)

type fakeRepo struct {
	progress  map[string]Progress // keyed by userID+"/"+wordID
	intervals map[string]Intervals

	getProgressErr  error
	getIntervalsErr error
	saveProgressErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		progress:  make(map[string]Progress),
		intervals: make(map[string]Intervals),
	}
}

func (r *fakeRepo) GetProgress(_ context.Context, userID, wordID string) (Progress, error) {
	if r.getProgressErr != nil {
		return Progress{}, r.getProgressErr
	}
	p, ok := r.progress[userID+"/"+wordID]
	if !ok {
		return Progress{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListProgress(_ context.Context, userID string) ([]Progress, error) {
	var recs []Progress
	for _, p := range r.progress {
		recs = append(recs, p)
	}
	return recs, nil
}

func (r *fakeRepo) SaveProgress(_ context.Context, userID string, p Progress) error {
	if r.saveProgressErr != nil {
		return r.saveProgressErr
	}
	r.progress[userID+"/"+p.WordID] = p
	return nil
}

func (r *fakeRepo) GetIntervals(_ context.Context, userID string) (Intervals, error) {
	if r.getIntervalsErr != nil {
		return Intervals{}, r.getIntervalsErr
	}
	iv, ok := r.intervals[userID]
	if !ok {
		return Intervals{}, ErrNotFound
	}
	return iv, nil
}

func (r *fakeRepo) SaveIntervals(_ context.Context, userID string, iv Intervals) error {
	r.intervals[userID] = iv
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestService(repo Repository, now time.Time) *service {
	return &service{
		repo:    repo,
		logger:  nopLogger{},
		nowFunc: func() time.Time { return now },
	}
}

func Test_service_EffectiveIntervals(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	// unset -> defaults
	assert.Equal(t, Intervals{Easy: 7, Medium: 3, Hard: 1}, svc.EffectiveIntervals(ctx, "u1"))

	// configured -> configured values
	custom := Intervals{Easy: 10, Medium: 5, Hard: 2}
	if err := svc.SetIntervals(ctx, "u1", custom); err != nil {
		t.Fatalf("SetIntervals() failed: %v", err)
	}
	assert.Equal(t, custom, svc.EffectiveIntervals(ctx, "u1"))

	// unreachable store -> defaults, never an error
	repo.getIntervalsErr = errors.New("store down")
	assert.Equal(t, DefaultIntervals(), svc.EffectiveIntervals(ctx, "u1"))
}

func Test_service_SetIntervals_bounds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo(), time.Now())

	tests := []struct {
		name    string
		iv      Intervals
		wantErr bool
	}{
		{name: "all mins", iv: Intervals{Easy: 1, Medium: 1, Hard: 1}},
		{name: "all maxes", iv: Intervals{Easy: 30, Medium: 30, Hard: 30}},
		{name: "zero rejected", iv: Intervals{Easy: 0, Medium: 3, Hard: 1}, wantErr: true},
		{name: "31 rejected", iv: Intervals{Easy: 7, Medium: 31, Hard: 1}, wantErr: true},
		{name: "negative rejected", iv: Intervals{Easy: 7, Medium: 3, Hard: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetIntervals(ctx, "u1", tt.iv)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetIntervals() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_service_Rate_firstRating(t *testing.T) {
	// user has never reviewed "apple"; defaults apply; rating "easy" yields
	// interval=7, reviewCount=1, nextReview = now + 7 days.
	ctx := context.Background()
	now := time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)

	p, err := svc.Rate(ctx, "u1", "apple", DifficultyEasy)
	if err != nil {
		t.Fatalf("Rate() failed: %v", err)
	}
	assert.Equal(t, DifficultyEasy, p.Difficulty)
	assert.Equal(t, 7, p.IntervalDays)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, now, p.LastReviewed)
	assert.Equal(t, now.AddDate(0, 0, 7), p.NextReview)
}

func Test_service_Rate_overwrite(t *testing.T) {
	// custom hard=2; "banana" rated hard at T, then easy (7) at T+1h:
	// the record is overwritten to interval=7, reviewCount=2,
	// nextReview = T+1h+7d.
	ctx := context.Background()
	repo := newFakeRepo()
	repo.intervals["u1"] = Intervals{Easy: 7, Medium: 3, Hard: 2}

	tm := time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)
	svc := newTestService(repo, tm)

	p, err := svc.Rate(ctx, "u1", "banana", DifficultyHard)
	if err != nil {
		t.Fatalf("Rate() failed: %v", err)
	}
	assert.Equal(t, 2, p.IntervalDays)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, tm.AddDate(0, 0, 2), p.NextReview)

	tm2 := tm.Add(time.Hour)
	svc.nowFunc = func() time.Time { return tm2 }
	p, err = svc.Rate(ctx, "u1", "banana", DifficultyEasy)
	if err != nil {
		t.Fatalf("Rate() failed: %v", err)
	}
	assert.Equal(t, DifficultyEasy, p.Difficulty)
	assert.Equal(t, 7, p.IntervalDays)
	assert.Equal(t, 2, p.ReviewCount)
	assert.Equal(t, tm2, p.LastReviewed)
	assert.Equal(t, tm2.AddDate(0, 0, 7), p.NextReview)
}

func Test_service_Rate_notIdempotent(t *testing.T) {
	// two identical ratings in a row still increment the count twice
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(newFakeRepo(), now)

	for want := 1; want <= 2; want++ {
		p, err := svc.Rate(ctx, "u1", "w1", DifficultyMedium)
		if err != nil {
			t.Fatalf("Rate() failed: %v", err)
		}
		assert.Equal(t, want, p.ReviewCount)
	}
}

func Test_service_Rate_invalidDifficulty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	for _, d := range []Difficulty{"", "EASY", "impossible"} {
		_, err := svc.Rate(ctx, "u1", "w1", d)
		if err == nil {
			t.Fatalf("Rate(%q) expected error", d)
		}
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Rate(%q) error = %T, want *core.ValidationError", d, err)
		}
		// rejected before any write
		assert.Empty(t, repo.progress)
	}
}

func Test_service_Rate_writeFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.saveProgressErr = errors.New("store down")
	svc := newTestService(repo, time.Now())

	_, err := svc.Rate(ctx, "u1", "w1", DifficultyEasy)
	if err == nil {
		t.Fatal("Rate() expected error on store failure")
	}
	assert.Empty(t, repo.progress)
}

func Test_service_Rate_intervalReadFailureFallsBack(t *testing.T) {
	// a broken preferences read must not block the rating
	ctx := context.Background()
	repo := newFakeRepo()
	repo.getIntervalsErr = errors.New("store down")
	svc := newTestService(repo, time.Now())

	p, err := svc.Rate(ctx, "u1", "w1", DifficultyHard)
	if err != nil {
		t.Fatalf("Rate() failed: %v", err)
	}
	assert.Equal(t, DefaultIntervals().Hard, p.IntervalDays)
}
