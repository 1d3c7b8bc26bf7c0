package vocab

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound  = errors.New("word not found")
	ErrDuplicate = errors.New("a word with this english term already exists")
)

type (
	Repository interface {
		// CheckEnglishUniqueness returns ErrDuplicate when the owner already
		// has a word with this english term, excluding the provided words.
		CheckEnglishUniqueness(ctx context.Context, ownerID, english string, excludedWords ...Word) error
		CreateWord(ctx context.Context, w Word) (Word, error)
		// ListWords returns the owner's words in insertion order.
		ListWords(ctx context.Context, ownerID string) ([]Word, error)
		GetWordByID(ctx context.Context, ownerID, id string) (Word, error)
		UpdateWord(ctx context.Context, w Word) (Word, error)
		DeleteWord(ctx context.Context, ownerID, id string) error
	}

	Service interface {
		Add(ctx context.Context, ownerID string, nw NewWord) (Word, error)
		List(ctx context.Context, ownerID string) ([]Word, error)
		Get(ctx context.Context, ownerID, id string) (Word, error)
		Update(ctx context.Context, ownerID, id string, uw UpdateWord) (Word, error)
		Delete(ctx context.Context, ownerID, id string) error
		// ImportXLSX bulk-imports words from an uploaded spreadsheet;
		// duplicates are skipped, not errors.
		ImportXLSX(ctx context.Context, ownerID, lang string, r io.Reader) (ImportResult, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Add(ctx context.Context, ownerID string, nw NewWord) (Word, error) {
	if err := svc.repo.CheckEnglishUniqueness(ctx, ownerID, nw.English); err != nil {
		return Word{}, err
	}
	now := time.Now().UTC()
	w := Word{
		OwnerID:      ownerID,
		English:      nw.English,
		Translations: nw.Translations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateWord(ctx, w)
}

func (svc *service) List(ctx context.Context, ownerID string) ([]Word, error) {
	return svc.repo.ListWords(ctx, ownerID)
}

func (svc *service) Get(ctx context.Context, ownerID, id string) (Word, error) {
	return svc.repo.GetWordByID(ctx, ownerID, id)
}

func (svc *service) Update(ctx context.Context, ownerID, id string, uw UpdateWord) (Word, error) {
	w, err := svc.repo.GetWordByID(ctx, ownerID, id)
	if err != nil {
		return Word{}, err
	}
	if uw.English != "" && uw.English != w.English {
		if err = svc.repo.CheckEnglishUniqueness(ctx, ownerID, uw.English, w); err != nil {
			return Word{}, err
		}
		w.English = uw.English
	}
	if uw.Translations != nil {
		w.Translations = uw.Translations
	}
	w.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateWord(ctx, w)
}

func (svc *service) Delete(ctx context.Context, ownerID, id string) error {
	return svc.repo.DeleteWord(ctx, ownerID, id)
}
