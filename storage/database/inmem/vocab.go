package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutombo/kamusi/core/vocab"
)

type wordRepository struct {
	db *wordTable
}

var _ vocab.Repository = (*wordRepository)(nil) // interface compliance check

func NewWordRepository(db *DB) *wordRepository {
	return &wordRepository{db: db.word}
}

func (repo *wordRepository) CheckEnglishUniqueness(ctx context.Context, ownerID, english string, excludedWords ...vocab.Word) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, w := range repo.db.table {
		if w.OwnerID != ownerID || w.English != english {
			continue
		}
		excluded := false
		for _, excl := range excludedWords {
			if excl.ID == w.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return vocab.ErrDuplicate
		}
	}
	return nil
}

func (repo *wordRepository) CreateWord(ctx context.Context, w vocab.Word) (vocab.Word, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	w.ID = uuid.New().String()
	repo.db.table[w.ID] = &w
	repo.db.order = append(repo.db.order, w.ID)
	return w, nil
}

func (repo *wordRepository) ListWords(ctx context.Context, ownerID string) ([]vocab.Word, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	words := make([]vocab.Word, 0)
	for _, id := range repo.db.order {
		if w, ok := repo.db.table[id]; ok && w.OwnerID == ownerID {
			words = append(words, *w)
		}
	}
	return words, nil
}

func (repo *wordRepository) GetWordByID(ctx context.Context, ownerID, id string) (vocab.Word, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if w, ok := repo.db.table[id]; ok && w.OwnerID == ownerID {
		return *w, nil
	}
	return vocab.Word{}, vocab.ErrNotFound
}

func (repo *wordRepository) UpdateWord(ctx context.Context, w vocab.Word) (vocab.Word, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[w.ID]
	if !ok || orig.OwnerID != w.OwnerID {
		return vocab.Word{}, vocab.ErrNotFound
	}
	orig.English = w.English
	orig.Translations = w.Translations
	orig.UpdatedAt = w.UpdatedAt
	return *orig, nil
}

func (repo *wordRepository) DeleteWord(ctx context.Context, ownerID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	w, ok := repo.db.table[id]
	if !ok || w.OwnerID != ownerID {
		return vocab.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, wid := range repo.db.order {
		if wid == id {
			repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
			break
		}
	}
	return nil
}
