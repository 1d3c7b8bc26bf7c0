package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core/vocab"
)

// translationsMap stores a word's per-language translations as JSONB.
type translationsMap map[string]string

func (m translationsMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *translationsMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported translations type %T", src)
	}
	return json.Unmarshal(b, m)
}

type wordRow struct {
	ID           string          `db:"id"`
	OwnerID      string          `db:"owner_id"`
	English      string          `db:"english"`
	Translations translationsMap `db:"translations"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (row wordRow) word() vocab.Word {
	return vocab.Word{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		English:      row.English,
		Translations: row.Translations,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func newWordRow(w vocab.Word) wordRow {
	return wordRow{
		ID:           w.ID,
		OwnerID:      w.OwnerID,
		English:      w.English,
		Translations: w.Translations,
		CreatedAt:    w.CreatedAt.UTC(),
		UpdatedAt:    w.UpdatedAt.UTC(),
	}
}

type wordRepository struct {
	db *sqlx.DB
}

var _ vocab.Repository = (*wordRepository)(nil) // interface compliance check

func NewWordRepository(db *sqlx.DB) *wordRepository {
	return &wordRepository{db: db}
}

func (repo wordRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return vocab.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo wordRepository) CheckEnglishUniqueness(ctx context.Context, ownerID, english string, excludedWords ...vocab.Word) error {
	args := []interface{}{ownerID, english}
	q := `SELECT EXISTS (SELECT 1 FROM vocabulary_word WHERE owner_id = $1 AND english = $2`
	if len(excludedWords) > 0 {
		ids := make([]string, 0, len(excludedWords))
		for _, w := range excludedWords {
			ids = append(ids, w.ID)
		}
		q += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}
	q += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking word uniqueness")
	}
	if exists {
		return vocab.ErrDuplicate
	}
	return nil
}

func (repo wordRepository) CreateWord(ctx context.Context, w vocab.Word) (vocab.Word, error) {
	w.ID = uuid.New().String()
	row := newWordRow(w)
	q := `
INSERT INTO vocabulary_word (id, owner_id, english, translations, created_at, updated_at)
VALUES (:id, :owner_id, :english, :translations, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return vocab.Word{}, errors.Wrap(err, "inserting word")
	}
	return row.word(), nil
}

func (repo wordRepository) ListWords(ctx context.Context, ownerID string) ([]vocab.Word, error) {
	var rows []wordRow
	q := `SELECT * FROM vocabulary_word WHERE owner_id = $1 ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying words")
	}
	words := make([]vocab.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, row.word())
	}
	return words, nil
}

func (repo wordRepository) GetWordByID(ctx context.Context, ownerID, id string) (vocab.Word, error) {
	if _, err := uuid.Parse(id); err != nil {
		return vocab.Word{}, vocab.ErrNotFound
	}
	var row wordRow
	q := `SELECT * FROM vocabulary_word WHERE owner_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, ownerID, id); err != nil {
		return vocab.Word{}, repo.trapNoRowsErr(err, "finding word")
	}
	return row.word(), nil
}

func (repo wordRepository) UpdateWord(ctx context.Context, w vocab.Word) (vocab.Word, error) {
	row := newWordRow(w)
	q := `
UPDATE vocabulary_word
SET english = :english, translations = :translations, updated_at = :updated_at
WHERE id = :id AND owner_id = :owner_id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return vocab.Word{}, errors.Wrap(err, "updating word")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return vocab.Word{}, vocab.ErrNotFound
	}
	return row.word(), nil
}

func (repo wordRepository) DeleteWord(ctx context.Context, ownerID, id string) error {
	q := `DELETE FROM vocabulary_word WHERE owner_id = $1 AND id = $2`
	res, err := repo.db.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "deleting word")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return vocab.ErrNotFound
	}
	return nil
}
