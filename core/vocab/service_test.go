package vocab

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

type fakeRepo struct {
	words  []Word
	nextID int
}

func (r *fakeRepo) CheckEnglishUniqueness(_ context.Context, ownerID, english string, excludedWords ...Word) error {
	for _, w := range r.words {
		if w.OwnerID != ownerID || w.English != english {
			continue
		}
		excluded := false
		for _, ex := range excludedWords {
			if ex.ID == w.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return ErrDuplicate
		}
	}
	return nil
}

func (r *fakeRepo) CreateWord(_ context.Context, w Word) (Word, error) {
	r.nextID++
	w.ID = strconv.Itoa(r.nextID)
	r.words = append(r.words, w)
	return w, nil
}

func (r *fakeRepo) ListWords(_ context.Context, ownerID string) ([]Word, error) {
	var out []Word
	for _, w := range r.words {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetWordByID(_ context.Context, ownerID, id string) (Word, error) {
	for _, w := range r.words {
		if w.OwnerID == ownerID && w.ID == id {
			return w, nil
		}
	}
	return Word{}, ErrNotFound
}

func (r *fakeRepo) UpdateWord(_ context.Context, w Word) (Word, error) {
	for i := range r.words {
		if r.words[i].ID == w.ID {
			r.words[i] = w
			return w, nil
		}
	}
	return Word{}, ErrNotFound
}

func (r *fakeRepo) DeleteWord(_ context.Context, ownerID, id string) error {
	for i, w := range r.words {
		if w.OwnerID == ownerID && w.ID == id {
			r.words = append(r.words[:i], r.words[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestNewWord_Validate_normalizes(t *testing.T) {
	nw := NewWord{English: "  Apple "}
	if err := nw.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	assert.Equal(t, "apple", nw.English)
}

func Test_service_Add_duplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	if _, err := svc.Add(ctx, "u1", NewWord{English: "apple"}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	// same term again, pre-insert check rejects it
	_, err := svc.Add(ctx, "u1", NewWord{English: "apple"})
	assert.Equal(t, ErrDuplicate, err)

	// another user may own the same term
	if _, err := svc.Add(ctx, "u2", NewWord{English: "apple"}); err != nil {
		t.Fatalf("Add() for another user failed: %v", err)
	}
}

func Test_service_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	w, err := svc.Add(ctx, "u1", NewWord{English: "apple", Translations: map[string]string{"fr": "pomme"}})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if _, err = svc.Add(ctx, "u1", NewWord{English: "pear"}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	// renaming onto an existing term is a duplicate
	_, err = svc.Update(ctx, "u1", w.ID, UpdateWord{English: "pear"})
	assert.Equal(t, ErrDuplicate, err)

	// translations replaced wholesale
	got, err := svc.Update(ctx, "u1", w.ID, UpdateWord{Translations: map[string]string{"sw": "tofaa"}})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, "apple", got.English)
	assert.Equal(t, map[string]string{"sw": "tofaa"}, got.Translations)
}

func Test_service_ImportXLSX(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	// an existing word the import must skip
	if _, err := svc.Add(ctx, "u1", NewWord{English: "banana"}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"English", "Translation"}, // header
		{"Apple ", "pomme"},
		{"banana", "banane"}, // duplicate
		{"", "orpheline"},    // no term
		{"cherry", ""},
	}
	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() failed: %v", err)
	}

	res, err := svc.ImportXLSX(ctx, "u1", "fr", buf)
	if err != nil {
		t.Fatalf("ImportXLSX() failed: %v", err)
	}
	assert.Equal(t, 4, res.TotalProcessed)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Empty(t, res.Errors)

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	assert.Len(t, list, 3)
	assert.Equal(t, map[string]string{"fr": "pomme"}, list[1].Translations)
	assert.Equal(t, "cherry", list[2].English)
}
