package vocab

import (
	"time"

	"github.com/mutombo/kamusi/core"
)

// Word is one vocabulary entry owned by a single user. The English term is
// stored lower-cased and trimmed, and is unique per owner (case-insensitive);
// uniqueness is enforced by a pre-insert existence check.
type Word struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	English      string            `json:"english"`
	Translations map[string]string `json:"translations,omitempty"` // language code -> translated term
	CreatedAt    time.Time         `json:"created_at"`             // UTC
	UpdatedAt    time.Time         `json:"updated_at"`             // UTC
}

// NewWord contains information needed to add a vocabulary word.
type NewWord struct {
	English      string            `json:"english" validate:"required,max=200"`
	Translations map[string]string `json:"translations" validate:"omitempty,dive,keys,len=2,alpha,endkeys,required"`
}

func (nw *NewWord) Validate() error {
	nw.English = core.CleanString(nw.English, true /* lower */)
	return core.Validate.Struct(nw)
}

// UpdateWord defines what may be changed on an existing word. Empty fields
// keep their current value.
type UpdateWord struct {
	English      string            `json:"english" validate:"omitempty,max=200"`
	Translations map[string]string `json:"translations" validate:"omitempty,dive,keys,len=2,alpha,endkeys,required"`
}

func (uw *UpdateWord) Validate() error {
	uw.English = core.CleanString(uw.English, true /* lower */)
	return core.Validate.Struct(uw)
}
