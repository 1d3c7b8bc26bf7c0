package vocab

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mutombo/kamusi/core"
)

// ImportResult holds the outcome of a bulk import.
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
}

// ImportXLSX reads words from the first sheet of an uploaded .xlsx file:
// column A holds the english term, column B an optional translation keyed by
// `lang`. The header row is skipped. Duplicate terms and empty rows count as
// skipped; row-level failures are collected, not fatal.
func (svc *service) ImportXLSX(ctx context.Context, ownerID, lang string, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "opening spreadsheet")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "reading sheet "+sheet)
	}

	res := ImportResult{}
	for i, row := range rows {
		if i == 0 { // header
			continue
		}
		res.TotalProcessed++

		var english, translation string
		if len(row) > 0 {
			english = core.CleanString(row[0], true /* lower */)
		}
		if len(row) > 1 {
			translation = core.CleanString(row[1])
		}
		if english == "" {
			res.Skipped++
			continue
		}

		nw := NewWord{English: english}
		if translation != "" && lang != "" {
			nw.Translations = map[string]string{lang: translation}
		}
		if err := nw.Validate(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		switch _, err := svc.Add(ctx, ownerID, nw); errors.Cause(err) {
		case nil:
			res.Created++
		case ErrDuplicate:
			res.Skipped++
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}
	return res, nil
}
