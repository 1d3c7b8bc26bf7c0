package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	. "github.com/mutombo/kamusi/apps/api/echo"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
	testutil "github.com/mutombo/kamusi/tests"
)

func Test_vocabApi_wordList(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "otherr", "other@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "madmin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	w1 := testutil.CreateWord(t, wordRepo, student.ID, "mango", map[string]string{"fr": "mangue"})
	w2 := testutil.CreateWord(t, wordRepo, student.ID, "river", nil)
	testutil.CreateWord(t, wordRepo, other.ID, "stone", nil)

	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", path: "/api/users/" + student.ID + "/vocabulary", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Other's list not allowed", path: "/api/users/" + other.ID + "/vocabulary", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Get own list", path: "/api/users/" + student.ID + "/vocabulary", token: studentToken,
			wantData: marchallObj(t, WordListResponse{Words: []vocab.Word{w1, w2}}),
		},
		{
			name: "Admin gets any list", path: "/api/users/" + student.ID + "/vocabulary", token: getToken(t, admin),
			wantData: marchallObj(t, WordListResponse{Words: []vocab.Word{w1, w2}}),
		},
		{
			name: "Empty list", path: "/api/users/" + admin.ID + "/vocabulary", token: getToken(t, admin),
			wantData: marchallObj(t, WordListResponse{Words: []vocab.Word{}}),
		},
		{
			name: "Query defaults to self", path: "/api/vocabulary", token: studentToken,
			wantData: marchallObj(t, WordListResponse{Words: []vocab.Word{w1, w2}}),
		},
		{
			name: "Query other's list not allowed", path: "/api/vocabulary?userId=" + other.ID, token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Admin queries any list", path: "/api/vocabulary?userId=" + student.ID, token: getToken(t, admin),
			wantData: marchallObj(t, WordListResponse{Words: []vocab.Word{w1, w2}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_vocabApi_wordCreate(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateWord(t, wordRepo, student.ID, "mango", nil)

	path := "/api/users/" + student.ID + "/vocabulary"
	token := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "english required", token: token, body: marchallObj(t, vocab.NewWord{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"english": "this field is required"}),
		},
		{
			name: "Duplicate rejected", token: token, body: marchallObj(t, vocab.NewWord{English: "mango"}),
			wantCode: http.StatusConflict, wantData: marchallObj(t, errDuplicate),
		},
		{
			name: "Duplicate check is case-insensitive", token: token, body: marchallObj(t, vocab.NewWord{English: " MANGO "}),
			wantCode: http.StatusConflict, wantData: marchallObj(t, errDuplicate),
		},
		{
			name: "Create word", token: token,
			body:     marchallObj(t, vocab.NewWord{English: "Tree", Translations: map[string]string{"fr": "arbre"}}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = path

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData vocab.Word
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.ID == "" {
					t.Error("failed! empty word ID")
				}
				if respData.English != "tree" { // stored lower-cased
					t.Errorf("failed! english = %v; want %v", respData.English, "tree")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_vocabApi_wordUpdateDestroy(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "otherr", "other@test.cd", "", []string{user.RoleStudent}, true)

	word := testutil.CreateWord(t, wordRepo, student.ID, "mango", nil)
	foreign := testutil.CreateWord(t, wordRepo, other.ID, "stone", nil)

	token := getToken(t, student)
	path := "/api/users/" + student.ID + "/vocabulary/"

	tests := []httpTest{
		{
			name: "Update unknown word", method: http.MethodPut, path: path + "931e25e3-4b33-4be2-9957-a42e6b03a3bf",
			token: token, body: marchallObj(t, vocab.UpdateWord{English: "melon"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Update other's word", method: http.MethodPut, path: path + foreign.ID,
			token: token, body: marchallObj(t, vocab.UpdateWord{English: "melon"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Update word", method: http.MethodPut, path: path + word.ID,
			token: token, body: marchallObj(t, vocab.UpdateWord{Translations: map[string]string{"fr": "mangue"}}),
			wantCode: http.StatusOK,
		},
		{
			name: "Delete unknown word", method: http.MethodDelete, path: path + "931e25e3-4b33-4be2-9957-a42e6b03a3bf",
			token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Delete word", method: http.MethodDelete, path: path + word.ID,
			token: token, wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			switch tt.wantCode {
			case http.StatusOK:
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData vocab.Word
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.English != "mango" { // unchanged
					t.Errorf("failed! english = %v; want %v", respData.English, "mango")
				}
				if respData.Translations["fr"] != "mangue" {
					t.Errorf("failed! translations = %v", respData.Translations)
				}
			case http.StatusNoContent:
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
			default:
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_vocabApi_wordImport(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.cd", "", []string{user.RoleStudent}, true)
	testutil.CreateWord(t, wordRepo, student.ID, "mango", nil)

	token := getToken(t, student)
	path := "/api/users/" + student.ID + "/vocabulary/import"

	t.Run("file required", func(t *testing.T) {
		body := new(bytes.Buffer)
		mw := multipart.NewWriter(body)
		_ = mw.WriteField("lang", "fr")
		_ = mw.Close()

		req, rec := newImportRequest(t, path, token, body, mw.FormDataContentType())
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"file": "a .xlsx file is required"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("imports rows, skipping duplicates and blanks", func(t *testing.T) {
		body := new(bytes.Buffer)
		mw := multipart.NewWriter(body)
		_ = mw.WriteField("lang", "fr")
		fw, err := mw.CreateFormFile("file", "words.xlsx")
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err = fw.Write(newXLSX(t, [][]string{
			{"English", "Translation"},
			{"Mango", "mangue"}, // duplicate
			{"Tree", "arbre"},
			{"", ""}, // blank
			{"Sky", ""},
		})); err != nil {
			t.Fatalf("writing spreadsheet failed: %v", err)
		}
		_ = mw.Close()

		req, rec := newImportRequest(t, path, token, body, mw.FormDataContentType())
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, vocab.ImportResult{TotalProcessed: 4, Created: 2, Skipped: 2}),
		}
		checkCodeAndData(t, tt, rec)
	})
}

func newImportRequest(t *testing.T, path, token string, body *bytes.Buffer, contentType string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func newXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName() failed: %v", err)
			}
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("SetCellValue() failed: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() failed: %v", err)
	}
	return buf.Bytes()
}
