package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestGoogleSheets(t *testing.T, handler http.HandlerFunc) *GoogleSheets {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := newGoogleSheets(context.Background(), "sheet-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return g
}

func TestGoogleSheetsReadStringifiesCells(t *testing.T) {
	g := newTestGoogleSheets(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-id/values/")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"AUTH!A1:E3","values":[["이름","비밀번호"],["kim","123456",null],[]]}`)
	})

	rows, err := g.Read(context.Background(), MustParseRange("AUTH!A:E"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"이름", "비밀번호"}, {"kim", "123456", ""}, {}}, rows)
}

func TestGoogleSheetsBatchWriteSendsRawValues(t *testing.T) {
	var body struct {
		ValueInputOption string `json:"valueInputOption"`
		Data             []struct {
			Range  string     `json:"range"`
			Values [][]string `json:"values"`
		} `json:"data"`
	}
	g := newTestGoogleSheets(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/values:batchUpdate"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	})

	err := g.BatchWrite(context.Background(), []Update{
		{Range: Cell("재고", 5, 3), Values: [][]string{{"42"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RAW", body.ValueInputOption)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "재고!E3", body.Data[0].Range)
	assert.Equal(t, [][]string{{"42"}}, body.Data[0].Values)
}

func TestGoogleSheetsProtectedWriteIsDetected(t *testing.T) {
	g := newTestGoogleSheets(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"You are trying to edit a protected cell or object. Please contact the spreadsheet owner to remove protection if you need to edit.","status":"INVALID_ARGUMENT"}}`)
	})

	err := g.Write(context.Background(), Block("재고로그", 1, 1, 4, 2), [][]string{{"일시", "코드", "이름", "재고"}})
	require.Error(t, err)
	assert.True(t, IsProtected(err))
}

func TestGoogleSheetsTitle(t *testing.T) {
	g := newTestGoogleSheets(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-id"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-id","properties":{"title":"재고관리"}}`)
	})

	title, err := g.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "재고관리", title)
	assert.Equal(t, "sheet-id", g.SpreadsheetID())
}
