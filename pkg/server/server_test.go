package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/finscan/pkg/config"
	"github.com/yurifrl/finscan/pkg/extract"
	"github.com/yurifrl/finscan/pkg/parser"
	"github.com/yurifrl/finscan/pkg/store"
)

const statement = "05/03/2024 Rent payment 2100,00\n07/03/2024 Uber trip debit 27,90\n01/03/2024 Payroll ACME 5000,00\n"

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.yaml"))
	require.NoError(t, err)
	logger := log.New(io.Discard)
	return New(&config.Config{UseFingerprint: true}, logger, parser.New(logger, extract.New(extract.Options{})), st), st
}

func upload(t *testing.T, srv *Server, filename, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("statement", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProcess(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := upload(t, srv, "march.txt", statement)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "march-finscan.csv", body["file"])
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 3, body["to_add"])

	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, "2024-03-05", first["date"])
	assert.Equal(t, "Housing", first["category"])
	assert.Equal(t, "to_add", first["status"])
}

func TestProcessKeepsDocumentOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := upload(t, srv, "order.txt", "20/03/2024 Market purchase 10,00\n01/03/2024 Bakery purchase 20,00\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dates []string
	for _, item := range decodeBody(t, rec)["data"].([]any) {
		dates = append(dates, item.(map[string]any)["date"].(string))
	}
	assert.Equal(t, []string{"2024-03-20", "2024-03-01"}, dates)

	rec = postJSON(srv, "/api/import", `{"file":"order-finscan.csv"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := srv.store.Transactions()
	require.Len(t, stored, 2)
	assert.Equal(t, "2024-03-20", stored[0].Date)
	assert.Equal(t, "2024-03-01", stored[1].Date)
}

func TestProcessErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := upload(t, srv, "broken.pdf", "%PDF-1.4 nope")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{"status": "error", "error": "could not read the document"}, decodeBody(t, rec))

	rec = upload(t, srv, "photo.png", "png")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/process", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilesDownload(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, upload(t, srv, "march.txt", statement).Code)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/march-finscan.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Date,Description,Category,Type,Amount\n"+
		"2024-03-05,Rent payment,Housing,expense,2100.00\n"+
		"2024-03-07,Uber trip debit,Transportation,expense,27.90\n"+
		"2024-03-01,Payroll ACME,Salary,income,5000.00\n", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/unknown.csv", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func postJSON(srv *Server, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestImport(t *testing.T) {
	srv, st := newTestServer(t)
	require.Equal(t, http.StatusOK, upload(t, srv, "march.txt", statement).Code)

	rec := postJSON(srv, "/api/import", `{"file":"march-finscan.csv"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, decodeBody(t, rec)["imported"])
	assert.Len(t, st.Transactions(), 3)

	// Second import finds everything already in the ledger.
	rec = postJSON(srv, "/api/import", `{"file":"march-finscan.csv"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no valid transactions found", decodeBody(t, rec)["error"])
	assert.Len(t, st.Transactions(), 3)

	// The listing now reports them as synced.
	body := decodeBody(t, upload(t, srv, "march.txt", statement))
	assert.EqualValues(t, 3, body["in_sync"])
}

func TestImportInlineTransactions(t *testing.T) {
	srv, st := newTestServer(t)

	rec := postJSON(srv, "/api/import", `{"transactions":[{"date":"2024-01-02","description":"Gift from mom","category":"Gift","type":"income","amount":50}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, st.Transactions(), 1)
	assert.Equal(t, "Gift from mom", st.Transactions()[0].Description)

	rec = postJSON(srv, "/api/import", `{"transactions":[{"date":"02/01/2024","type":"income","amount":50}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(srv, "/api/import", `{"file":"never-processed.csv"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(srv, "/api/import", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories?type=income", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cats := decodeBody(t, rec)["categories"].([]any)
	require.Len(t, cats, 4)
	assert.Equal(t, "Salary", cats[0].(map[string]any)["name"])

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories?type=transfer", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
