package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/bulkimport/importer"
	"github.com/crewdir/crewdir/modules/bulkimport/services"
	"github.com/crewdir/crewdir/modules/testkit/repofakes"
	"github.com/crewdir/crewdir/pkg/httpapi"
)

const testOperatorToken = "test-operator-token"

func TestMain(m *testing.M) {
	// The configuration singleton reads the environment exactly once per
	// binary, so these have to land before the first handler runs.
	dir, err := os.MkdirTemp("", "bulkimport-controller-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = os.Setenv("OPERATOR_TOKEN", testOperatorToken)
	_ = os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))
	_ = os.Setenv("LOG_LEVEL", "silent")

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestController(maxRows int) (*BulkImportController, *repofakes.AgencyRepository) {
	repo := repofakes.NewAgencyRepository()
	return NewBulkImportController(services.NewImportService(repo, nil, maxRows)), repo
}

func newTestRouter(c *BulkImportController) *mux.Router {
	r := mux.NewRouter()
	c.Register(r)
	return r
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func rowPayload(rowNumber int, name string) importer.RawRow {
	return importer.RawRow{
		RowNumber: rowNumber,
		Fields:    map[string]any{importer.ColName: name},
	}
}

func TestBulkImportController_RoutesRequireOperatorToken(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/bulk-import/decode"},
		{http.MethodPost, "/api/bulk-import/preview"},
		{http.MethodPost, "/api/bulk-import"},
		{http.MethodGet, "/api/agencies/template"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)

		var envelope httpapi.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		require.Equal(t, "UNAUTHORIZED", envelope.Code)
	}
}

func TestBulkImportController_DecodeUpload_CSV(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	csv := "name,email,trades\nAcme Staffing,contact@acme.example,\"electrical, plumbing\"\n"
	body, contentType := multipartUpload(t, "agencies.csv", []byte(csv))

	req := httptest.NewRequest(http.MethodPost, "/api/bulk-import/decode", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result importer.DecodeResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.Len(t, result.Data, 1)
	require.Equal(t, 2, result.Data[0].RowNumber)
	require.Equal(t, "Acme Staffing", result.Data[0].String(importer.ColName))
}

func TestBulkImportController_DecodeUpload_MissingFileField(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bulk-import/decode", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Equal(t, "IMPORT_MISSING_FILE", envelope.Code)
	require.NotEmpty(t, envelope.Meta["request_id"])
	require.Equal(t, envelope.Meta["request_id"], rr.Header().Get("X-Request-ID"))
}

func TestBulkImportController_Preview_ReportsInvalidRowsWithOK(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	payload := mustJSON(t, previewRequest{Rows: []importer.RawRow{
		rowPayload(2, "Acme Staffing"),
		rowPayload(3, ""),
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/bulk-import/preview", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res previewResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, 2, res.Summary.Total)
	require.Equal(t, 1, res.Summary.Valid)
	require.Equal(t, 1, res.Summary.Invalid)
	require.True(t, res.Rows[0].Valid)
	require.False(t, res.Rows[1].Valid)
}

func TestBulkImportController_Preview_InvalidJSON(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	req := httptest.NewRequest(http.MethodPost, "/api/bulk-import/preview", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "IMPORT_INVALID_JSON")
}

func TestBulkImportController_Preview_RowLimit(t *testing.T) {
	c, _ := newTestController(1)
	router := newTestRouter(c)

	payload := mustJSON(t, previewRequest{Rows: []importer.RawRow{
		rowPayload(2, "One"),
		rowPayload(3, "Two"),
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/bulk-import/preview", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Contains(t, rr.Body.String(), "IMPORT_TOO_MANY_ROWS")
}

func TestBulkImportController_Commit_ThenRetrySkipsExisting(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	payload := mustJSON(t, commitRequest{Rows: []importer.CommitRow{
		{RowNumber: 2, Data: importer.AgencyRowData{Name: "Acme Staffing", Email: "contact@acme.example"}},
		{RowNumber: 3, Data: importer.AgencyRowData{Name: "Borealis Crews"}},
	}})

	commit := func() importer.BulkImportResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/bulk-import", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+testOperatorToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var res importer.BulkImportResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		return res
	}

	first := commit()
	require.Equal(t, 2, first.Summary.Created)
	require.Equal(t, importer.StatusCreated, first.Results[0].Status)
	require.NotNil(t, first.Results[0].AgencyID)

	second := commit()
	require.Equal(t, 0, second.Summary.Created)
	require.Equal(t, 2, second.Summary.Skipped)
	for _, outcome := range second.Results {
		require.Equal(t, importer.StatusSkipped, outcome.Status)
		require.Contains(t, outcome.Reason, "already exists")
	}
}

func TestBulkImportController_Template(t *testing.T) {
	c, _ := newTestController(100)
	router := newTestRouter(c)

	req := httptest.NewRequest(http.MethodGet, "/api/agencies/template", nil)
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "agencies-template-")

	decoded := importer.DecodeXLSX(rr.Body.Bytes())
	require.True(t, decoded.Success)
}
