package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crewdir/crewdir/modules/bulkimport/importer"
	"github.com/crewdir/crewdir/modules/bulkimport/services"
	"github.com/crewdir/crewdir/pkg/composables"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/httpapi"
	"github.com/crewdir/crewdir/pkg/middleware"
)

type previewRequest struct {
	Rows []importer.RawRow `json:"rows"`
}

type previewResponse struct {
	Rows    []importer.RowValidationResult `json:"rows"`
	Summary importer.ValidationSummary     `json:"summary"`
}

type commitRequest struct {
	Rows []importer.CommitRow `json:"rows"`
}

// BulkImportController exposes the import pipeline to operators: server-side
// decode of an uploaded file, a dry-run preview, the commit itself, and the
// downloadable template.
type BulkImportController struct {
	imports  *services.ImportService
	basePath string
}

func NewBulkImportController(imports *services.ImportService) *BulkImportController {
	return &BulkImportController{
		imports:  imports,
		basePath: "/api/bulk-import",
	}
}

func (c *BulkImportController) Key() string {
	return c.basePath
}

func (c *BulkImportController) Register(r *mux.Router) {
	router := r.PathPrefix("/api").Subrouter()
	router.Use(middleware.RequireOperator())
	router.HandleFunc("/bulk-import/decode", c.DecodeUpload).Methods(http.MethodPost)
	router.HandleFunc("/bulk-import/preview", c.Preview).Methods(http.MethodPost)
	router.HandleFunc("/bulk-import", c.Commit).Methods(http.MethodPost)
	router.HandleFunc("/agencies/template", c.Template).Methods(http.MethodGet)
}

// DecodeUpload is the trust boundary for raw files: the declared MIME type
// and size limit are re-checked here regardless of what the client claims.
func (c *BulkImportController) DecodeUpload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	r.Body = http.MaxBytesReader(w, r.Body, conf.Import.MaxUploadSize)

	if err := r.ParseMultipartForm(conf.Import.MaxUploadSize); err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds the %d byte upload limit", conf.Import.MaxUploadSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "IMPORT_MISSING_FILE", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, conf.Import.MaxUploadSize+1))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "IMPORT_UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	if int64(len(data)) > conf.Import.MaxUploadSize {
		writeError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds the %d byte upload limit", conf.Import.MaxUploadSize))
		return
	}

	result := c.imports.Decode(header.Filename, header.Header.Get("Content-Type"), data)
	writeJSON(w, http.StatusOK, result)
}

// Preview validates rows without touching storage. A fully invalid batch is
// still a successful preview.
func (c *BulkImportController) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}

	results, summary, err := c.imports.Preview(r.Context(), req.Rows)
	if err != nil {
		if errors.Is(err, services.ErrTooManyRows) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_TOO_MANY_ROWS",
				fmt.Sprintf("batch exceeds the %d row limit", configuration.Use().Import.MaxRows))
			return
		}
		logError(r, err, "bulk import preview failed")
		writeError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Rows: results, Summary: summary})
}

// Commit persists approved rows. 200 means the batch was processed; per-row
// outcomes, including failures, live in the body.
func (c *BulkImportController) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}

	response, err := c.imports.Commit(r.Context(), req.Rows)
	if err != nil {
		if errors.Is(err, services.ErrTooManyRows) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_TOO_MANY_ROWS",
				fmt.Sprintf("batch exceeds the %d row limit", configuration.Use().Import.MaxRows))
			return
		}
		logError(r, err, "bulk import commit failed")
		writeError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (c *BulkImportController) Template(w http.ResponseWriter, r *http.Request) {
	payload, err := c.imports.Template()
	if err != nil {
		logError(r, err, "template build failed")
		writeError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
		return
	}

	filename := fmt.Sprintf("agencies-template-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	_ = httpapi.WriteJSON(w, status, payload)
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	meta := map[string]string{
		"request_id": ensureRequestID(w, r),
	}
	_ = httpapi.WriteError(w, status, code, message, meta)
}

func logError(r *http.Request, err error, message string) {
	if logger, ok := composables.TryUseLogger(r.Context()); ok {
		logger.WithError(err).Error(message)
	}
}
