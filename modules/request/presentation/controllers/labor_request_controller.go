package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
	"github.com/crewdir/crewdir/modules/request/presentation/mappers"
	"github.com/crewdir/crewdir/modules/request/services"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/middleware"
)

type transitionRequest struct {
	Status string `json:"status"`
}

// LaborRequestController serves the public intake form and the operator
// review queue.
type LaborRequestController struct {
	requests *services.LaborRequestService
	basePath string
}

func NewLaborRequestController(requests *services.LaborRequestService) *LaborRequestController {
	return &LaborRequestController{
		requests: requests,
		basePath: "/api/labor-requests",
	}
}

func (c *LaborRequestController) Key() string {
	return c.basePath
}

func (c *LaborRequestController) Register(r *mux.Router) {
	public := r.PathPrefix(c.basePath).Subrouter()
	public.Use(middleware.WithTransaction())
	public.HandleFunc("", c.Submit).Methods(http.MethodPost)

	admin := r.PathPrefix(c.basePath).Subrouter()
	admin.Use(middleware.RequireOperator())
	admin.HandleFunc("", c.List).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequireOperator(), middleware.WithTransaction())
	write.HandleFunc("/{id}/status", c.Transition).Methods(http.MethodPost)
}

func (c *LaborRequestController) Submit(w http.ResponseWriter, r *http.Request) {
	var dto laborrequest.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "LABOR_REQUEST_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		message := "validation failed"
		for _, v := range errs {
			message = v
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "LABOR_REQUEST_VALIDATION_FAILED", message)
		return
	}

	created, err := c.requests.Submit(r.Context(), &dto)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "LABOR_REQUEST_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.LaborRequestToViewModel(created))
}

func (c *LaborRequestController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	limit := conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	offset := 0
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	params := &laborrequest.FindParams{
		Status: laborrequest.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Trade:  strings.TrimSpace(r.URL.Query().Get("trade")),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.requests.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "LABOR_REQUEST_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.LaborRequestsToViewModels(items, total))
}

func (c *LaborRequestController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	lr, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, laborrequest.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "LABOR_REQUEST_NOT_FOUND", "labor request not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "LABOR_REQUEST_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.LaborRequestToViewModel(lr))
}

func (c *LaborRequestController) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "LABOR_REQUEST_INVALID_JSON", "invalid json")
		return
	}

	updated, err := c.requests.Transition(r.Context(), id, laborrequest.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		switch {
		case errors.Is(err, laborrequest.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "LABOR_REQUEST_NOT_FOUND", "labor request not found")
		case errors.Is(err, laborrequest.ErrInvalidTransition):
			writeAPIError(w, r, http.StatusConflict, "LABOR_REQUEST_INVALID_TRANSITION", "status transition not allowed")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "LABOR_REQUEST_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, mappers.LaborRequestToViewModel(updated))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "LABOR_REQUEST_INVALID_ID", "invalid labor request id")
		return uuid.Nil, false
	}
	return id, true
}
