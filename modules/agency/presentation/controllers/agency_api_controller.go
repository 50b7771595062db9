package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/agency/presentation/mappers"
	"github.com/crewdir/crewdir/modules/agency/services"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/middleware"
)

type AgencyAPIController struct {
	agencies *services.AgencyService
	basePath string
}

func NewAgencyAPIController(agencies *services.AgencyService) *AgencyAPIController {
	return &AgencyAPIController{
		agencies: agencies,
		basePath: "/api/agencies",
	}
}

func (c *AgencyAPIController) Key() string {
	return c.basePath
}

func (c *AgencyAPIController) Register(r *mux.Router) {
	public := r.PathPrefix(c.basePath).Subrouter()
	public.HandleFunc("", c.List).Methods(http.MethodGet)
	public.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(c.basePath).Subrouter()
	admin.Use(middleware.RequireOperator())
	admin.HandleFunc("/{id}/compliance", c.Compliance).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequireOperator(), middleware.WithTransaction())
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Update).Methods(http.MethodPatch)
	write.HandleFunc("/{id}", c.Deactivate).Methods(http.MethodDelete)
}

func (c *AgencyAPIController) List(w http.ResponseWriter, r *http.Request) {
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

	params := &agency.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Trade:  strings.TrimSpace(r.URL.Query().Get("trade")),
		Status: agency.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.agencies.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgenciesToViewModels(items, total))
}

func (c *AgencyAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := c.agencies.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, agency.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "AGENCY_NOT_FOUND", "agency not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgencyToViewModel(a))
}

func (c *AgencyAPIController) Compliance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	snapshot, err := c.agencies.ComplianceSnapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, agency.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "AGENCY_NOT_FOUND", "agency not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (c *AgencyAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto agency.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "AGENCY_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		message := "validation failed"
		for _, v := range errs {
			message = v
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "AGENCY_VALIDATION_FAILED", message)
		return
	}

	created, err := c.agencies.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, agency.ErrNameTaken) {
			writeAPIError(w, r, http.StatusConflict, "AGENCY_NAME_CONFLICT", "agency name already exists")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.AgencyToViewModel(created))
}

func (c *AgencyAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var params agency.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "AGENCY_INVALID_JSON", "invalid json")
		return
	}
	updated, err := c.agencies.Update(r.Context(), id, &params)
	if err != nil {
		if errors.Is(err, agency.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "AGENCY_NOT_FOUND", "agency not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgencyToViewModel(updated))
}

func (c *AgencyAPIController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	updated, err := c.agencies.Deactivate(r.Context(), id)
	if err != nil {
		if errors.Is(err, agency.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "AGENCY_NOT_FOUND", "agency not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "AGENCY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgencyToViewModel(updated))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "AGENCY_INVALID_ID", "invalid agency id")
		return uuid.Nil, false
	}
	return id, true
}
