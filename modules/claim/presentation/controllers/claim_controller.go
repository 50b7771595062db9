package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	agencydomain "github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
	"github.com/crewdir/crewdir/modules/claim/presentation/mappers"
	"github.com/crewdir/crewdir/modules/claim/services"
	"github.com/crewdir/crewdir/pkg/composables"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/middleware"
)

// ClaimController serves claim submission and the operator decision queue.
type ClaimController struct {
	claims   *services.ClaimService
	basePath string
}

func NewClaimController(claims *services.ClaimService) *ClaimController {
	return &ClaimController{
		claims:   claims,
		basePath: "/api/claims",
	}
}

func (c *ClaimController) Key() string {
	return c.basePath
}

func (c *ClaimController) Register(r *mux.Router) {
	submit := r.PathPrefix("/api/agencies").Subrouter()
	submit.Use(middleware.RequireOperator(), middleware.WithTransaction())
	submit.HandleFunc("/{agencyID}/claims", c.Submit).Methods(http.MethodPost)

	admin := r.PathPrefix(c.basePath).Subrouter()
	admin.Use(middleware.RequireOperator())
	admin.HandleFunc("", c.List).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	decide := r.PathPrefix(c.basePath).Subrouter()
	decide.Use(middleware.RequireOperator(), middleware.WithTransaction())
	decide.HandleFunc("/{id}/approve", c.Approve).Methods(http.MethodPost)
	decide.HandleFunc("/{id}/reject", c.Reject).Methods(http.MethodPost)
}

func (c *ClaimController) Submit(w http.ResponseWriter, r *http.Request) {
	agencyID, err := uuid.Parse(mux.Vars(r)["agencyID"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CLAIM_INVALID_AGENCY_ID", "invalid agency id")
		return
	}

	operator, ok := composables.UseOperator(r.Context())
	if !ok || operator.Subject == "" {
		writeAPIError(w, r, http.StatusUnauthorized, "CLAIM_MISSING_CLAIMANT", "claimant identity is required")
		return
	}

	var dto claim.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CLAIM_INVALID_JSON", "invalid json")
		return
	}

	if errs, valid := dto.Ok(); !valid {
		message := "validation failed"
		for _, v := range errs {
			message = v
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "CLAIM_VALIDATION_FAILED", message)
		return
	}

	created, err := c.claims.Submit(r.Context(), agencyID, operator.Subject, &dto)
	if err != nil {
		switch {
		case errors.Is(err, agencydomain.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "CLAIM_AGENCY_NOT_FOUND", "agency not found")
		case errors.Is(err, claim.ErrAlreadyPending):
			writeAPIError(w, r, http.StatusConflict, "CLAIM_ALREADY_PENDING", "a pending claim for this agency already exists")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "CLAIM_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ClaimToViewModel(created))
}

func (c *ClaimController) List(w http.ResponseWriter, r *http.Request) {
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

	params := &claim.FindParams{
		Status: claim.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  limit,
		Offset: offset,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("agency_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "CLAIM_INVALID_AGENCY_ID", "invalid agency id")
			return
		}
		params.AgencyID = id
	}

	items, total, err := c.claims.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CLAIM_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ClaimsToViewModels(items, total))
}

func (c *ClaimController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	found, err := c.claims.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, claim.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CLAIM_NOT_FOUND", "claim not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CLAIM_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ClaimToViewModel(found))
}

func (c *ClaimController) Approve(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, c.claims.Approve)
}

func (c *ClaimController) Reject(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, c.claims.Reject)
}

func (c *ClaimController) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (claim.Claim, error)) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	decided, err := fn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, claim.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "CLAIM_NOT_FOUND", "claim not found")
		case errors.Is(err, claim.ErrAlreadyDecided):
			writeAPIError(w, r, http.StatusConflict, "CLAIM_ALREADY_DECIDED", "claim has already been decided")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "CLAIM_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, mappers.ClaimToViewModel(decided))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CLAIM_INVALID_ID", "invalid claim id")
		return uuid.Nil, false
	}
	return id, true
}
