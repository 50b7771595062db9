package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/agency/presentation/viewmodels"
	"github.com/crewdir/crewdir/modules/agency/services"
	"github.com/crewdir/crewdir/modules/testkit/repofakes"
	"github.com/crewdir/crewdir/pkg/httpapi"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "agency-controller-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))
	_ = os.Setenv("LOG_LEVEL", "silent")

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestController(t *testing.T, names ...string) (*AgencyAPIController, *repofakes.AgencyRepository) {
	t.Helper()
	repo := repofakes.NewAgencyRepository()
	for _, name := range names {
		dto := agency.CreateDTO{Name: name}
		dto.Normalize()
		_, err := repo.Create(context.Background(), dto.ToEntity())
		require.NoError(t, err)
	}
	return NewAgencyAPIController(services.NewAgencyService(repo, nil)), repo
}

func decodeErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return envelope
}

func TestAgencyAPIController_ListReturnsSeededAgencies(t *testing.T) {
	c, _ := newTestController(t, "Acme Staffing", "Borealis Crews")

	req := httptest.NewRequest(http.MethodGet, "/api/agencies?limit=10", nil)
	rr := httptest.NewRecorder()
	c.List(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var list viewmodels.AgencyList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.EqualValues(t, 2, list.Total)
	require.Len(t, list.Items, 2)
}

func TestAgencyAPIController_GetUnknownID(t *testing.T) {
	c, _ := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/agencies/"+uuid.NewString(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rr := httptest.NewRecorder()
	c.Get(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "AGENCY_NOT_FOUND", decodeErrorEnvelope(t, rr).Code)
}

func TestAgencyAPIController_GetMalformedID(t *testing.T) {
	c, _ := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/agencies/not-a-uuid", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rr := httptest.NewRecorder()
	c.Get(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "AGENCY_INVALID_ID", decodeErrorEnvelope(t, rr).Code)
}

func TestAgencyAPIController_CreateRejectsInvalidBody(t *testing.T) {
	c, _ := newTestController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/agencies", strings.NewReader(`{"name":""}`))
	rr := httptest.NewRecorder()
	c.Create(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "AGENCY_VALIDATION_FAILED", decodeErrorEnvelope(t, rr).Code)
}

func TestAgencyAPIController_CreateRejectsDuplicateName(t *testing.T) {
	c, _ := newTestController(t, "Acme Staffing")

	req := httptest.NewRequest(http.MethodPost, "/api/agencies", strings.NewReader(`{"name":"ACME   Staffing"}`))
	rr := httptest.NewRecorder()
	c.Create(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "AGENCY_NAME_CONFLICT", decodeErrorEnvelope(t, rr).Code)
}

func TestAgencyAPIController_CreateAndGetRoundTrip(t *testing.T) {
	c, _ := newTestController(t)

	body := `{"name":"Crew Depot","email":"hello@crewdepot.example","trades":["electrical"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/agencies", strings.NewReader(body))
	rr := httptest.NewRecorder()
	c.Create(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created viewmodels.Agency
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "Crew Depot", created.Name)
	require.Equal(t, string(agency.StatusActive), created.Status)

	getReq := httptest.NewRequest(http.MethodGet, "/api/agencies/"+created.ID, nil)
	getReq = mux.SetURLVars(getReq, map[string]string{"id": created.ID})
	getRR := httptest.NewRecorder()
	c.Get(getRR, getReq)
	require.Equal(t, http.StatusOK, getRR.Code)

	var fetched viewmodels.Agency
	require.NoError(t, json.Unmarshal(getRR.Body.Bytes(), &fetched))
	require.Equal(t, created.ID, fetched.ID)
}

func TestAgencyAPIController_UpdateAppliesSnakeCaseFields(t *testing.T) {
	c, repo := newTestController(t, "Acme Staffing")
	seeded, _, err := repo.GetPaginated(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	id := seeded[0].ID().String()

	body := `{"company_size":"11-50","license_number":"LIC-1","email":"ops@acme.example"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/agencies/"+id, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rr := httptest.NewRecorder()
	c.Update(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated viewmodels.Agency
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Equal(t, "11-50", updated.CompanySize)
	require.Equal(t, "LIC-1", updated.LicenseNumber)
	require.Equal(t, "ops@acme.example", updated.Email)
	require.Equal(t, "Acme Staffing", updated.Name)
}
