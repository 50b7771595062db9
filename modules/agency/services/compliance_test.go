package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		license       *time.Time
		insurance     *time.Time
		wantLicense   DocumentState
		wantInsurance DocumentState
		wantCompliant bool
	}{
		{
			name:          "both documents healthy",
			license:       datePtr(now.Add(90 * 24 * time.Hour)),
			insurance:     datePtr(now.Add(120 * 24 * time.Hour)),
			wantLicense:   DocumentOK,
			wantInsurance: DocumentOK,
			wantCompliant: true,
		},
		{
			name:          "license expiring soon",
			license:       datePtr(now.Add(10 * 24 * time.Hour)),
			insurance:     datePtr(now.Add(120 * 24 * time.Hour)),
			wantLicense:   DocumentExpiring,
			wantInsurance: DocumentOK,
			wantCompliant: true,
		},
		{
			name:          "insurance expired",
			license:       datePtr(now.Add(90 * 24 * time.Hour)),
			insurance:     datePtr(now.Add(-24 * time.Hour)),
			wantLicense:   DocumentOK,
			wantInsurance: DocumentExpired,
			wantCompliant: false,
		},
		{
			name:          "documents missing",
			wantLicense:   DocumentMissing,
			wantInsurance: DocumentMissing,
			wantCompliant: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := agency.Hydrate(agency.HydrateParams{
				Name:            "Acme Staffing",
				LicenseExpiry:   tt.license,
				InsuranceExpiry: tt.insurance,
				Status:          agency.StatusActive,
			})

			snapshot := buildSnapshot(a, now)

			require.Len(t, snapshot.Documents, 2)
			assert.Equal(t, "license", snapshot.Documents[0].Name)
			assert.Equal(t, tt.wantLicense, snapshot.Documents[0].State)
			assert.Equal(t, "insurance", snapshot.Documents[1].Name)
			assert.Equal(t, tt.wantInsurance, snapshot.Documents[1].State)
			assert.Equal(t, tt.wantCompliant, snapshot.Compliant)
		})
	}
}
