package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
)

type DocumentState string

const (
	DocumentOK       DocumentState = "ok"
	DocumentExpiring DocumentState = "expiring"
	DocumentExpired  DocumentState = "expired"
	DocumentMissing  DocumentState = "missing"
)

// expiringWindow is how far ahead a document is flagged as expiring.
const expiringWindow = 30 * 24 * time.Hour

type ComplianceDocument struct {
	Name    string        `json:"name"`
	State   DocumentState `json:"state"`
	Expires *time.Time    `json:"expires,omitempty"`
}

type ComplianceSnapshot struct {
	AgencyID  uuid.UUID            `json:"agency_id"`
	Name      string               `json:"name"`
	Documents []ComplianceDocument `json:"documents"`
	Compliant bool                 `json:"compliant"`
}

// ComplianceSnapshot derives the document states for one agency as of now.
func (s *AgencyService) ComplianceSnapshot(ctx context.Context, id uuid.UUID) (ComplianceSnapshot, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ComplianceSnapshot{}, err
	}
	return buildSnapshot(a, time.Now().UTC()), nil
}

func buildSnapshot(a agency.Agency, now time.Time) ComplianceSnapshot {
	snapshot := ComplianceSnapshot{
		AgencyID: a.ID(),
		Name:     a.Name(),
		Documents: []ComplianceDocument{
			documentState("license", a.LicenseExpiry(), now),
			documentState("insurance", a.InsuranceExpiry(), now),
		},
	}
	snapshot.Compliant = true
	for _, doc := range snapshot.Documents {
		if doc.State == DocumentExpired || doc.State == DocumentMissing {
			snapshot.Compliant = false
		}
	}
	return snapshot
}

func documentState(name string, expires *time.Time, now time.Time) ComplianceDocument {
	doc := ComplianceDocument{Name: name, Expires: expires}
	switch {
	case expires == nil:
		doc.State = DocumentMissing
	case expires.Before(now):
		doc.State = DocumentExpired
	case expires.Sub(now) <= expiringWindow:
		doc.State = DocumentExpiring
	default:
		doc.State = DocumentOK
	}
	return doc
}
