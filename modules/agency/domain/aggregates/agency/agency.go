package agency

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusPendingClaim Status = "pending_claim"
)

// Agency is a staffing agency in the public directory.
type Agency struct {
	id              uuid.UUID
	name            string
	normalizedName  string
	email           string
	phone           string
	website         string
	city            string
	region          string
	trades          []string
	companySize     string
	licenseNumber   string
	licenseExpiry   *time.Time
	insuranceExpiry *time.Time
	description     string
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

func New(name string) Agency {
	name = strings.TrimSpace(name)
	return Agency{
		name:           name,
		normalizedName: NormalizeName(name),
		status:         StatusActive,
	}
}

type HydrateParams struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           string
	Website         string
	City            string
	Region          string
	Trades          []string
	CompanySize     string
	LicenseNumber   string
	LicenseExpiry   *time.Time
	InsuranceExpiry *time.Time
	Description     string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func Hydrate(p HydrateParams) Agency {
	name := strings.TrimSpace(p.Name)
	return Agency{
		id:              p.ID,
		name:            name,
		normalizedName:  NormalizeName(name),
		email:           p.Email,
		phone:           p.Phone,
		website:         p.Website,
		city:            p.City,
		region:          p.Region,
		trades:          p.Trades,
		companySize:     p.CompanySize,
		licenseNumber:   p.LicenseNumber,
		licenseExpiry:   p.LicenseExpiry,
		insuranceExpiry: p.InsuranceExpiry,
		description:     p.Description,
		status:          p.Status,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
}

func (a Agency) ID() uuid.UUID              { return a.id }
func (a Agency) Name() string               { return a.name }
func (a Agency) NormalizedName() string     { return a.normalizedName }
func (a Agency) Email() string              { return a.email }
func (a Agency) Phone() string              { return a.phone }
func (a Agency) Website() string            { return a.website }
func (a Agency) City() string               { return a.city }
func (a Agency) Region() string             { return a.region }
func (a Agency) Trades() []string           { return a.trades }
func (a Agency) CompanySize() string        { return a.companySize }
func (a Agency) LicenseNumber() string      { return a.licenseNumber }
func (a Agency) LicenseExpiry() *time.Time  { return a.licenseExpiry }
func (a Agency) InsuranceExpiry() *time.Time { return a.insuranceExpiry }
func (a Agency) Description() string        { return a.description }
func (a Agency) Status() Status             { return a.status }
func (a Agency) CreatedAt() time.Time       { return a.createdAt }
func (a Agency) UpdatedAt() time.Time       { return a.updatedAt }
func (a Agency) IsZero() bool               { return a.id == uuid.Nil && a.name == "" }

var foldCaser = cases.Fold()

// NormalizeName is the duplicate-detection identity of an agency name:
// Unicode case folded with whitespace runs collapsed.
func NormalizeName(name string) string {
	return foldCaser.String(strings.Join(strings.Fields(name), " "))
}
