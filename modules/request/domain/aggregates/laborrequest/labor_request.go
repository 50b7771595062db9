package laborrequest

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusReviewing Status = "reviewing"
	StatusClosed    Status = "closed"
)

// ValidTransition reports whether a request may move from one status to
// another. The flow only moves forward: new → reviewing → closed, with a
// direct new → closed shortcut for spam.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusNew:
		return to == StatusReviewing || to == StatusClosed
	case StatusReviewing:
		return to == StatusClosed
	default:
		return false
	}
}

// LaborRequest is a staffing need submitted through the public intake form.
type LaborRequest struct {
	id             uuid.UUID
	requesterName  string
	requesterEmail string
	requesterPhone string
	trade          string
	headcount      int
	startDate      time.Time
	durationWeeks  int
	notes          string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func New(requesterName, requesterEmail string) LaborRequest {
	now := time.Now()
	return LaborRequest{
		id:             uuid.New(),
		requesterName:  requesterName,
		requesterEmail: requesterEmail,
		status:         StatusNew,
		createdAt:      now,
		updatedAt:      now,
	}
}

type HydrateParams struct {
	ID             uuid.UUID
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	Trade          string
	Headcount      int
	StartDate      time.Time
	DurationWeeks  int
	Notes          string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func Hydrate(p HydrateParams) LaborRequest {
	return LaborRequest{
		id:             p.ID,
		requesterName:  p.RequesterName,
		requesterEmail: p.RequesterEmail,
		requesterPhone: p.RequesterPhone,
		trade:          p.Trade,
		headcount:      p.Headcount,
		startDate:      p.StartDate,
		durationWeeks:  p.DurationWeeks,
		notes:          p.Notes,
		status:         p.Status,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}

func (r LaborRequest) ID() uuid.UUID          { return r.id }
func (r LaborRequest) RequesterName() string  { return r.requesterName }
func (r LaborRequest) RequesterEmail() string { return r.requesterEmail }
func (r LaborRequest) RequesterPhone() string { return r.requesterPhone }
func (r LaborRequest) Trade() string          { return r.trade }
func (r LaborRequest) Headcount() int         { return r.headcount }
func (r LaborRequest) StartDate() time.Time   { return r.startDate }
func (r LaborRequest) DurationWeeks() int     { return r.durationWeeks }
func (r LaborRequest) Notes() string          { return r.notes }
func (r LaborRequest) Status() Status         { return r.status }
func (r LaborRequest) CreatedAt() time.Time   { return r.createdAt }
func (r LaborRequest) UpdatedAt() time.Time   { return r.updatedAt }
