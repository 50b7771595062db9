package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
	"github.com/crewdir/crewdir/pkg/composables"
)

const laborRequestColumns = `
id, requester_name, requester_email, requester_phone, trade, headcount,
start_date, duration_weeks, notes, status, created_at, updated_at`

type LaborRequestRepository struct{}

func NewLaborRequestRepository() laborrequest.Repository {
	return &LaborRequestRepository{}
}

func (r *LaborRequestRepository) GetPaginated(ctx context.Context, params *laborrequest.FindParams) ([]laborrequest.LaborRequest, int64, error) {
	if params == nil {
		params = &laborrequest.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	status := string(params.Status)
	trade := strings.TrimSpace(params.Trade)

	rows, err := tx.Query(ctx, `
SELECT `+laborRequestColumns+`
FROM labor_requests
WHERE ($1 = '' OR status = $1)
  AND ($2 = '' OR trade ILIKE $2)
ORDER BY created_at DESC
OFFSET $3 LIMIT $4
`, status, trade, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list labor requests")
	}
	defer rows.Close()

	out := make([]laborrequest.LaborRequest, 0, limit)
	for rows.Next() {
		lr, err := scanLaborRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "list labor requests")
	}

	var total int64
	if err := tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM labor_requests
WHERE ($1 = '' OR status = $1)
  AND ($2 = '' OR trade ILIKE $2)
`, status, trade).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count labor requests")
	}

	return out, total, nil
}

func (r *LaborRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (laborrequest.LaborRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return laborrequest.LaborRequest{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+laborRequestColumns+`
FROM labor_requests
WHERE id = $1
`, id)

	lr, err := scanLaborRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return laborrequest.LaborRequest{}, laborrequest.ErrNotFound
		}
		return laborrequest.LaborRequest{}, err
	}
	return lr, nil
}

func (r *LaborRequestRepository) Create(ctx context.Context, lr laborrequest.LaborRequest) (laborrequest.LaborRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return laborrequest.LaborRequest{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO labor_requests (
	requester_name, requester_email, requester_phone, trade, headcount,
	start_date, duration_weeks, notes, status
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING `+laborRequestColumns+`
`,
		lr.RequesterName(),
		lr.RequesterEmail(),
		pgText(lr.RequesterPhone()),
		lr.Trade(),
		lr.Headcount(),
		lr.StartDate(),
		lr.DurationWeeks(),
		pgText(lr.Notes()),
		string(lr.Status()),
	)

	created, err := scanLaborRequest(row)
	if err != nil {
		return laborrequest.LaborRequest{}, errors.Wrap(err, "create labor request")
	}
	return created, nil
}

func (r *LaborRequestRepository) SetStatus(ctx context.Context, id uuid.UUID, status laborrequest.Status) (laborrequest.LaborRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return laborrequest.LaborRequest{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE labor_requests SET status = $2, updated_at = now()
WHERE id = $1
RETURNING `+laborRequestColumns+`
`, id, string(status))

	updated, err := scanLaborRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return laborrequest.LaborRequest{}, laborrequest.ErrNotFound
		}
		return laborrequest.LaborRequest{}, errors.Wrap(err, "set labor request status")
	}
	return updated, nil
}

func scanLaborRequest(row pgx.Row) (laborrequest.LaborRequest, error) {
	var (
		p      laborrequest.HydrateParams
		status string

		phone, notes pgtype.Text
	)

	if err := row.Scan(
		&p.ID, &p.RequesterName, &p.RequesterEmail, &phone, &p.Trade,
		&p.Headcount, &p.StartDate, &p.DurationWeeks, &notes, &status,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return laborrequest.LaborRequest{}, err
	}

	p.RequesterPhone = fromPgText(phone)
	p.Notes = fromPgText(notes)
	p.Status = laborrequest.Status(status)
	return laborrequest.Hydrate(p), nil
}
