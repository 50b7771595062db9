package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	pkgerrors "github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
	"github.com/crewdir/crewdir/pkg/composables"
)

const claimColumns = `
id, agency_id, claimant_subject, claimant_email, message, status,
created_at, decided_at`

type ClaimRepository struct{}

func NewClaimRepository() claim.Repository {
	return &ClaimRepository{}
}

func (r *ClaimRepository) GetPaginated(ctx context.Context, params *claim.FindParams) ([]claim.Claim, int64, error) {
	if params == nil {
		params = &claim.FindParams{}
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

	rows, err := tx.Query(ctx, `
SELECT `+claimColumns+`
FROM agency_claims
WHERE ($1 = '' OR status = $1)
  AND ($2::uuid IS NULL OR agency_id = $2)
ORDER BY created_at DESC
OFFSET $3 LIMIT $4
`, status, nullableUUID(params.AgencyID), offset, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list claims")
	}
	defer rows.Close()

	out := make([]claim.Claim, 0, limit)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list claims")
	}

	var total int64
	if err := tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM agency_claims
WHERE ($1 = '' OR status = $1)
  AND ($2::uuid IS NULL OR agency_id = $2)
`, status, nullableUUID(params.AgencyID)).Scan(&total); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count claims")
	}

	return out, total, nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (claim.Claim, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return claim.Claim{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+claimColumns+`
FROM agency_claims
WHERE id = $1
`, id)

	c, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return claim.Claim{}, claim.ErrNotFound
		}
		return claim.Claim{}, err
	}
	return c, nil
}

func (r *ClaimRepository) Create(ctx context.Context, c claim.Claim) (claim.Claim, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return claim.Claim{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO agency_claims (agency_id, claimant_subject, claimant_email, message, status)
VALUES ($1,$2,$3,$4,$5)
RETURNING `+claimColumns+`
`,
		c.AgencyID(),
		c.ClaimantSubject(),
		c.ClaimantEmail(),
		pgText(c.Message()),
		string(c.Status()),
	)

	created, err := scanClaim(row)
	if err != nil {
		if isUniqueViolation(err) {
			return claim.Claim{}, claim.ErrAlreadyPending
		}
		return claim.Claim{}, pkgerrors.Wrap(err, "create claim")
	}
	return created, nil
}

func (r *ClaimRepository) Decide(ctx context.Context, id uuid.UUID, status claim.Status) (claim.Claim, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return claim.Claim{}, err
	}

	// Only pending claims may be decided; the WHERE clause makes the
	// decision a compare-and-set.
	row := tx.QueryRow(ctx, `
UPDATE agency_claims SET status = $2, decided_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING `+claimColumns+`
`, id, string(status))

	decided, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return claim.Claim{}, claim.ErrAlreadyDecided
			}
			return claim.Claim{}, claim.ErrNotFound
		}
		return claim.Claim{}, pkgerrors.Wrap(err, "decide claim")
	}
	return decided, nil
}

func scanClaim(row pgx.Row) (claim.Claim, error) {
	var (
		p         claim.HydrateParams
		status    string
		message   pgtype.Text
		decidedAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&p.ID, &p.AgencyID, &p.ClaimantSubject, &p.ClaimantEmail,
		&message, &status, &p.CreatedAt, &decidedAt,
	); err != nil {
		return claim.Claim{}, err
	}

	p.Message = fromPgText(message)
	p.Status = claim.Status(status)
	if decidedAt.Valid {
		t := decidedAt.Time
		p.DecidedAt = &t
	}
	return claim.Hydrate(p), nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func pgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func fromPgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
