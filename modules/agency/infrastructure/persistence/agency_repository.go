package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/pkg/composables"
)

const agencyColumns = `
id, name, normalized_name, email, phone, website, city, region, trades,
company_size, license_number, license_expiry, insurance_expiry, description,
status, created_at, updated_at`

type AgencyRepository struct{}

func NewAgencyRepository() agency.Repository {
	return &AgencyRepository{}
}

func (r *AgencyRepository) GetPaginated(ctx context.Context, params *agency.FindParams) ([]agency.Agency, int64, error) {
	if params == nil {
		params = &agency.FindParams{}
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

	q := strings.TrimSpace(params.Q)
	status := string(params.Status)
	trade := strings.TrimSpace(params.Trade)

	rows, err := tx.Query(ctx, `
SELECT `+agencyColumns+`
FROM agencies
WHERE deleted_at IS NULL
  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%')
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR $3 ILIKE ANY (trades))
ORDER BY name
OFFSET $4 LIMIT $5
`, q, status, trade, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list agencies")
	}
	defer rows.Close()

	out := make([]agency.Agency, 0, limit)
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "list agencies")
	}

	var total int64
	if err := tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM agencies
WHERE deleted_at IS NULL
  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%')
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR $3 ILIKE ANY (trades))
`, q, status, trade).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count agencies")
	}

	return out, total, nil
}

func (r *AgencyRepository) GetByID(ctx context.Context, id uuid.UUID) (agency.Agency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agency.Agency{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+agencyColumns+`
FROM agencies
WHERE id = $1 AND deleted_at IS NULL
`, id)

	a, err := scanAgency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agency.Agency{}, agency.ErrNotFound
		}
		return agency.Agency{}, err
	}
	return a, nil
}

func (r *AgencyRepository) ActiveNames(ctx context.Context) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT name FROM agencies WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, errors.Wrap(err, "active agency names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *AgencyRepository) FindIDByNormalizedName(ctx context.Context, normalizedName string) (uuid.UUID, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return uuid.Nil, false, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
SELECT id FROM agencies WHERE normalized_name = $1 AND deleted_at IS NULL
`, normalizedName).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, errors.Wrap(err, "lookup agency by normalized name")
	}
	return id, true, nil
}

func (r *AgencyRepository) Create(ctx context.Context, a agency.Agency) (agency.Agency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agency.Agency{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO agencies (
	name, normalized_name, email, phone, website, city, region, trades,
	company_size, license_number, license_expiry, insurance_expiry,
	description, status
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
RETURNING `+agencyColumns+`
`,
		a.Name(),
		a.NormalizedName(),
		pgText(a.Email()),
		pgText(a.Phone()),
		pgText(a.Website()),
		pgText(a.City()),
		pgText(a.Region()),
		a.Trades(),
		pgText(a.CompanySize()),
		pgText(a.LicenseNumber()),
		pgDate(a.LicenseExpiry()),
		pgDate(a.InsuranceExpiry()),
		pgText(a.Description()),
		string(a.Status()),
	)

	created, err := scanAgency(row)
	if err != nil {
		if isUniqueViolation(err) {
			return agency.Agency{}, agency.ErrNameTaken
		}
		return agency.Agency{}, errors.Wrap(err, "create agency")
	}
	return created, nil
}

func (r *AgencyRepository) Update(ctx context.Context, id uuid.UUID, params *agency.UpdateParams) (agency.Agency, error) {
	if params == nil {
		return r.GetByID(ctx, id)
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agency.Agency{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE agencies SET
	email           = COALESCE($2, email),
	phone           = COALESCE($3, phone),
	website         = COALESCE($4, website),
	city            = COALESCE($5, city),
	region          = COALESCE($6, region),
	trades          = COALESCE($7, trades),
	company_size    = COALESCE($8, company_size),
	license_number  = COALESCE($9, license_number),
	description     = COALESCE($10, description),
	status          = COALESCE($11, status),
	updated_at      = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+agencyColumns+`
`,
		id,
		params.Email,
		params.Phone,
		params.Website,
		params.City,
		params.Region,
		params.Trades,
		params.CompanySize,
		params.LicenseNumber,
		params.Description,
		(*string)(params.Status),
	)

	updated, err := scanAgency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agency.Agency{}, agency.ErrNotFound
		}
		return agency.Agency{}, errors.Wrap(err, "update agency")
	}
	return updated, nil
}

func (r *AgencyRepository) SetStatus(ctx context.Context, id uuid.UUID, status agency.Status) (agency.Agency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agency.Agency{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE agencies SET status = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+agencyColumns+`
`, id, string(status))

	updated, err := scanAgency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agency.Agency{}, agency.ErrNotFound
		}
		return agency.Agency{}, errors.Wrap(err, "set agency status")
	}
	return updated, nil
}

func scanAgency(row pgx.Row) (agency.Agency, error) {
	var (
		p          agency.HydrateParams
		status     string
		normalized string

		email, phone, website, city, region            pgtype.Text
		companySize, licenseNumber, description        pgtype.Text
		licenseExpiry, insuranceExpiry                 pgtype.Date
	)

	if err := row.Scan(
		&p.ID, &p.Name, &normalized, &email, &phone, &website, &city, &region,
		&p.Trades, &companySize, &licenseNumber, &licenseExpiry, &insuranceExpiry,
		&description, &status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return agency.Agency{}, err
	}

	p.Email = fromPgText(email)
	p.Phone = fromPgText(phone)
	p.Website = fromPgText(website)
	p.City = fromPgText(city)
	p.Region = fromPgText(region)
	p.CompanySize = fromPgText(companySize)
	p.LicenseNumber = fromPgText(licenseNumber)
	p.Description = fromPgText(description)
	p.LicenseExpiry = fromPgDate(licenseExpiry)
	p.InsuranceExpiry = fromPgDate(insuranceExpiry)
	p.Status = agency.Status(status)
	return agency.Hydrate(p), nil
}
