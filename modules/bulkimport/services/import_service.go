package services

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	agencyservices "github.com/crewdir/crewdir/modules/agency/services"
	"github.com/crewdir/crewdir/modules/bulkimport/importer"
	"github.com/crewdir/crewdir/pkg/eventbus"
	"github.com/crewdir/crewdir/pkg/metrics"
)

// ErrTooManyRows rejects a batch before any per-row work happens.
var ErrTooManyRows = errors.New("too many rows in batch")

// ImportCompletedEvent is published once per committed batch.
type ImportCompletedEvent struct {
	Summary importer.ImportSummary
}

// ImportService drives the bulk import pipeline end to end: decode an
// uploaded file, validate rows against the live directory, and commit
// approved rows through the agency repository.
type ImportService struct {
	agencies    agency.Repository
	publisher   eventbus.EventBus
	committer   *importer.Committer
	knownTrades []string
	maxRows     int
}

func NewImportService(agencies agency.Repository, publisher eventbus.EventBus, maxRows int) *ImportService {
	s := &ImportService{
		agencies:    agencies,
		publisher:   publisher,
		knownTrades: importer.DefaultKnownTrades,
		maxRows:     maxRows,
	}
	s.committer = importer.NewCommitter(&agencyStore{repo: agencies, publisher: publisher})
	return s
}

// Decode turns an uploaded CSV or XLSX payload into raw rows. Container
// failures come back inside the result, never as an error.
func (s *ImportService) Decode(filename, declaredMIME string, data []byte) importer.DecodeResult {
	result := importer.Decode(filename, declaredMIME, data)
	if !result.Success {
		metrics.DecodeFailuresTotal.Inc()
	}
	return result
}

// Preview validates rows without touching storage. Existing directory names
// feed the duplicate and near-duplicate checks.
func (s *ImportService) Preview(ctx context.Context, rows []importer.RawRow) ([]importer.RowValidationResult, importer.ValidationSummary, error) {
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, importer.ValidationSummary{}, ErrTooManyRows
	}

	names, err := s.agencies.ActiveNames(ctx)
	if err != nil {
		return nil, importer.ValidationSummary{}, errors.Wrap(err, "loading directory names")
	}

	v := importer.NewValidator(
		importer.WithKnownTrades(s.knownTrades),
		importer.WithExistingNames(names),
	)
	results, summary := v.Validate(rows)
	metrics.ImportPreviewsTotal.Inc()
	return results, summary, nil
}

// Commit persists caller-approved rows. The response carries one terminal
// outcome per row in submission order; Commit itself only errs on batch-level
// preconditions.
func (s *ImportService) Commit(ctx context.Context, rows []importer.CommitRow) (importer.BulkImportResponse, error) {
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return importer.BulkImportResponse{}, ErrTooManyRows
	}

	response := s.committer.Commit(ctx, rows)

	metrics.ImportBatchesTotal.Inc()
	metrics.ImportRowsTotal.WithLabelValues(string(importer.StatusCreated)).Add(float64(response.Summary.Created))
	metrics.ImportRowsTotal.WithLabelValues(string(importer.StatusSkipped)).Add(float64(response.Summary.Skipped))
	metrics.ImportRowsTotal.WithLabelValues(string(importer.StatusFailed)).Add(float64(response.Summary.Failed))

	if s.publisher != nil {
		s.publisher.Publish(&ImportCompletedEvent{Summary: response.Summary})
	}
	return response, nil
}

// Template builds the downloadable XLSX workbook with the expected columns.
func (s *ImportService) Template() ([]byte, error) {
	return importer.BuildTemplateXLSX()
}

// agencyStore adapts the agency repository to the committer's persistence
// surface, translating storage errors onto the committer's sentinels.
type agencyStore struct {
	repo      agency.Repository
	publisher eventbus.EventBus
}

func (s *agencyStore) FindActiveIDByNormalizedName(ctx context.Context, normalizedName string) (uuid.UUID, bool, error) {
	id, found, err := s.repo.FindIDByNormalizedName(ctx, normalizedName)
	if err != nil {
		return uuid.Nil, false, classifyStoreErr(err)
	}
	return id, found, nil
}

func (s *agencyStore) CreateFromImport(ctx context.Context, data importer.AgencyRowData) (uuid.UUID, error) {
	dto := &agency.CreateDTO{
		Name:          data.Name,
		Email:         data.Email,
		Phone:         data.Phone,
		Website:       data.Website,
		City:          data.City,
		Region:        data.Region,
		Trades:        data.Trades,
		CompanySize:   data.CompanySize,
		LicenseNumber: data.LicenseNumber,
		Description:   data.Description,
	}
	dto.Normalize()

	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		if errors.Is(err, agency.ErrNameTaken) {
			return uuid.Nil, importer.ErrDuplicateName
		}
		return uuid.Nil, classifyStoreErr(err)
	}

	if s.publisher != nil {
		s.publisher.Publish(&agencyservices.AgencyCreatedEvent{
			ID:     created.ID(),
			Name:   created.Name(),
			Source: "import",
		})
	}
	return created.ID(), nil
}

// classifyStoreErr maps connectivity loss onto ErrStoreUnavailable so the
// committer fails the remaining rows uniformly instead of per-row guessing.
func classifyStoreErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(importer.ErrStoreUnavailable, err.Error())
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errors.Wrap(importer.ErrStoreUnavailable, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errors.Wrap(importer.ErrStoreUnavailable, err.Error())
	}
	return err
}
