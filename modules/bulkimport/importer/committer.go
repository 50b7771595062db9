package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/pkg/composables"
)

var (
	// ErrDuplicateName is returned by an AgencyStore when the unique
	// constraint on the normalized name rejects a create. The constraint is
	// the final backstop behind the pre-check, which is what makes retries
	// of a partially committed batch safe.
	ErrDuplicateName = errors.New("agency name already exists")

	// ErrStoreUnavailable signals total loss of the storage layer. The
	// committer marks every remaining row failed with a uniform reason
	// instead of aborting the batch.
	ErrStoreUnavailable = errors.New("storage unavailable")
)

const (
	reasonStorageRejected  = "storage rejected this row; no agency was created"
	reasonStoreUnavailable = "storage unavailable; row was not processed"
)

// AgencyStore is the persistence surface the committer needs. Implementations
// must map their unique-violation and connectivity errors onto
// ErrDuplicateName and ErrStoreUnavailable.
type AgencyStore interface {
	FindActiveIDByNormalizedName(ctx context.Context, normalizedName string) (uuid.UUID, bool, error)
	CreateFromImport(ctx context.Context, data AgencyRowData) (uuid.UUID, error)
}

// Committer persists caller-approved rows one by one, in input order, each
// row reaching exactly one terminal state. It holds no state across calls.
type Committer struct {
	store AgencyStore
}

func NewCommitter(store AgencyStore) *Committer {
	return &Committer{store: store}
}

// Commit attempts to create one agency per row. One row's failure never
// blocks or rolls back another row's success; outcomes preserve submission
// order 1:1.
func (c *Committer) Commit(ctx context.Context, rows []CommitRow) BulkImportResponse {
	response := BulkImportResponse{
		Results: make([]ImportRowOutcome, 0, len(rows)),
		Summary: ImportSummary{Total: len(rows)},
	}

	storeDown := false
	for _, row := range rows {
		outcome := ImportRowOutcome{
			RowNumber:  row.RowNumber,
			AgencyName: row.Data.Name,
		}

		if storeDown || ctx.Err() != nil {
			outcome.Status = StatusFailed
			outcome.Reason = reasonStoreUnavailable
			response.Results = append(response.Results, outcome)
			response.Summary.Failed++
			continue
		}

		outcome = c.commitRow(ctx, row, outcome)
		switch outcome.Status {
		case StatusCreated:
			response.Summary.Created++
		case StatusSkipped:
			response.Summary.Skipped++
		default:
			response.Summary.Failed++
			if outcome.Reason == reasonStoreUnavailable {
				storeDown = true
			}
		}
		response.Results = append(response.Results, outcome)
	}

	return response
}

func (c *Committer) commitRow(ctx context.Context, row CommitRow, outcome ImportRowOutcome) ImportRowOutcome {
	normalized := NormalizeName(row.Data.Name)

	// Re-check identity at commit time: the directory may have changed
	// between preview and commit.
	if _, exists, err := c.store.FindActiveIDByNormalizedName(ctx, normalized); err != nil {
		return c.failed(ctx, row, outcome, err)
	} else if exists {
		outcome.Status = StatusSkipped
		outcome.Reason = fmt.Sprintf("an agency named %q already exists", row.Data.Name)
		return outcome
	}

	id, err := c.store.CreateFromImport(ctx, row.Data)
	if err != nil {
		// The unique constraint catching what the pre-check missed is the
		// duplicate outcome, not a failure.
		if errors.Is(err, ErrDuplicateName) {
			outcome.Status = StatusSkipped
			outcome.Reason = fmt.Sprintf("an agency named %q already exists", row.Data.Name)
			return outcome
		}
		return c.failed(ctx, row, outcome, err)
	}

	outcome.Status = StatusCreated
	outcome.AgencyID = &id
	return outcome
}

// failed records a sanitized, operator-safe reason; the raw storage error
// goes only to the server log.
func (c *Committer) failed(ctx context.Context, row CommitRow, outcome ImportRowOutcome, err error) ImportRowOutcome {
	if logger, ok := composables.TryUseLogger(ctx); ok {
		logger.WithError(err).WithField("row_number", row.RowNumber).Error("bulk import row failed")
	}

	outcome.Status = StatusFailed
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		outcome.Reason = reasonStoreUnavailable
	} else {
		outcome.Reason = reasonStorageRejected
	}
	return outcome
}
