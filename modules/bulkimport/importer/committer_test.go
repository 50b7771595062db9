package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgencyStore keeps created agencies keyed by normalized name and lets
// tests inject failures per agency name.
type fakeAgencyStore struct {
	existing    map[string]uuid.UUID
	createErrs  map[string]error
	lookupErrs  map[string]error
	createCalls []string
}

func newFakeStore(existingNames ...string) *fakeAgencyStore {
	s := &fakeAgencyStore{
		existing:   map[string]uuid.UUID{},
		createErrs: map[string]error{},
		lookupErrs: map[string]error{},
	}
	for _, name := range existingNames {
		s.existing[NormalizeName(name)] = uuid.New()
	}
	return s
}

func (s *fakeAgencyStore) FindActiveIDByNormalizedName(_ context.Context, normalizedName string) (uuid.UUID, bool, error) {
	if err, ok := s.lookupErrs[normalizedName]; ok {
		return uuid.Nil, false, err
	}
	id, ok := s.existing[normalizedName]
	return id, ok, nil
}

func (s *fakeAgencyStore) CreateFromImport(_ context.Context, data AgencyRowData) (uuid.UUID, error) {
	norm := NormalizeName(data.Name)
	s.createCalls = append(s.createCalls, data.Name)
	if err, ok := s.createErrs[norm]; ok {
		return uuid.Nil, err
	}
	if _, exists := s.existing[norm]; exists {
		return uuid.Nil, ErrDuplicateName
	}
	id := uuid.New()
	s.existing[norm] = id
	return id, nil
}

func commitRows(names ...string) []CommitRow {
	rows := make([]CommitRow, 0, len(names))
	for i, name := range names {
		rows = append(rows, CommitRow{RowNumber: i + 2, Data: AgencyRowData{Name: name}})
	}
	return rows
}

func TestCommit_TerminalStateAndOrderPerRow(t *testing.T) {
	store := newFakeStore("Bravo Crew")
	store.createErrs[NormalizeName("Crew Depot")] = errors.New("pq: value too long for column")

	c := NewCommitter(store)
	response := c.Commit(context.Background(), commitRows("Acme Staffing", "Bravo Crew", "Crew Depot", "Delta Works"))

	require.Len(t, response.Results, 4)
	assert.Equal(t, []RowStatus{StatusCreated, StatusSkipped, StatusFailed, StatusCreated}, []RowStatus{
		response.Results[0].Status,
		response.Results[1].Status,
		response.Results[2].Status,
		response.Results[3].Status,
	})
	for i, result := range response.Results {
		assert.Equal(t, i+2, result.RowNumber)
	}

	assert.Equal(t, ImportSummary{Total: 4, Created: 2, Skipped: 1, Failed: 1}, response.Summary)
	assert.NotNil(t, response.Results[0].AgencyID)
	assert.Nil(t, response.Results[2].AgencyID)
}

func TestCommit_DuplicateSkipExplainsItself(t *testing.T) {
	store := newFakeStore("Acme Staffing")
	c := NewCommitter(store)

	response := c.Commit(context.Background(), commitRows("ACME   staffing"))

	require.Len(t, response.Results, 1)
	assert.Equal(t, StatusSkipped, response.Results[0].Status)
	assert.Contains(t, response.Results[0].Reason, "already exists")
	assert.Empty(t, store.createCalls, "skipped rows must not reach the store")
}

func TestCommit_RetryAfterPartialFailureIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.createErrs[NormalizeName("Crew Depot")] = errors.New("transient rejection")

	c := NewCommitter(store)
	rows := commitRows("Acme Staffing", "Crew Depot")

	first := c.Commit(context.Background(), rows)
	assert.Equal(t, ImportSummary{Total: 2, Created: 1, Skipped: 0, Failed: 1}, first.Summary)

	delete(store.createErrs, NormalizeName("Crew Depot"))

	second := c.Commit(context.Background(), rows)
	assert.Equal(t, ImportSummary{Total: 2, Created: 1, Skipped: 1, Failed: 0}, second.Summary)
	assert.Equal(t, StatusSkipped, second.Results[0].Status)
	assert.Equal(t, StatusCreated, second.Results[1].Status)
}

func TestCommit_UniqueConstraintRaceBecomesSkip(t *testing.T) {
	// Pre-check sees nothing, but the store's unique constraint fires: a
	// concurrent writer won the name between check and insert.
	store := newFakeStore()
	store.createErrs[NormalizeName("Acme Staffing")] = ErrDuplicateName

	c := NewCommitter(store)
	response := c.Commit(context.Background(), commitRows("Acme Staffing"))

	require.Len(t, response.Results, 1)
	assert.Equal(t, StatusSkipped, response.Results[0].Status)
	assert.Contains(t, response.Results[0].Reason, "already exists")
}

func TestCommit_StoreLossFailsRemainingRowsUniformly(t *testing.T) {
	store := newFakeStore()
	store.createErrs[NormalizeName("Bravo Crew")] = fmt.Errorf("dial tcp: %w", ErrStoreUnavailable)

	c := NewCommitter(store)
	response := c.Commit(context.Background(), commitRows("Acme Staffing", "Bravo Crew", "Crew Depot", "Delta Works"))

	require.Len(t, response.Results, 4)
	assert.Equal(t, StatusCreated, response.Results[0].Status)
	for _, result := range response.Results[1:] {
		assert.Equal(t, StatusFailed, result.Status)
		assert.Equal(t, "storage unavailable; row was not processed", result.Reason)
	}
	assert.Equal(t, ImportSummary{Total: 4, Created: 1, Skipped: 0, Failed: 3}, response.Summary)

	// Rows after the outage are not even attempted.
	assert.Equal(t, []string{"Acme Staffing", "Bravo Crew"}, store.createCalls)
}

func TestCommit_CanceledContextFailsEveryRow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCommitter(newFakeStore())
	response := c.Commit(ctx, commitRows("Acme Staffing", "Bravo Crew"))

	require.Len(t, response.Results, 2)
	for _, result := range response.Results {
		assert.Equal(t, StatusFailed, result.Status)
		assert.Equal(t, "storage unavailable; row was not processed", result.Reason)
	}
}

func TestCommit_ReasonsNeverLeakDriverErrors(t *testing.T) {
	store := newFakeStore()
	store.createErrs[NormalizeName("Acme Staffing")] = errors.New("pq: password authentication failed for user app")

	c := NewCommitter(store)
	response := c.Commit(context.Background(), commitRows("Acme Staffing"))

	require.Len(t, response.Results, 1)
	assert.Equal(t, StatusFailed, response.Results[0].Status)
	assert.Equal(t, "storage rejected this row; no agency was created", response.Results[0].Reason)
	assert.NotContains(t, response.Results[0].Reason, "password")
}

func TestCommit_EmptyBatch(t *testing.T) {
	c := NewCommitter(newFakeStore())
	response := c.Commit(context.Background(), nil)

	assert.Empty(t, response.Results)
	assert.Equal(t, ImportSummary{}, response.Summary)
}
