package importer

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Column names accepted by the agency import template.
const (
	ColName          = "name"
	ColEmail         = "email"
	ColPhone         = "phone"
	ColWebsite       = "website"
	ColCity          = "city"
	ColRegion        = "region"
	ColTrades        = "trades"
	ColCompanySize   = "company_size"
	ColLicenseNumber = "license_number"
	ColDescription   = "description"
)

// RequiredColumns must be present in the header row.
var RequiredColumns = []string{ColName}

// AllowedColumns is the full header vocabulary; anything else is rejected
// at decode time.
var AllowedColumns = []string{
	ColName, ColEmail, ColPhone, ColWebsite, ColCity, ColRegion,
	ColTrades, ColCompanySize, ColLicenseNumber, ColDescription,
}

// CompanySizes are the enumerated employee-count buckets.
var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// TradesDelimiter splits the list-valued trades column.
const TradesDelimiter = ","

// RawRow is one decoded spreadsheet row before validation. Fields holds raw
// strings except for list-valued columns, which are already split into
// []string. RowNumber is the 1-based position in the original file counting
// the header, so the first data row is 2.
type RawRow struct {
	RowNumber int            `json:"row_number"`
	Fields    map[string]any `json:"fields"`
}

// String returns the named field coerced to a trimmed string. Non-string
// values (possible when rows arrive as client-decoded JSON) are ignored.
func (r RawRow) String(name string) string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// List returns the named field coerced to a string slice. Accepts []string,
// []any of strings, or a raw delimited string.
func (r RawRow) List(name string) []string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		return SplitList(val)
	default:
		return nil
	}
}

// SplitList splits a delimited cell value, trimming segments and dropping
// empty ones.
func SplitList(raw string) []string {
	parts := strings.Split(raw, TradesDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DecodeError is a container- or row-level decode fault. RowNumber is 0 when
// the fault is not attributable to a single row.
type DecodeError struct {
	RowNumber int    `json:"row_number,omitempty"`
	Message   string `json:"message"`
}

// DecodeWarning is an advisory decode note that does not exclude a row.
type DecodeWarning struct {
	RowNumber int    `json:"row_number,omitempty"`
	Message   string `json:"message"`
}

// DecodeResult aggregates one decode pass. Success reflects the container
// only: row-level faults land in Errors while decoding continues, but an
// unreadable container (or a file where nothing decodes) yields
// Success=false and empty Data, which is fatal to the pipeline.
type DecodeResult struct {
	Success  bool            `json:"success"`
	Data     []RawRow        `json:"data"`
	Errors   []DecodeError   `json:"errors"`
	Warnings []DecodeWarning `json:"warnings"`
}

// AgencyRowData is a row coerced to the agency contract's shapes, ready for
// persistence once the row is valid.
type AgencyRowData struct {
	Name          string   `json:"name"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	City          string   `json:"city,omitempty"`
	Region        string   `json:"region,omitempty"`
	Trades        []string `json:"trades,omitempty"`
	CompanySize   string   `json:"company_size,omitempty"`
	LicenseNumber string   `json:"license_number,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// RowValidationResult is one row's validation outcome. Valid is true exactly
// when Errors is empty; warnings never block.
type RowValidationResult struct {
	RowNumber int           `json:"row_number"`
	Valid     bool          `json:"valid"`
	Errors    []string      `json:"errors"`
	Warnings  []string      `json:"warnings"`
	Data      AgencyRowData `json:"data"`
}

// ValidationSummary aggregates one validation pass. WithWarnings counts rows
// that are valid AND carry at least one warning.
type ValidationSummary struct {
	Total        int `json:"total"`
	Valid        int `json:"valid"`
	Invalid      int `json:"invalid"`
	WithWarnings int `json:"with_warnings"`
}

// RowStatus is a per-row terminal commit state.
type RowStatus string

const (
	StatusCreated RowStatus = "created"
	StatusSkipped RowStatus = "skipped"
	StatusFailed  RowStatus = "failed"
)

// CommitRow is one caller-approved row submitted for persistence.
type CommitRow struct {
	RowNumber int           `json:"row_number"`
	Data      AgencyRowData `json:"data"`
}

// ImportRowOutcome reports one row's commit outcome. AgencyID is set only
// for created rows; Reason only for skipped and failed ones.
type ImportRowOutcome struct {
	RowNumber  int        `json:"row_number"`
	AgencyName string     `json:"agency_name"`
	Status     RowStatus  `json:"status"`
	AgencyID   *uuid.UUID `json:"agency_id,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// ImportSummary aggregates a commit pass; Total = Created+Skipped+Failed.
type ImportSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// BulkImportResponse is the final commit report, one outcome per submitted
// row in submission order.
type BulkImportResponse struct {
	Results []ImportRowOutcome `json:"results"`
	Summary ImportSummary      `json:"summary"`
}

var foldCaser = cases.Fold()

// NormalizeName reduces an agency name to its duplicate-detection identity:
// Unicode case folded with runs of whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	return foldCaser.String(collapsed)
}
