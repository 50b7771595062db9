package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/crewdir/crewdir/pkg/constants"
	"github.com/crewdir/crewdir/pkg/serrors"
)

// DefaultKnownTrades seeds the advisory trade vocabulary. An unrecognized
// trade is a warning, never an error: the directory accepts free-form trades
// but the operator should see likely typos before committing.
var DefaultKnownTrades = []string{
	"carpentry", "concrete", "demolition", "drywall", "electrical",
	"flooring", "general labor", "hvac", "insulation", "landscaping",
	"masonry", "painting", "plumbing", "roofing", "scaffolding", "welding",
}

// nearDuplicateMaxRank bounds the Levenshtein rank for the fuzzy
// near-duplicate warning against the existing directory.
const nearDuplicateMaxRank = 2

type rowContract struct {
	Name          string   `validate:"required,max=200"`
	Email         string   `validate:"omitempty,email,max=254"`
	Phone         string   `validate:"omitempty,e164"`
	Website       string   `validate:"omitempty,url,max=255"`
	City          string   `validate:"omitempty,max=100"`
	Region        string   `validate:"omitempty,max=100"`
	Trades        []string `validate:"omitempty,max=25,dive,required,max=100"`
	CompanySize   string   `validate:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	LicenseNumber string   `validate:"omitempty,max=100"`
	Description   string   `validate:"omitempty,max=2000"`
}

// fieldLabels maps contract fields back to the template's column names for
// operator-facing messages.
var fieldLabels = map[string]string{
	"Name":          ColName,
	"Email":         ColEmail,
	"Phone":         ColPhone,
	"Website":       ColWebsite,
	"City":          ColCity,
	"Region":        ColRegion,
	"Trades":        ColTrades,
	"CompanySize":   ColCompanySize,
	"LicenseNumber": ColLicenseNumber,
	"Description":   ColDescription,
}

// Validator applies the agency row contract. It holds only the reference
// data the caller threads in (known trades, a snapshot of existing active
// agency names); it keeps no state across calls.
type Validator struct {
	knownTrades   map[string]struct{}
	existingNames []string
	existingNorm  map[string]struct{}
}

type ValidatorOption func(*Validator)

// WithKnownTrades replaces the advisory trade vocabulary.
func WithKnownTrades(trades []string) ValidatorOption {
	return func(v *Validator) {
		v.knownTrades = make(map[string]struct{}, len(trades))
		for _, t := range trades {
			v.knownTrades[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
	}
}

// WithExistingNames provides the current active directory names used for the
// duplicate warnings. The snapshot is advisory; the committer re-checks
// uniqueness at commit time.
func WithExistingNames(names []string) ValidatorOption {
	return func(v *Validator) {
		v.existingNames = make([]string, 0, len(names))
		v.existingNorm = make(map[string]struct{}, len(names))
		for _, n := range names {
			norm := NormalizeName(n)
			if norm == "" {
				continue
			}
			v.existingNames = append(v.existingNames, norm)
			v.existingNorm[norm] = struct{}{}
		}
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	WithKnownTrades(DefaultKnownTrades)(v)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every row against the agency contract and runs the
// cross-row duplicate pass over the whole batch. It never fails: each row
// gets a result even when its data is hopeless.
func (v *Validator) Validate(rows []RawRow) ([]RowValidationResult, ValidationSummary) {
	results := make([]RowValidationResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, v.validateRow(row))
	}

	v.markInFileDuplicates(results)

	summary := ValidationSummary{Total: len(results)}
	for i := range results {
		results[i].Valid = len(results[i].Errors) == 0
		if results[i].Valid {
			summary.Valid++
			if len(results[i].Warnings) > 0 {
				summary.WithWarnings++
			}
		} else {
			summary.Invalid++
		}
	}
	return results, summary
}

func (v *Validator) validateRow(row RawRow) (result RowValidationResult) {
	result = RowValidationResult{
		RowNumber: row.RowNumber,
		Errors:    []string{},
		Warnings:  []string{},
	}

	// A malformed row must degrade to an invalid result, never abort the
	// batch.
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row could not be validated: %v", r))
			result.Valid = false
		}
	}()

	data := AgencyRowData{
		Name:          row.String(ColName),
		Email:         row.String(ColEmail),
		Phone:         row.String(ColPhone),
		Website:       row.String(ColWebsite),
		City:          row.String(ColCity),
		Region:        row.String(ColRegion),
		Trades:        row.List(ColTrades),
		CompanySize:   row.String(ColCompanySize),
		LicenseNumber: row.String(ColLicenseNumber),
		Description:   row.String(ColDescription),
	}
	result.Data = data

	contract := rowContract(data)
	if err := constants.Validate.Struct(&contract); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, msg := range flattenContractErrors(verrs) {
				result.Errors = append(result.Errors, msg)
			}
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("row could not be validated: %v", err))
		}
	}

	for _, trade := range data.Trades {
		if _, known := v.knownTrades[strings.ToLower(trade)]; !known {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unrecognized trade %q", trade))
		}
	}

	if data.Name != "" {
		norm := NormalizeName(data.Name)
		if _, exists := v.existingNorm[norm]; exists {
			result.Warnings = append(result.Warnings, fmt.Sprintf("an agency named %q already exists; this row will be skipped on commit", data.Name))
		} else if near := v.nearestExisting(norm); near != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("name is very similar to existing agency %q", near))
		}
	}

	return result
}

func (v *Validator) nearestExisting(norm string) string {
	best := ""
	bestRank := nearDuplicateMaxRank + 1
	for _, existing := range v.existingNames {
		rank := fuzzy.RankMatchNormalizedFold(norm, existing)
		if rank < 0 {
			rank = fuzzy.RankMatchNormalizedFold(existing, norm)
		}
		if rank >= 0 && rank < bestRank {
			best = existing
			bestRank = rank
		}
	}
	return best
}

// markInFileDuplicates attributes an exact normalized-name collision inside
// one file to every row involved. These are blocking: the operator must
// decide which of the colliding rows is the real one.
func (v *Validator) markInFileDuplicates(results []RowValidationResult) {
	byName := make(map[string][]int)
	for i := range results {
		name := results[i].Data.Name
		if name == "" {
			continue
		}
		norm := NormalizeName(name)
		byName[norm] = append(byName[norm], i)
	}

	for _, indices := range byName {
		if len(indices) < 2 {
			continue
		}
		rowNumbers := make([]int, 0, len(indices))
		for _, i := range indices {
			rowNumbers = append(rowNumbers, results[i].RowNumber)
		}
		sort.Ints(rowNumbers)
		for _, i := range indices {
			others := make([]string, 0, len(rowNumbers)-1)
			for _, n := range rowNumbers {
				if n != results[i].RowNumber {
					others = append(others, fmt.Sprintf("%d", n))
				}
			}
			results[i].Errors = append(results[i].Errors, fmt.Sprintf(
				"duplicate agency name %q also appears in row(s) %s of this file",
				results[i].Data.Name, strings.Join(others, ", "),
			))
		}
	}
}

func flattenContractErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.StructField()]
		if label == "" {
			label = strings.ToLower(fe.StructField())
		}
		out = append(out, describeFieldError(label, fe))
	}
	return out
}

func describeFieldError(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "e164":
		return fmt.Sprintf("%s must be a phone number in E.164 format (e.g. +15551234567)", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must list at most %s entries", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return serrors.DescribeRule(fe)
	}
}
