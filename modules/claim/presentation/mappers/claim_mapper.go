package mappers

import (
	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
	"github.com/crewdir/crewdir/modules/claim/presentation/viewmodels"
)

func ClaimToViewModel(c claim.Claim) viewmodels.Claim {
	return viewmodels.Claim{
		ID:              c.ID().String(),
		AgencyID:        c.AgencyID().String(),
		ClaimantSubject: c.ClaimantSubject(),
		ClaimantEmail:   c.ClaimantEmail(),
		Message:         c.Message(),
		Status:          string(c.Status()),
		CreatedAt:       c.CreatedAt(),
		DecidedAt:       c.DecidedAt(),
	}
}

func ClaimsToViewModels(items []claim.Claim, total int64) viewmodels.ClaimList {
	out := viewmodels.ClaimList{
		Items: make([]viewmodels.Claim, 0, len(items)),
		Total: total,
	}
	for _, c := range items {
		out.Items = append(out.Items, ClaimToViewModel(c))
	}
	return out
}
