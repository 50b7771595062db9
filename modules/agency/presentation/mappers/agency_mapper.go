package mappers

import (
	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/agency/presentation/viewmodels"
)

func AgencyToViewModel(a agency.Agency) viewmodels.Agency {
	return viewmodels.Agency{
		ID:              a.ID().String(),
		Name:            a.Name(),
		Email:           a.Email(),
		Phone:           a.Phone(),
		Website:         a.Website(),
		City:            a.City(),
		Region:          a.Region(),
		Trades:          a.Trades(),
		CompanySize:     a.CompanySize(),
		LicenseNumber:   a.LicenseNumber(),
		LicenseExpiry:   a.LicenseExpiry(),
		InsuranceExpiry: a.InsuranceExpiry(),
		Description:     a.Description(),
		Status:          string(a.Status()),
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       a.UpdatedAt(),
	}
}

func AgenciesToViewModels(items []agency.Agency, total int64) viewmodels.AgencyList {
	out := viewmodels.AgencyList{
		Items: make([]viewmodels.Agency, 0, len(items)),
		Total: total,
	}
	for _, a := range items {
		out.Items = append(out.Items, AgencyToViewModel(a))
	}
	return out
}
