package mappers

import (
	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
	"github.com/crewdir/crewdir/modules/request/presentation/viewmodels"
)

func LaborRequestToViewModel(r laborrequest.LaborRequest) viewmodels.LaborRequest {
	return viewmodels.LaborRequest{
		ID:             r.ID().String(),
		RequesterName:  r.RequesterName(),
		RequesterEmail: r.RequesterEmail(),
		RequesterPhone: r.RequesterPhone(),
		Trade:          r.Trade(),
		Headcount:      r.Headcount(),
		StartDate:      r.StartDate(),
		DurationWeeks:  r.DurationWeeks(),
		Notes:          r.Notes(),
		Status:         string(r.Status()),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}

func LaborRequestsToViewModels(items []laborrequest.LaborRequest, total int64) viewmodels.LaborRequestList {
	out := viewmodels.LaborRequestList{
		Items: make([]viewmodels.LaborRequest, 0, len(items)),
		Total: total,
	}
	for _, r := range items {
		out.Items = append(out.Items, LaborRequestToViewModel(r))
	}
	return out
}
