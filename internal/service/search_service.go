package service

import (
	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/shopspring/decimal"
)

// maxAutoShowResults caps how many visit rows a search returns before the
// caller must explicitly ask for the full list.
const maxAutoShowResults = 15

type VisitLine struct {
	PatientName string          `json:"patient_name"`
	Date        string          `json:"date"`
	ServiceName string          `json:"service_name"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

type SearchResult struct {
	Count        int             `json:"count"`
	PatientCount int             `json:"patient_count"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TooMany      bool            `json:"too_many"`
	Visits       []VisitLine     `json:"visits,omitempty"`
}

// PatientSearchService answers free-text visit lookups for staff.
type PatientSearchService struct {
	patients *repository.PatientRepository
}

func NewPatientSearchService(patients *repository.PatientRepository) *PatientSearchService {
	return &PatientSearchService{patients: patients}
}

// Search matches patients by normalized-name substring and lists their
// visits newest first. When the match set exceeds the auto-show cap and
// forceShowAll is false, only the count comes back.
func (s *PatientSearchService) Search(query string, forceShowAll bool) (*SearchResult, error) {
	searchKey := models.NormalizeName(query)
	patients, err := s.patients.SearchWithVisits(searchKey)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range patients {
		total += len(p.Visits)
	}
	if total == 0 {
		return &SearchResult{TotalPaid: decimal.Zero}, nil
	}
	if !forceShowAll && total > maxAutoShowResults {
		return &SearchResult{Count: total, PatientCount: len(patients), TooMany: true, TotalPaid: decimal.Zero}, nil
	}

	result := &SearchResult{Count: total, PatientCount: len(patients), TotalPaid: decimal.Zero}
	for _, p := range patients {
		for _, v := range p.Visits {
			result.TotalPaid = result.TotalPaid.Add(v.TotalCost)
			result.Visits = append(result.Visits, VisitLine{
				PatientName: p.FullName,
				Date:        v.Date.Format("02.01.2006"),
				ServiceName: v.ServiceName,
				TotalCost:   v.TotalCost,
			})
		}
	}
	return result, nil
}
