package service

import (
	"time"

	"medbase/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PeriodReport struct {
	Start          string          `json:"start"`
	End            string          `json:"end"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCash      decimal.Decimal `json:"total_cash"`
	TotalCashless  decimal.Decimal `json:"total_cashless"`
	VisitCount     int             `json:"visit_count"`
	UniquePatients int             `json:"unique_patients"`
	Empty          bool            `json:"empty"`
}

// StatisticsService aggregates visit rows into period reports.
type StatisticsService struct {
	visits *repository.VisitRepository
}

func NewStatisticsService(visits *repository.VisitRepository) *StatisticsService {
	return &StatisticsService{visits: visits}
}

// PeriodReport sums revenue over [start, end] inclusive of the end day.
func (s *StatisticsService) PeriodReport(start, end time.Time) (*PeriodReport, error) {
	periodEnd := end.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	visits, err := s.visits.ListInPeriod(start, periodEnd)
	if err != nil {
		return nil, err
	}

	report := &PeriodReport{
		Start:         start.Format("02.01.2006"),
		End:           end.Format("02.01.2006"),
		TotalRevenue:  decimal.Zero,
		TotalCash:     decimal.Zero,
		TotalCashless: decimal.Zero,
	}
	if len(visits) == 0 {
		report.Empty = true
		return report, nil
	}

	patients := map[uuid.UUID]bool{}
	for _, v := range visits {
		report.TotalRevenue = report.TotalRevenue.Add(v.TotalCost)
		report.TotalCash = report.TotalCash.Add(v.AmountCash)
		report.TotalCashless = report.TotalCashless.Add(v.AmountCashless)
		patients[v.PatientID] = true
	}
	report.VisitCount = len(visits)
	report.UniquePatients = len(patients)
	return report, nil
}
