package service

import (
	"errors"
	"time"

	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VisitImportRow is one cash-register line handed to the importer. Patients
// are matched by normalized name and created on first sight.
type VisitImportRow struct {
	PatientName    string          `json:"patient_name" binding:"required"`
	Date           time.Time       `json:"date" binding:"required"`
	ServiceName    string          `json:"service_name"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	AmountCash     decimal.Decimal `json:"amount_cash"`
	AmountCashless decimal.Decimal `json:"amount_cashless"`
	SourceFile     string          `json:"source_file"`
}

// AppointmentImportRow is one appointment-journal line. Names stay free text.
type AppointmentImportRow struct {
	DateAndTime time.Time `json:"date_and_time" binding:"required"`
	DoctorName  string    `json:"doctor_name"`
	PatientName string    `json:"patient_name"`
	Procedure   string    `json:"procedure"`
	PhoneNumber string    `json:"phone_number"`
	SourceFile  string    `json:"source_file"`
}

type ImportSummary struct {
	Inserted    int `json:"inserted"`
	NewPatients int `json:"new_patients,omitempty"`
}

// ImportService turns register and journal exports into visit and
// appointment rows.
type ImportService struct {
	patients     *repository.PatientRepository
	visits       *repository.VisitRepository
	appointments *repository.AppointmentRepository
	log          *zap.SugaredLogger
}

func NewImportService(patients *repository.PatientRepository, visits *repository.VisitRepository, appointments *repository.AppointmentRepository, log *zap.SugaredLogger) *ImportService {
	return &ImportService{patients: patients, visits: visits, appointments: appointments, log: log}
}

// ImportVisits upserts patients by normalized name and batch-inserts their
// visit rows.
func (s *ImportService) ImportVisits(rows []VisitImportRow) (*ImportSummary, error) {
	summary := &ImportSummary{}
	known := map[string]*models.Patient{}
	visits := make([]models.Visit, 0, len(rows))

	for _, row := range rows {
		key := models.NormalizeName(row.PatientName)
		patient, ok := known[key]
		if !ok {
			existing, err := s.patients.GetByNormalizedName(key)
			switch {
			case err == nil:
				patient = existing
			case errors.Is(err, gorm.ErrRecordNotFound):
				patient = &models.Patient{FullName: row.PatientName}
				if err := s.patients.Create(patient); err != nil {
					return summary, err
				}
				summary.NewPatients++
			default:
				return summary, err
			}
			known[key] = patient
		}
		visits = append(visits, models.Visit{
			PatientID:      patient.ID,
			Date:           row.Date,
			ServiceName:    row.ServiceName,
			TotalCost:      row.TotalCost,
			AmountCash:     row.AmountCash,
			AmountCashless: row.AmountCashless,
			SourceFile:     row.SourceFile,
		})
	}

	if err := s.visits.CreateBatch(visits); err != nil {
		return summary, err
	}
	summary.Inserted = len(visits)
	s.log.Infow("imported visits", "rows", summary.Inserted, "new_patients", summary.NewPatients)
	return summary, nil
}

func (s *ImportService) ImportAppointments(rows []AppointmentImportRow) (*ImportSummary, error) {
	appointments := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, models.Appointment{
			DateAndTime: row.DateAndTime,
			DoctorName:  row.DoctorName,
			PatientName: row.PatientName,
			Procedure:   row.Procedure,
			PhoneNumber: row.PhoneNumber,
			SourceFile:  row.SourceFile,
		})
	}
	if err := s.appointments.CreateBatch(appointments); err != nil {
		return nil, err
	}
	s.log.Infow("imported appointments", "rows", len(appointments))
	return &ImportSummary{Inserted: len(appointments)}, nil
}
