package service

import (
	"testing"
	"time"

	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newImportService(db *gorm.DB) *ImportService {
	return NewImportService(
		repository.NewPatientRepository(db),
		repository.NewVisitRepository(db),
		repository.NewAppointmentRepository(db),
		zap.NewNop().Sugar(),
	)
}

func TestImportVisitsUpsertsPatientsByNormalizedName(t *testing.T) {
	db := newTestDB(t)
	svc := newImportService(db)

	// Pre-existing patient stored with a dotted name.
	existing := &models.Patient{FullName: "Ivanov I.I."}
	require.NoError(t, db.Create(existing).Error)

	summary, err := svc.ImportVisits([]VisitImportRow{
		{
			PatientName: "IVANOV II", // same normalized name, different spelling
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ServiceName: "cleaning",
			TotalCost:   decimal.RequireFromString("1500.00"),
			AmountCash:  decimal.RequireFromString("1500.00"),
			SourceFile:  "register_march.xlsx",
		},
		{
			PatientName: "Petrov P.P.",
			Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			ServiceName: "filling",
			TotalCost:   decimal.RequireFromString("2500.00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.NewPatients)

	var patientCount int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patientCount).Error)
	assert.EqualValues(t, 2, patientCount)

	visits, err := repository.NewVisitRepository(db).ListByPatient(existing.ID)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "cleaning", visits[0].ServiceName)
}

func TestImportVisitsFeedsSearch(t *testing.T) {
	db := newTestDB(t)
	svc := newImportService(db)

	_, err := svc.ImportVisits([]VisitImportRow{
		{
			PatientName: "Sidorov S.S.",
			Date:        time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			ServiceName: "extraction",
			TotalCost:   decimal.RequireFromString("3000.00"),
		},
	})
	require.NoError(t, err)

	res, err := NewPatientSearchService(repository.NewPatientRepository(db)).Search("sidorov", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.True(t, res.TotalPaid.Equal(decimal.RequireFromString("3000.00")))
}

func TestImportAppointments(t *testing.T) {
	db := newTestDB(t)
	svc := newImportService(db)

	summary, err := svc.ImportAppointments([]AppointmentImportRow{
		{
			DateAndTime: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
			DoctorName:  "Dr. Orlova",
			PatientName: "Ivanov I.I.",
			Procedure:   "checkup",
			PhoneNumber: "+7 900 000-00-00",
			SourceFile:  "journal_march.xlsx",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)

	listed, err := repository.NewAppointmentRepository(db).ListInPeriod(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Dr. Orlova", listed[0].DoctorName)
}

func TestImportEmptyBatchesAreNoOps(t *testing.T) {
	db := newTestDB(t)
	svc := newImportService(db)

	summary, err := svc.ImportVisits(nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Inserted)

	appSummary, err := svc.ImportAppointments(nil)
	require.NoError(t, err)
	assert.Zero(t, appSummary.Inserted)
}
