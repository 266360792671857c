package service

import (
	"fmt"
	"testing"
	"time"

	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPatientWithVisits(t *testing.T, db *gorm.DB, fullName string, costs ...string) *models.Patient {
	t.Helper()
	p := &models.Patient{FullName: fullName}
	require.NoError(t, db.Create(p).Error)
	for i, c := range costs {
		cost, err := decimal.NewFromString(c)
		require.NoError(t, err)
		v := models.Visit{
			PatientID:   p.ID,
			Date:        time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
			ServiceName: fmt.Sprintf("service %d", i+1),
			TotalCost:   cost,
			AmountCash:  cost,
		}
		require.NoError(t, db.Create(&v).Error)
	}
	return p
}

func TestSearchMatchesNormalizedName(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientSearchService(repository.NewPatientRepository(db))
	seedPatientWithVisits(t, db, "Ivanov I.I.", "1500.00", "2500.50")
	seedPatientWithVisits(t, db, "Petrov P.P.", "900.00")

	// Query casing, dots and spaces do not matter.
	res, err := svc.Search("ivanov ii", false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.PatientCount)
	assert.False(t, res.TooMany)
	assert.True(t, res.TotalPaid.Equal(decimal.RequireFromString("4000.50")), res.TotalPaid)
	require.Len(t, res.Visits, 2)
	assert.Equal(t, "Ivanov I.I.", res.Visits[0].PatientName)
}

func TestSearchNoMatches(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientSearchService(repository.NewPatientRepository(db))
	seedPatientWithVisits(t, db, "Ivanov I.I.", "1500.00")

	res, err := svc.Search("nobody", false)
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.Visits)
}

func TestSearchTooManyHoldsBackRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientSearchService(repository.NewPatientRepository(db))

	costs := make([]string, maxAutoShowResults+1)
	for i := range costs {
		costs[i] = "100.00"
	}
	seedPatientWithVisits(t, db, "Ivanov I.I.", costs...)

	res, err := svc.Search("ivanov", false)
	require.NoError(t, err)
	assert.True(t, res.TooMany)
	assert.Equal(t, maxAutoShowResults+1, res.Count)
	assert.Empty(t, res.Visits)

	// forceShowAll overrides the cap.
	res, err = svc.Search("ivanov", true)
	require.NoError(t, err)
	assert.False(t, res.TooMany)
	require.Len(t, res.Visits, maxAutoShowResults+1)
}
