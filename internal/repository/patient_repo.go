package repository

import (
	"time"

	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(p *models.Patient) error {
	return r.db.Create(p).Error
}

func (r *PatientRepository) GetByID(id uuid.UUID) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByNormalizedName(normalized string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.Where("normalized_name = ?", normalized).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List() ([]models.Patient, error) {
	var out []models.Patient
	err := r.db.Order("full_name asc").Find(&out).Error
	return out, err
}

// SearchWithVisits finds patients whose normalized name contains the search
// key, visits preloaded newest first.
func (r *PatientRepository) SearchWithVisits(searchKey string) ([]models.Patient, error) {
	var out []models.Patient
	err := r.db.Preload("Visits", func(db *gorm.DB) *gorm.DB {
		return db.Order("date desc")
	}).Where("normalized_name LIKE ?", "%"+searchKey+"%").Find(&out).Error
	return out, err
}

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// CreateBatch inserts visit rows produced by an import run.
func (r *VisitRepository) CreateBatch(visits []models.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	return r.db.Create(&visits).Error
}

func (r *VisitRepository) ListByPatient(patientID uuid.UUID) ([]models.Visit, error) {
	var out []models.Visit
	err := r.db.Where("patient_id = ?", patientID).Order("date desc").Find(&out).Error
	return out, err
}

// ListInPeriod returns visits with date in [start, end).
func (r *VisitRepository) ListInPeriod(start, end time.Time) ([]models.Visit, error) {
	var out []models.Visit
	err := r.db.Where("date >= ? AND date < ?", start, end).Find(&out).Error
	return out, err
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) CreateBatch(appointments []models.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return r.db.Create(&appointments).Error
}

func (r *AppointmentRepository) ListInPeriod(start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.Where("date_and_time >= ? AND date_and_time < ?", start, end).
		Order("date_and_time asc").Find(&out).Error
	return out, err
}
