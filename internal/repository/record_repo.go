package repository

import (
	"errors"

	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrConcurrencyConflict reports a lost optimistic-concurrency race on a
// record update. The caller decides whether to re-fetch or give up.
var ErrConcurrencyConflict = errors.New("record was modified concurrently")

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(rec *models.GenericRecord) error {
	return r.db.Create(rec).Error
}

// Update writes the property bag guarded by the version column. A stale
// version is a conflict; a vanished row is not-found.
func (r *RecordRepository) Update(rec *models.GenericRecord) error {
	res := r.db.Model(&models.GenericRecord{}).
		Where("id = ? AND version = ?", rec.ID, rec.Version).
		Updates(map[string]any{
			"properties": rec.Properties,
			"version":    rec.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.Model(&models.GenericRecord{}).Where("id = ?", rec.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrConcurrencyConflict
	}
	rec.Version++
	return nil
}

func (r *RecordRepository) GetByID(id uuid.UUID) (*models.GenericRecord, error) {
	var rec models.GenericRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) ListByEntityCode(entityCode string) ([]models.GenericRecord, error) {
	var out []models.GenericRecord
	err := r.db.Where("entity_code = ?", entityCode).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *RecordRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.GenericRecord{}, "id = ?", id).Error
}
