package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// ListByEntityCode loads the field catalog for an entity code ordered by
// sort_order. An unknown code yields an empty slice, not an error; callers
// validate code existence through the definition repository.
func (r *FieldRepository) ListByEntityCode(entityCode string) ([]models.FieldDefinition, error) {
	var out []models.FieldDefinition
	err := r.db.
		Joins("JOIN entity_definitions ON entity_definitions.id = field_definitions.entity_definition_id").
		Where("entity_definitions.entity_code = ?", entityCode).
		Order("field_definitions.sort_order asc").
		Find(&out).Error
	return out, err
}

func (r *FieldRepository) GetByID(id uuid.UUID) (*models.FieldDefinition, error) {
	var f models.FieldDefinition
	if err := r.db.First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FieldRepository) Create(f *models.FieldDefinition) error {
	return r.db.Create(f).Error
}

func (r *FieldRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.FieldDefinition{}, "id = ?", id).Error
}

func (r *FieldRepository) CountByDefinition(definitionID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Model(&models.FieldDefinition{}).
		Where("entity_definition_id = ?", definitionID).Count(&n).Error
	return n, err
}
