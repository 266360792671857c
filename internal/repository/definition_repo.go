package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefinitionRepository struct {
	db *gorm.DB
}

func NewDefinitionRepository(db *gorm.DB) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

func (r *DefinitionRepository) Create(d *models.EntityDefinition) error {
	return r.db.Create(d).Error
}

func (r *DefinitionRepository) Update(d *models.EntityDefinition) error {
	return r.db.Save(d).Error
}

func (r *DefinitionRepository) GetByID(id uuid.UUID) (*models.EntityDefinition, error) {
	var d models.EntityDefinition
	err := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DefinitionRepository) GetByCode(entityCode string) (*models.EntityDefinition, error) {
	var d models.EntityDefinition
	err := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).Where("entity_code = ?", entityCode).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DefinitionRepository) CodeExists(entityCode string) (bool, error) {
	var n int64
	err := r.db.Model(&models.EntityDefinition{}).Where("entity_code = ?", entityCode).Count(&n).Error
	return n > 0, err
}

// List returns all definitions with fields and category, system ones first.
func (r *DefinitionRepository) List() ([]models.EntityDefinition, error) {
	var out []models.EntityDefinition
	err := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).Preload("Category").Order("is_system desc, name asc").Find(&out).Error
	return out, err
}

func (r *DefinitionRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.EntityDefinition{}).Count(&n).Error
	return n, err
}

// Delete removes a definition and its field catalog.
func (r *DefinitionRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_definition_id = ?", id).Delete(&models.FieldDefinition{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EntityDefinition{}, "id = ?", id).Error
	})
}
