package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(d *models.Department) error {
	return r.db.Create(d).Error
}

func (r *DepartmentRepository) Update(d *models.Department) error {
	return r.db.Save(d).Error
}

func (r *DepartmentRepository) GetByID(id uuid.UUID) (*models.Department, error) {
	var d models.Department
	if err := r.db.Preload("Manager").Preload("Parent").First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) List() ([]models.Department, error) {
	var out []models.Department
	err := r.db.Preload("Manager").Preload("Parent").Order("name asc").Find(&out).Error
	return out, err
}

func (r *DepartmentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Department{}, "id = ?", id).Error
}

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) Create(p *models.Position) error {
	return r.db.Create(p).Error
}

func (r *PositionRepository) Update(p *models.Position) error {
	return r.db.Save(p).Error
}

func (r *PositionRepository) GetByID(id uuid.UUID) (*models.Position, error) {
	var p models.Position
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PositionRepository) List() ([]models.Position, error) {
	var out []models.Position
	err := r.db.Order("name asc").Find(&out).Error
	return out, err
}

func (r *PositionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Position{}, "id = ?", id).Error
}
