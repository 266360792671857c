package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(c *models.Category) error {
	return r.db.Create(c).Error
}

func (r *CategoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) GetByName(name string) (*models.Category, error) {
	var c models.Category
	if err := r.db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List() ([]models.Category, error) {
	var out []models.Category
	err := r.db.Order("sort_order asc").Find(&out).Error
	return out, err
}

func (r *CategoryRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Category{}).Count(&n).Error
	return n, err
}
