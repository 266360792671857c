package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(o *models.Operator) error {
	return r.db.Create(o).Error
}

func (r *OperatorRepository) GetByID(id uuid.UUID) (*models.Operator, error) {
	var o models.Operator
	if err := r.db.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OperatorRepository) GetByEmail(email string) (*models.Operator, error) {
	var o models.Operator
	if err := r.db.Where("email = ?", email).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OperatorRepository) Update(o *models.Operator) error {
	return r.db.Save(o).Error
}

func (r *OperatorRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Operator{}).Count(&n).Error
	return n, err
}
