package repository

import (
	"medbase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(e *models.Employee) error {
	return r.db.Create(e).Error
}

func (r *EmployeeRepository) Update(e *models.Employee) error {
	return r.db.Save(e).Error
}

func (r *EmployeeRepository) GetByID(id uuid.UUID) (*models.Employee, error) {
	var e models.Employee
	err := r.db.Preload("StaffAppointments.Position").
		Preload("StaffAppointments.Department").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns employees with appointments, active staff first.
func (r *EmployeeRepository) List() ([]models.Employee, error) {
	var out []models.Employee
	err := r.db.Preload("StaffAppointments.Position").
		Preload("StaffAppointments.Department").
		Order("is_dismissed asc, last_name asc").Find(&out).Error
	return out, err
}

// ReplaceAppointments swaps the employee's staff appointments for the given
// set in one transaction.
func (r *EmployeeRepository) ReplaceAppointments(employeeID uuid.UUID, appointments []models.StaffAppointment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&models.StaffAppointment{}).Error; err != nil {
			return err
		}
		if len(appointments) == 0 {
			return nil
		}
		return tx.Create(&appointments).Error
	})
}

func (r *EmployeeRepository) SetDismissed(id uuid.UUID, dismissed bool) error {
	return r.db.Model(&models.Employee{}).Where("id = ?", id).
		Update("is_dismissed", dismissed).Error
}
