package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Employee carries fixed columns plus a dynamic Properties bag driven by the
// "Employee" entity definition's field catalog.
type Employee struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	LastName    string         `gorm:"size:128;not null" json:"last_name"`
	FirstName   string         `gorm:"size:128" json:"first_name"`
	MiddleName  string         `gorm:"size:128" json:"middle_name"`
	Phones      datatypes.JSON `json:"phones"`
	Emails      datatypes.JSON `json:"emails"`
	IsDismissed bool           `gorm:"default:false;index" json:"is_dismissed"`
	Properties  datatypes.JSON `json:"properties"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	StaffAppointments []StaffAppointment `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"staff_appointments,omitempty"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// StaffAppointment links an employee to a position within a department. The
// first appointment submitted with an employee is the primary one.
type StaffAppointment struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID   uuid.UUID `gorm:"type:char(36);index;not null" json:"employee_id"`
	PositionID   uuid.UUID `gorm:"type:char(36);not null" json:"position_id"`
	DepartmentID uuid.UUID `gorm:"type:char(36);not null" json:"department_id"`
	IsPrimary    bool      `gorm:"default:false" json:"is_primary"`

	Position   *Position   `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (s *StaffAppointment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Department struct {
	ID         uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	ManagerID  *uuid.UUID     `gorm:"type:char(36)" json:"manager_id"`
	ParentID   *uuid.UUID     `gorm:"type:char(36)" json:"parent_id"`
	Properties datatypes.JSON `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Manager *Employee   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Parent  *Department `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Position struct {
	ID         uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Properties datatypes.JSON `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
