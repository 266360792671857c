package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Patient struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	NormalizedName string    `gorm:"size:255;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`

	Visits []Visit `gorm:"foreignKey:PatientID" json:"visits,omitempty"`
}

func (p *Patient) BeforeSave(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.NormalizedName = NormalizeName(p.FullName)
	return nil
}

// NormalizeName folds a display name into the search key form: uppercase
// with dots and spaces stripped, so "Ivanov I.I." and "ivanov ii" match.
func NormalizeName(name string) string {
	s := strings.ToUpper(name)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Visit is one cash-register row for a patient: a dated service with its
// cash/cashless split. Rows are produced in batches by the import jobs.
type Visit struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	PatientID      uuid.UUID       `gorm:"type:char(36);index;not null" json:"patient_id"`
	Date           time.Time       `gorm:"index" json:"date"`
	ServiceName    string          `gorm:"size:512" json:"service_name"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_cost"`
	AmountCash     decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_cash"`
	AmountCashless decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_cashless"`
	SourceFile     string          `gorm:"size:255" json:"source_file"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Appointment is one appointment-journal row. Names arrive as free text from
// the spreadsheet export, not as foreign keys.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	DateAndTime time.Time `gorm:"index" json:"date_and_time"`
	DoctorName  string    `gorm:"size:255" json:"doctor_name"`
	PatientName string    `gorm:"size:255" json:"patient_name"`
	Procedure   string    `gorm:"size:512" json:"procedure"`
	PhoneNumber string    `gorm:"size:64" json:"phone_number"`
	SourceFile  string    `gorm:"size:255" json:"source_file"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
