package models

import (
	"time"

	"medbase/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category groups entity definitions in the admin menu.
type Category struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Icon      string    `gorm:"size:64;default:'folder'" json:"icon"`
	SortOrder int       `json:"sort_order"`

	Definitions []EntityDefinition `gorm:"foreignKey:CategoryID" json:"definitions,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EntityDefinition is a record type declared at runtime: a name, a unique
// entity code and a catalog of field definitions.
type EntityDefinition struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	EntityCode  string     `gorm:"size:64;uniqueIndex;not null" json:"entity_code"`
	Description string     `gorm:"size:512" json:"description"`
	Icon        string     `gorm:"size:64;default:'gear'" json:"icon"`
	IsSystem    bool       `gorm:"default:false" json:"is_system"`
	CategoryID  *uuid.UUID `gorm:"type:char(36);index" json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Fields   []FieldDefinition `gorm:"foreignKey:EntityDefinitionID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
}

func (d *EntityDefinition) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// FieldDefinition is one typed, orderable attribute of an entity definition.
// SystemName doubles as the form key and the property-bag key.
type FieldDefinition struct {
	ID                 uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	EntityDefinitionID uuid.UUID            `gorm:"type:char(36);index;not null" json:"entity_definition_id"`
	SystemName         string               `gorm:"size:64;not null" json:"system_name"`
	Label              string               `gorm:"size:128" json:"label"`
	DataType           domain.FieldDataType `gorm:"size:16;not null;default:'text'" json:"data_type"`
	IsRequired         bool                 `gorm:"default:false" json:"is_required"`
	IsArray            bool                 `gorm:"default:false" json:"is_array"`
	SortOrder          int                  `json:"sort_order"`
}

func (f *FieldDefinition) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// GenericRecord is one instance of a dynamically defined entity type. Its
// attributes live in the Properties JSON bag keyed by field system names.
// Version backs optimistic concurrency on updates.
type GenericRecord struct {
	ID         uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	EntityCode string         `gorm:"size:64;index;not null" json:"entity_code"`
	Properties datatypes.JSON `json:"properties"`
	Version    int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (r *GenericRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
