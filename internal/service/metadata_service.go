package service

import (
	"bytes"
	"errors"
	"strings"

	"medbase/internal/domain"
	"medbase/internal/dynamic"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/pkg/filestore"

	"github.com/google/uuid"
)

var (
	ErrDuplicateEntityCode = errors.New("an entity with this code already exists")
	ErrReservedEntityCode  = errors.New("this entity code is reserved")
	ErrSystemDefinition    = errors.New("system definitions cannot be deleted")
	ErrSystemNameRequired  = errors.New("field system name is required")
)

// MetadataService manages entity definitions, their field catalogs and the
// grouping categories.
type MetadataService struct {
	defs       *repository.DefinitionRepository
	fields     *repository.FieldRepository
	categories *repository.CategoryRepository
	records    *repository.RecordRepository
}

func NewMetadataService(defs *repository.DefinitionRepository, fields *repository.FieldRepository, categories *repository.CategoryRepository, records *repository.RecordRepository) *MetadataService {
	return &MetadataService{defs: defs, fields: fields, categories: categories, records: records}
}

// CreateDefinition registers a new entity type. A duplicate entity code is
// rejected before anything is written, leaving the field catalog untouched.
// The staging directory name is reserved: an entity code equal to it would
// collide with the upload staging root.
func (s *MetadataService) CreateDefinition(d *models.EntityDefinition) error {
	if strings.EqualFold(d.EntityCode, filestore.TempDirName) {
		return ErrReservedEntityCode
	}
	exists, err := s.defs.CodeExists(d.EntityCode)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEntityCode
	}
	if d.Icon == "" {
		d.Icon = "gear"
	}
	return s.defs.Create(d)
}

func (s *MetadataService) GetDefinition(id uuid.UUID) (*models.EntityDefinition, error) {
	return s.defs.GetByID(id)
}

func (s *MetadataService) GetDefinitionByCode(entityCode string) (*models.EntityDefinition, error) {
	return s.defs.GetByCode(entityCode)
}

func (s *MetadataService) ListDefinitions() ([]models.EntityDefinition, error) {
	return s.defs.List()
}

// UpdateDefinition renames or re-files a definition. The entity code is
// immutable once records may reference it.
func (s *MetadataService) UpdateDefinition(id uuid.UUID, name, description, icon string, categoryID *uuid.UUID) (*models.EntityDefinition, error) {
	d, err := s.defs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		d.Name = name
	}
	d.Description = description
	if icon != "" {
		d.Icon = icon
	}
	if categoryID != nil {
		d.CategoryID = categoryID
	}
	if err := s.defs.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDefinition removes a user-created definition and its fields. Seeded
// system definitions are protected.
func (s *MetadataService) DeleteDefinition(id uuid.UUID) error {
	d, err := s.defs.GetByID(id)
	if err != nil {
		return err
	}
	if d.IsSystem {
		return ErrSystemDefinition
	}
	return s.defs.Delete(id)
}

// AddField appends a field to a definition's catalog. The system name is
// lowercased and trimmed; sort order is count+1 at creation time, so gaps
// remain after deletions.
func (s *MetadataService) AddField(definitionID uuid.UUID, label, systemName string, dataType domain.FieldDataType, isRequired, isArray bool) (*models.FieldDefinition, error) {
	systemName = strings.ToLower(strings.TrimSpace(systemName))
	if systemName == "" {
		return nil, ErrSystemNameRequired
	}
	if _, err := s.defs.GetByID(definitionID); err != nil {
		return nil, err
	}
	count, err := s.fields.CountByDefinition(definitionID)
	if err != nil {
		return nil, err
	}
	if dataType == "" {
		dataType = domain.FieldTypeText
	}
	f := &models.FieldDefinition{
		EntityDefinitionID: definitionID,
		Label:              label,
		SystemName:         systemName,
		DataType:           dataType,
		IsRequired:         isRequired,
		IsArray:            isArray,
		SortOrder:          int(count) + 1,
	}
	if err := s.fields.Create(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *MetadataService) RemoveField(fieldID uuid.UUID) (uuid.UUID, error) {
	f, err := s.fields.GetByID(fieldID)
	if err != nil {
		return uuid.Nil, err
	}
	return f.EntityDefinitionID, s.fields.Delete(fieldID)
}

func (s *MetadataService) ListCategories() ([]models.Category, error) {
	return s.categories.List()
}

func (s *MetadataService) CreateCategory(c *models.Category) error {
	return s.categories.Create(c)
}

// CompactProperties strips keys no longer backed by a field definition from
// every stored record of the entity. Deleting a field leaves its values in
// place until an operator runs this pass.
func (s *MetadataService) CompactProperties(entityCode string) (int, error) {
	fields, err := s.fields.ListByEntityCode(entityCode)
	if err != nil {
		return 0, err
	}
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f.SystemName] = true
	}
	records, err := s.records.ListByEntityCode(entityCode)
	if err != nil {
		return 0, err
	}
	compacted := 0
	for i := range records {
		rec := &records[i]
		props := dynamic.Decode(rec.Properties)
		dirty := false
		for key := range props {
			if !allowed[key] {
				delete(props, key)
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		encoded, err := dynamic.Encode(props)
		if err != nil {
			return compacted, err
		}
		if bytes.Equal(encoded, rec.Properties) {
			continue
		}
		rec.Properties = encoded
		if err := s.records.Update(rec); err != nil {
			return compacted, err
		}
		compacted++
	}
	return compacted, nil
}
