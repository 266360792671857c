package service

import (
	"fmt"
	"mime/multipart"

	"medbase/internal/domain"
	"medbase/internal/dynamic"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/pkg/filestore"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Form is a generic submission: named scalar values (array fields arrive as
// repeated keys) plus named file attachments.
type Form struct {
	Values map[string][]string
	Files  map[string][]*multipart.FileHeader
}

// RecordService runs the coerce -> merge -> stage -> persist -> finalize
// pipeline for generic records, and lends the same pipeline to the
// hard-coded entities that carry a dynamic property bag.
type RecordService struct {
	defs    *repository.DefinitionRepository
	fields  *repository.FieldRepository
	records *repository.RecordRepository
	files   *filestore.Store
	log     *zap.SugaredLogger
}

func NewRecordService(defs *repository.DefinitionRepository, fields *repository.FieldRepository, records *repository.RecordRepository, files *filestore.Store, log *zap.SugaredLogger) *RecordService {
	return &RecordService{defs: defs, fields: fields, records: records, files: files, log: log}
}

// Save validates and persists one submission against the live field catalog
// of entityCode. recordID nil creates a new record; otherwise the identified
// record is updated with partial-merge semantics. On validation failure the
// returned Validation carries every field error and nothing is persisted.
func (s *RecordService) Save(entityCode string, recordID *uuid.UUID, form Form) (*models.GenericRecord, *dynamic.Validation, error) {
	if _, err := s.defs.GetByCode(entityCode); err != nil {
		return nil, nil, err
	}
	fields, err := s.fields.ListByEntityCode(entityCode)
	if err != nil {
		return nil, nil, err
	}

	var record *models.GenericRecord
	var existing datatypes.JSON
	if recordID != nil {
		record, err = s.records.GetByID(*recordID)
		if err != nil {
			return nil, nil, err
		}
		existing = record.Properties
	}

	v := &dynamic.Validation{}
	prior := dynamic.Decode(existing)
	res := dynamic.CoerceForm(fields, form.Values, prior, v)
	s.stageFiles(fields, form.Files, prior, &res, v)
	if !v.Ok() {
		return nil, v, nil
	}

	merged, err := dynamic.Merge(existing, res)
	if err != nil {
		return nil, nil, err
	}

	if record == nil {
		record = &models.GenericRecord{EntityCode: entityCode, Properties: merged}
		// Persist first so the record has a durable identity, then move
		// staged files into its permanent directory and save the rewritten
		// paths.
		if err := s.records.Create(record); err != nil {
			return nil, nil, err
		}
		rewritten, changed := s.finalize(merged, entityCode, record.ID)
		if changed {
			record.Properties = rewritten
			if err := s.records.Update(record); err != nil {
				return nil, nil, err
			}
		}
		return record, v, nil
	}

	// The identity already exists, so files can move before the single save.
	rewritten, _ := s.finalize(merged, entityCode, record.ID)
	record.Properties = rewritten
	if err := s.records.Update(record); err != nil {
		return nil, nil, err
	}
	return record, v, nil
}

func (s *RecordService) Get(id uuid.UUID) (*models.GenericRecord, error) {
	return s.records.GetByID(id)
}

func (s *RecordService) ListByEntityCode(entityCode string) ([]models.GenericRecord, error) {
	return s.records.ListByEntityCode(entityCode)
}

// Delete removes the record and, best-effort, its permanent upload
// directory.
func (s *RecordService) Delete(id uuid.UUID) error {
	record, err := s.records.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.records.Delete(id); err != nil {
		return err
	}
	s.files.RemoveRecordDir(record.EntityCode, record.ID.String())
	return nil
}

// stageFiles runs phase 1 of the file protocol for every file-typed field.
// Fields with no upload in this submission keep their stored value; array
// fields are replaced by the files staged now. Oversized files accumulate
// field errors and the rest of the batch continues.
func (s *RecordService) stageFiles(fields []models.FieldDefinition, files map[string][]*multipart.FileHeader, prior map[string]any, res *dynamic.Result, v *dynamic.Validation) {
	for i := range fields {
		f := &fields[i]
		if f.DataType != domain.FieldTypeFile {
			continue
		}
		uploads := files[f.SystemName]
		if len(uploads) == 0 {
			if f.IsRequired && !dynamic.HasValue(prior[f.SystemName]) {
				v.Add(f.SystemName, f.Label, domain.ErrCodeMissingRequired,
					fmt.Sprintf("field %q (%s) is required", f.Label, f.SystemName))
			}
			continue
		}
		var staged []any
		for _, fh := range uploads {
			p, err := s.files.Stage(fh)
			if err == filestore.ErrFileTooLarge {
				v.Add(f.SystemName, f.Label, domain.ErrCodeFileTooLarge,
					fmt.Sprintf("file %q for field %q exceeds the size limit", fh.Filename, f.Label))
				continue
			}
			if err != nil {
				v.Add(f.SystemName, f.Label, domain.ErrCodeIOFailure,
					fmt.Sprintf("file %q for field %q could not be stored", fh.Filename, f.Label))
				continue
			}
			staged = append(staged, p)
		}
		if len(staged) == 0 {
			continue
		}
		if f.IsArray {
			res.Changes[f.SystemName] = staged
		} else {
			res.Changes[f.SystemName] = staged[0]
		}
	}
}

func (s *RecordService) finalize(props datatypes.JSON, entityCode string, recordID uuid.UUID) (datatypes.JSON, bool) {
	bag := dynamic.Decode(props)
	if !s.files.Finalize(bag, entityCode, recordID.String()) {
		return props, false
	}
	encoded, err := dynamic.Encode(bag)
	if err != nil {
		// The files already moved; losing the rewrite only leaves paths
		// staged, which the next edit repairs.
		s.log.Errorw("finalize: cannot encode rewritten properties", "record", recordID, "error", err)
		return props, false
	}
	return encoded, true
}

// BuildProperties runs coercion, merge and file staging for a hard-coded
// entity (employee, department, position) that owns its row outside the
// generic record table. The caller finalizes once the owner's identity is
// known.
func (s *RecordService) BuildProperties(entityCode string, existing datatypes.JSON, form Form) (datatypes.JSON, *dynamic.Validation, error) {
	fields, err := s.fields.ListByEntityCode(entityCode)
	if err != nil {
		return nil, nil, err
	}
	v := &dynamic.Validation{}
	prior := dynamic.Decode(existing)
	res := dynamic.CoerceForm(fields, form.Values, prior, v)
	s.stageFiles(fields, form.Files, prior, &res, v)
	if !v.Ok() {
		return nil, v, nil
	}
	merged, err := dynamic.Merge(existing, res)
	if err != nil {
		return nil, nil, err
	}
	return merged, v, nil
}

// FinalizeProperties runs phase 2 for a hard-coded entity once its id
// exists. Reports whether any path was rewritten.
func (s *RecordService) FinalizeProperties(props datatypes.JSON, entityCode string, ownerID uuid.UUID) (datatypes.JSON, bool) {
	return s.finalize(props, entityCode, ownerID)
}
