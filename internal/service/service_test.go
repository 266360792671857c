package service

import (
	"bytes"
	"mime/multipart"
	"testing"

	"medbase/internal/database"
	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/pkg/filestore"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newRecordService(t *testing.T, db *gorm.DB) *RecordService {
	t.Helper()
	store := filestore.New(t.TempDir(), zap.NewNop().Sugar())
	return NewRecordService(
		repository.NewDefinitionRepository(db),
		repository.NewFieldRepository(db),
		repository.NewRecordRepository(db),
		store,
		zap.NewNop().Sugar(),
	)
}

func newMetadataService(db *gorm.DB) *MetadataService {
	return NewMetadataService(
		repository.NewDefinitionRepository(db),
		repository.NewFieldRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewRecordRepository(db),
	)
}

// seedDefinition registers an entity type with the given fields and returns
// it reloaded, catalog included.
func seedDefinition(t *testing.T, db *gorm.DB, entityCode string, fields ...models.FieldDefinition) *models.EntityDefinition {
	t.Helper()
	def := &models.EntityDefinition{Name: entityCode, EntityCode: entityCode}
	require.NoError(t, db.Create(def).Error)
	for i := range fields {
		fields[i].EntityDefinitionID = def.ID
		fields[i].SortOrder = i + 1
		require.NoError(t, db.Create(&fields[i]).Error)
	}
	def.Fields = fields
	return def
}

func textField(name string, required bool) models.FieldDefinition {
	return models.FieldDefinition{SystemName: name, Label: name, DataType: domain.FieldTypeText, IsRequired: required}
}

// uploadHeader builds a multipart.FileHeader the way gin delivers uploads.
func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}
