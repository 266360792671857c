package service

import (
	"testing"

	"medbase/internal/domain"
	"medbase/internal/dynamic"
	"medbase/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefinitionRejectsDuplicateCode(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	require.NoError(t, svc.CreateDefinition(&models.EntityDefinition{Name: "Suppliers", EntityCode: "supplier"}))
	err := svc.CreateDefinition(&models.EntityDefinition{Name: "Other", EntityCode: "supplier"})
	assert.ErrorIs(t, err, ErrDuplicateEntityCode)

	// The rejection happens before any write.
	var n int64
	require.NoError(t, db.Model(&models.EntityDefinition{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateDefinitionRejectsStagingDirName(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	// An entity code equal to the staging directory would make permanent
	// upload paths look staged and get swept.
	for _, code := range []string{"temp", "TEMP", "Temp"} {
		err := svc.CreateDefinition(&models.EntityDefinition{Name: "Temp", EntityCode: code})
		assert.ErrorIs(t, err, ErrReservedEntityCode, code)
	}

	var n int64
	require.NoError(t, db.Model(&models.EntityDefinition{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateDefinitionKeepsEntityCode(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	def := &models.EntityDefinition{Name: "Suppliers", EntityCode: "supplier"}
	require.NoError(t, svc.CreateDefinition(def))

	updated, err := svc.UpdateDefinition(def.ID, "Vendors", "external vendors", "truck", nil)
	require.NoError(t, err)
	assert.Equal(t, "Vendors", updated.Name)
	assert.Equal(t, "truck", updated.Icon)
	assert.Equal(t, "supplier", updated.EntityCode)
}

func TestDeleteDefinitionProtectsSystem(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	sys := &models.EntityDefinition{Name: "Patients", EntityCode: "patient", IsSystem: true}
	require.NoError(t, db.Create(sys).Error)

	assert.ErrorIs(t, svc.DeleteDefinition(sys.ID), ErrSystemDefinition)
}

func TestAddFieldNormalizesAndOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	def := &models.EntityDefinition{Name: "Suppliers", EntityCode: "supplier"}
	require.NoError(t, svc.CreateDefinition(def))

	first, err := svc.AddField(def.ID, "Name", "  Name ", domain.FieldTypeText, true, false)
	require.NoError(t, err)
	assert.Equal(t, "name", first.SystemName)
	assert.Equal(t, 1, first.SortOrder)

	second, err := svc.AddField(def.ID, "Rating", "rating", "", false, false)
	require.NoError(t, err)
	// Blank data type falls back to text.
	assert.Equal(t, domain.FieldTypeText, second.DataType)
	assert.Equal(t, 2, second.SortOrder)

	_, err = svc.AddField(def.ID, "Broken", "   ", domain.FieldTypeText, false, false)
	assert.ErrorIs(t, err, ErrSystemNameRequired)
}

func TestRemoveFieldLeavesSortOrderGaps(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)

	def := &models.EntityDefinition{Name: "Suppliers", EntityCode: "supplier"}
	require.NoError(t, svc.CreateDefinition(def))
	a, err := svc.AddField(def.ID, "A", "a", domain.FieldTypeText, false, false)
	require.NoError(t, err)
	_, err = svc.AddField(def.ID, "B", "b", domain.FieldTypeText, false, false)
	require.NoError(t, err)

	defID, err := svc.RemoveField(a.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, defID)

	// The next field takes count+1, it does not reuse the freed slot.
	c, err := svc.AddField(def.ID, "C", "c", domain.FieldTypeText, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, c.SortOrder)
}

func TestCompactPropertiesStripsOrphanedKeys(t *testing.T) {
	db := newTestDB(t)
	svc := newMetadataService(db)
	records := newRecordService(t, db)

	def := seedDefinition(t, db, "supplier", textField("name", false), textField("fax", false))
	rec, _, err := records.Save("supplier", nil, Form{Values: map[string][]string{
		"name": {"Acme"},
		"fax":  {"555-9999"},
	}})
	require.NoError(t, err)
	clean, _, err := records.Save("supplier", nil, Form{Values: map[string][]string{
		"name": {"Globex"},
	}})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.FieldDefinition{}, "entity_definition_id = ? AND system_name = ?", def.ID, "fax").Error)

	compacted, err := svc.CompactProperties("supplier")
	require.NoError(t, err)
	assert.Equal(t, 1, compacted)

	got, err := records.Get(rec.ID)
	require.NoError(t, err)
	props := dynamic.Decode(got.Properties)
	assert.NotContains(t, props, "fax")
	assert.Equal(t, "Acme", props["name"])

	// Records with no orphaned keys are untouched.
	untouched, err := records.Get(clean.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", dynamic.Decode(untouched.Properties)["name"])
}
