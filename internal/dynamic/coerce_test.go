package dynamic

import (
	"encoding/json"
	"testing"

	"medbase/internal/domain"
	"medbase/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(name string, dt domain.FieldDataType) *models.FieldDefinition {
	return &models.FieldDefinition{SystemName: name, Label: name, DataType: dt}
}

func TestCoerceNumberCommaSeparator(t *testing.T) {
	got, err := Coerce(field("price", domain.FieldTypeNumber), "12,5")
	require.NoError(t, err)
	assert.Equal(t, json.Number("12.5"), got)

	got, err = Coerce(field("price", domain.FieldTypeMoney), " 1200.00 ")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1200"), got)
}

func TestCoerceNumberInvalid(t *testing.T) {
	_, err := Coerce(field("price", domain.FieldTypeNumber), "twelve")
	assert.Error(t, err)
}

func TestCoerceDateLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		dt   domain.FieldDataType
		want string
	}{
		{"2024-03-01", domain.FieldTypeDate, "2024-03-01"},
		{"01.03.2024", domain.FieldTypeDate, "2024-03-01"},
		{"2024-03-01T14:30", domain.FieldTypeDateTime, "2024-03-01T14:30:00"},
		{"01.03.2024 14:30", domain.FieldTypeDateTime, "2024-03-01T14:30:00"},
	}
	for _, tc := range cases {
		got, err := Coerce(field("when", tc.dt), tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := Coerce(field("when", domain.FieldTypeDate), "not a date")
	assert.Error(t, err)
}

func TestCoerceBoolLenient(t *testing.T) {
	cases := map[string]bool{
		"true":        true,
		"TRUE please": true,
		"false":       false,
		"":            false,
		"yes":         false,
	}
	for raw, want := range cases {
		got, err := Coerce(field("flag", domain.FieldTypeBoolean), raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, "raw %q", raw)
	}
}

func TestCoerceFormRequiredMissing(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "name", Label: "Name", DataType: domain.FieldTypeText, IsRequired: true},
		{SystemName: "age", Label: "Age", DataType: domain.FieldTypeNumber},
	}
	var v Validation
	res := CoerceForm(fields, map[string][]string{
		"name": {"  ", ""},
		"age":  {"41"},
	}, nil, &v)

	// Blank values on a required field produce exactly one error for it.
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "name", v.Errors[0].Key)
	assert.Equal(t, domain.ErrCodeMissingRequired, v.Errors[0].Code)

	// The rest of the submission still coerces.
	assert.Equal(t, json.Number("41"), res.Changes["age"])
	assert.NotContains(t, res.Changes, "name")
}

func TestCoerceFormRequiredSatisfiedByStoredValue(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "name", Label: "Name", DataType: domain.FieldTypeText, IsRequired: true},
	}

	// On an edit, a required field missing from the form falls back to the
	// stored value instead of erroring.
	var v Validation
	res := CoerceForm(fields, map[string][]string{}, map[string]any{"name": "Acme"}, &v)
	assert.True(t, v.Ok())
	assert.Empty(t, res.Changes)
	assert.Empty(t, res.Clears)

	// A blank stored value does not satisfy the requirement.
	v = Validation{}
	CoerceForm(fields, map[string][]string{}, map[string]any{"name": ""}, &v)
	assert.Len(t, v.Errors, 1)
}

func TestCoerceFormClearVersusAbsent(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "phone", Label: "Phone", DataType: domain.FieldTypeText},
		{SystemName: "note", Label: "Note", DataType: domain.FieldTypeText},
	}
	var v Validation
	res := CoerceForm(fields, map[string][]string{
		"phone": {""}, // supplied blank: explicit clear
		// "note" absent entirely: untouched
	}, nil, &v)

	require.True(t, v.Ok())
	assert.Equal(t, []string{"phone"}, res.Clears)
	assert.Empty(t, res.Changes)
}

func TestCoerceFormArrayField(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "phones", Label: "Phones", DataType: domain.FieldTypeText, IsArray: true},
	}
	var v Validation
	res := CoerceForm(fields, map[string][]string{
		"phones": {"555-0101", "", "555-0102"},
	}, nil, &v)

	require.True(t, v.Ok())
	assert.Equal(t, []any{"555-0101", "555-0102"}, res.Changes["phones"])
}

func TestCoerceFormAccumulatesErrors(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "budget", Label: "Budget", DataType: domain.FieldTypeMoney},
		{SystemName: "opened", Label: "Opened", DataType: domain.FieldTypeDate},
	}
	var v Validation
	CoerceForm(fields, map[string][]string{
		"budget": {"lots"},
		"opened": {"someday"},
	}, nil, &v)

	assert.Len(t, v.Errors, 2)
}

func TestCoerceFormSkipsFileFields(t *testing.T) {
	fields := []models.FieldDefinition{
		{SystemName: "scan", Label: "Scan", DataType: domain.FieldTypeFile, IsRequired: true},
	}
	var v Validation
	res := CoerceForm(fields, map[string][]string{}, nil, &v)

	// File fields are the filestore's concern, even when required.
	assert.True(t, v.Ok())
	assert.Empty(t, res.Changes)
}
