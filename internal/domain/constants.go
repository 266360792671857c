package domain

// FieldDataType is the closed set of data types a field definition may
// declare. Coercion dispatches on it; an unrecognized tag falls back to
// plain text pass-through.
type FieldDataType string

const (
	FieldTypeText     FieldDataType = "text"
	FieldTypeNumber   FieldDataType = "number"
	FieldTypeMoney    FieldDataType = "money"
	FieldTypeDate     FieldDataType = "date"
	FieldTypeDateTime FieldDataType = "datetime"
	FieldTypeBoolean  FieldDataType = "boolean"
	FieldTypeFile     FieldDataType = "file"
)

// Entity codes of the system definitions seeded at startup.
const (
	EntityEmployee   = "Employee"
	EntityPatient    = "Patient"
	EntityPosition   = "Position"
	EntityDepartment = "Department"
)

const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

// Field-level validation error codes.
const (
	ErrCodeMissingRequired = "missing_required_field"
	ErrCodeInvalidValue    = "invalid_field_value"
	ErrCodeFileTooLarge    = "file_too_large"
	ErrCodeIOFailure       = "io_failure"
)
