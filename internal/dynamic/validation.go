package dynamic

import "fmt"

// FieldError is one field-level problem keyed by the form/storage key.
type FieldError struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// Validation accumulates field errors across a whole submission so the
// caller can report every problem in one pass.
type Validation struct {
	Errors []FieldError
}

func (v *Validation) Add(key, label, code, message string) {
	v.Errors = append(v.Errors, FieldError{Key: key, Label: label, Code: code, Message: message})
}

func (v *Validation) Ok() bool {
	return len(v.Errors) == 0
}
