package dynamic

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"medbase/internal/domain"
	"medbase/internal/models"

	"github.com/shopspring/decimal"
)

// Result holds the outcome of coercing one submission: values to write into
// the property bag and keys to remove from it. Keys absent from both maps
// were not part of the submission and must stay untouched on merge.
type Result struct {
	Changes map[string]any
	Clears  []string
}

func NewResult() Result {
	return Result{Changes: map[string]any{}}
}

type coerceFn func(f *models.FieldDefinition, raw string) (any, error)

// coercers dispatches on the declared data type. File fields are staged by
// the filestore, never coerced here; anything unrecognized is plain text.
var coercers = map[domain.FieldDataType]coerceFn{
	domain.FieldTypeNumber:   coerceNumber,
	domain.FieldTypeMoney:    coerceNumber,
	domain.FieldTypeDate:     coerceDate,
	domain.FieldTypeDateTime: coerceDate,
	domain.FieldTypeBoolean:  coerceBool,
	domain.FieldTypeText:     coerceText,
}

// Coerce converts one raw form value into the typed value declared by the
// field definition.
func Coerce(f *models.FieldDefinition, raw string) (any, error) {
	fn, ok := coercers[f.DataType]
	if !ok {
		fn = coerceText
	}
	return fn(f, raw)
}

func coerceText(f *models.FieldDefinition, raw string) (any, error) {
	return raw, nil
}

// coerceNumber accepts both "." and "," as decimal separator.
func coerceNumber(f *models.FieldDefinition, raw string) (any, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, fmt.Errorf("value %q is not a valid number for field %q (%s)", raw, f.Label, f.SystemName)
	}
	return json.Number(d.String()), nil
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	time.RFC3339,
}

func coerceDate(f *models.FieldDefinition, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if f.DataType == domain.FieldTypeDate {
				return t.Format("2006-01-02"), nil
			}
			return t.Format("2006-01-02T15:04:05"), nil
		}
	}
	return nil, fmt.Errorf("value %q is not a valid date for field %q (%s)", raw, f.Label, f.SystemName)
}

// coerceBool never fails: the value is true iff the raw string contains
// "true" in any casing. Lenient by contract with the form layer.
func coerceBool(f *models.FieldDefinition, raw string) (any, error) {
	return strings.Contains(strings.ToLower(raw), "true"), nil
}

// CoerceForm runs the whole field catalog against a form payload, skipping
// file-typed fields. prior is the already-stored bag (nil on create): a
// required field left out of the submission is satisfied by its stored
// value. Errors accumulate in v; coercion continues past them so one pass
// reports every problem.
func CoerceForm(fields []models.FieldDefinition, values map[string][]string, prior map[string]any, v *Validation) Result {
	res := NewResult()
	for i := range fields {
		f := &fields[i]
		if f.DataType == domain.FieldTypeFile {
			continue
		}
		raws, present := values[f.SystemName]
		supplied := anyNonBlank(raws)

		if f.IsRequired && !supplied {
			if !HasValue(prior[f.SystemName]) {
				v.Add(f.SystemName, f.Label, domain.ErrCodeMissingRequired,
					fmt.Sprintf("field %q (%s) is required", f.Label, f.SystemName))
			}
			continue
		}
		if !supplied {
			if present {
				// Explicit blank on a non-required field clears the stored value.
				res.Clears = append(res.Clears, f.SystemName)
			}
			continue
		}

		if f.IsArray {
			out := make([]any, 0, len(raws))
			for _, raw := range raws {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				val, err := Coerce(f, raw)
				if err != nil {
					v.Add(f.SystemName, f.Label, domain.ErrCodeInvalidValue, err.Error())
					continue
				}
				out = append(out, val)
			}
			if len(out) > 0 {
				res.Changes[f.SystemName] = out
			}
			continue
		}

		val, err := Coerce(f, firstNonBlank(raws))
		if err != nil {
			v.Add(f.SystemName, f.Label, domain.ErrCodeInvalidValue, err.Error())
			continue
		}
		res.Changes[f.SystemName] = val
	}
	return res
}

// HasValue reports whether a stored bag entry counts as filled for the
// required-field check.
func HasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func anyNonBlank(raws []string) bool {
	for _, r := range raws {
		if strings.TrimSpace(r) != "" {
			return true
		}
	}
	return false
}

func firstNonBlank(raws []string) string {
	for _, r := range raws {
		if strings.TrimSpace(r) != "" {
			return r
		}
	}
	return ""
}
