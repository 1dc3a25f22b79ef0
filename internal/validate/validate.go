// Package validate implements a small fluent rule builder for request
// fields, collecting pass/fail results plus user-facing messages.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator accumulates per-field failure messages.
type Validator struct {
	order  []string
	errors map[string][]string
}

// New constructs an empty validator.
func New() *Validator {
	return &Validator{errors: make(map[string][]string)}
}

// Field starts a rule chain for the named field.
func (v *Validator) Field(name string, value any) *FieldRules {
	return &FieldRules{validator: v, name: name, value: value}
}

// Valid reports whether no rule has failed.
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the failure messages per field, in field registration order.
func (v *Validator) Errors() map[string][]string {
	out := make(map[string][]string, len(v.errors))
	for field, messages := range v.errors {
		out[field] = append([]string(nil), messages...)
	}
	return out
}

// FieldNames returns the fields with at least one failure, in the order the
// failures were recorded.
func (v *Validator) FieldNames() []string {
	return append([]string(nil), v.order...)
}

func (v *Validator) fail(field, message string) {
	if _, seen := v.errors[field]; !seen {
		v.order = append(v.order, field)
	}
	v.errors[field] = append(v.errors[field], message)
}

// FieldRules is a chain of rules applied to a single field value.
type FieldRules struct {
	validator *Validator
	name      string
	value     any
}

func (f *FieldRules) fail(format string, args ...any) *FieldRules {
	f.validator.fail(f.name, fmt.Sprintf(format, args...))
	return f
}

func (f *FieldRules) isEmpty() bool {
	switch value := f.value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []any:
		return len(value) == 0
	default:
		return false
	}
}

// Required fails when the value is nil, an empty/blank string, or an empty list.
func (f *FieldRules) Required() *FieldRules {
	if f.isEmpty() {
		return f.fail("%s is required", f.name)
	}
	return f
}

// String fails when a present value is not a string.
func (f *FieldRules) String() *FieldRules {
	if f.value == nil {
		return f
	}
	if _, ok := f.value.(string); !ok {
		return f.fail("%s must be a string", f.name)
	}
	return f
}

// Number fails when a present value is not numeric. JSON numbers decode as
// float64; numeric strings are accepted for form-encoded callers.
func (f *FieldRules) Number() *FieldRules {
	if f.value == nil {
		return f
	}
	switch value := f.value.(type) {
	case float64, float32, int, int32, int64:
		return f
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return f.fail("%s must be a number", f.name)
		}
		return f
	default:
		return f.fail("%s must be a number", f.name)
	}
}

// Positive fails when a numeric value is present but not greater than zero.
func (f *FieldRules) Positive() *FieldRules {
	if f.value == nil {
		return f
	}
	if number, ok := asFloat(f.value); ok && number <= 0 {
		return f.fail("%s must be greater than zero", f.name)
	}
	return f
}

// MinLen fails when a string value is shorter than n characters.
func (f *FieldRules) MinLen(n int) *FieldRules {
	if value, ok := f.value.(string); ok && len(strings.TrimSpace(value)) < n {
		return f.fail("%s must be at least %d characters", f.name, n)
	}
	return f
}

// MaxLen fails when a string value is longer than n characters.
func (f *FieldRules) MaxLen(n int) *FieldRules {
	if value, ok := f.value.(string); ok && len(value) > n {
		return f.fail("%s must be at most %d characters", f.name, n)
	}
	return f
}

// Email fails when a non-empty string value is not a plausible email address.
func (f *FieldRules) Email() *FieldRules {
	value, ok := f.value.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return f
	}
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return f.fail("%s must be a valid email address", f.name)
	}
	return f
}

func asFloat(value any) (float64, bool) {
	switch number := value.(type) {
	case float64:
		return number, true
	case float32:
		return float64(number), true
	case int:
		return float64(number), true
	case int32:
		return float64(number), true
	case int64:
		return float64(number), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
