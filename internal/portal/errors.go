package portal

import (
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned by both logins without saying which part
// was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FieldError is a problem with one input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned when caller input breaks a rule of the portal.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Error
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

type validator struct {
	fields []FieldError
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) add(field, msg string) {
	v.fields = append(v.fields, FieldError{Field: field, Error: msg})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
