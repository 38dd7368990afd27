package common

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single invalid form field.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError aggregates every violated field of a submission so the
// form layer can render all messages inline at once.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation for the given field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Violations = append(e.Violations, FieldViolation{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasViolations reports whether any field failed validation.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// Fields returns the violations keyed by field name, one message per field.
func (e *ValidationError) Fields() map[string]string {
	m := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := m[v.Field]; !ok {
			m[v.Field] = v.Message
		}
	}
	return m
}
