package service

import (
	"errors"
	"fmt"
	"strings"
)

// Validation rules reported by ValidationError.
const (
	RuleMissingField = "missing_field"
	RuleInvalidEmail = "invalid_email"
	RuleMissingID    = "missing_id"
)

// ErrNotFound is returned when a mutation targets a message that does not exist.
var ErrNotFound = errors.New("message not found")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Rule   string
	Fields []string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleMissingField:
		return "missing required fields: " + strings.Join(e.Fields, ", ")
	case RuleInvalidEmail:
		return "invalid email format"
	case RuleMissingID:
		return "message id is required"
	}
	return "validation failed: " + e.Rule
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
