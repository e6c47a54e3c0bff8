package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kbukum/opgate/errors"
)

// MaxOperatorName bounds the operator names accepted from clients.
const MaxOperatorName = 64

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Input collects field errors for values entering the dispatcher.
type Input struct {
	fields []FieldError
}

// Check starts an empty input check.
func Check() *Input {
	return &Input{}
}

func (in *Input) fail(field, message string) *Input {
	in.fields = append(in.fields, FieldError{Field: field, Message: message})
	return in
}

// OperatorName checks a name before it is looked up in the catalog. Only
// the shape is checked here; unknown names are left to the catalog.
func (in *Input) OperatorName(name string) *Input {
	switch {
	case strings.TrimSpace(name) == "":
		return in.fail("operator", "is required")
	case len(name) > MaxOperatorName:
		return in.fail("operator", fmt.Sprintf("must be %d characters or less", MaxOperatorName))
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return in.fail("operator", "must not contain whitespace")
	}
	return in
}

// Value checks a submitted event value. NaN and infinities never enter the
// event source.
func (in *Input) Value(v float64) *Input {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return in.fail("value", "must be a finite number")
	}
	return in
}

// Fields returns the collected errors in check order.
func (in *Input) Fields() []FieldError {
	return in.fields
}

// Err returns an INVALID_INPUT error listing every failed field, or nil.
func (in *Input) Err() *errors.AppError {
	if len(in.fields) == 0 {
		return nil
	}
	parts := make([]string, len(in.fields))
	for i, f := range in.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).
		WithDetails(map[string]any{"fields": in.fields})
}
