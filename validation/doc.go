// Package validation provides input validation for configuration structs and
// HTTP request bodies.
//
// Struct tag validation wraps go-playground/validator:
//
//	type selectRequest struct {
//	    Operator string `json:"operator" validate:"required,max=64"`
//	}
//	err := validation.Validate(req)
//
// Dispatcher inputs are checked programmatically:
//
//	in := validation.Check().OperatorName(name).Value(x)
//	if appErr := in.Err(); appErr != nil { ... }
package validation
