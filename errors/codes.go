package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the dispatcher is not running.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeRateLimited indicates the caller exceeded its request budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Operator errors
const (
	// ErrCodeUnknownOperator indicates a name that is not in the catalog.
	ErrCodeUnknownOperator ErrorCode = "UNKNOWN_OPERATOR"
	// ErrCodeDuplicateOperator indicates two catalog entries share a name.
	ErrCodeDuplicateOperator ErrorCode = "DUPLICATE_OPERATOR_NAME"
	// ErrCodeSimulatedFailure is raised by the catchError operator for every input.
	ErrCodeSimulatedFailure ErrorCode = "SIMULATED_FAILURE"
	// ErrCodeSourceCompleted indicates a value submitted after completion.
	ErrCodeSourceCompleted ErrorCode = "SOURCE_COMPLETED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeRateLimited:        true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
