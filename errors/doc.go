// Package errors provides the structured error type shared by the
// dispatcher, its HTTP surface and the console.
//
// Every failure carries a machine-readable ErrorCode, a human-readable
// message, an HTTP status and optional details. The operator taxonomy is:
//
//   - UNKNOWN_OPERATOR: a selection or lookup named an operator that is not
//     in the catalog; returned synchronously, running pipelines are unaffected
//   - DUPLICATE_OPERATOR_NAME: the catalog was built with a repeated name;
//     fatal at startup
//   - SIMULATED_FAILURE: raised inside the catchError pipeline only and
//     converted into a forwarded value there
//   - SOURCE_COMPLETED: a value was submitted after complete()
package errors
