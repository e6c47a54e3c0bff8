// Package api exposes the dispatcher over HTTP.
//
//	GET  /api/operators  catalog entries in order
//	GET  /api/selection  the active operator
//	PUT  /api/selection  {"operator": "map"}
//	POST /api/events     {"value": 4}
//	POST /api/complete   terminate the event source
//	GET  /api/status     whether the source has completed
//	GET  /api/logs       log records as Server-Sent Events
//
// Errors use the errors.ErrorResponse envelope with the AppError status.
package api
