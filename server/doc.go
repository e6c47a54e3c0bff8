// Package server provides the HTTP server for opgate: a Gin engine behind
// a ServeMux, served over HTTP/1.1 and h2c on one port, with lifecycle
// management through the component registry.
//
// # Middleware
//
// Built-in middleware (server/middleware) wraps the whole mux:
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - CORS: Cross-origin resource sharing configuration
//   - BodySize: Request body size limits
//   - Logging: Request logging with duration tracking
//   - RateLimit: Per-client sliding-window limiting, applied per route
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component rollup plus the selected operator; degraded once
//     the event source has completed
//   - /alive: 503 when the scheduler loop stops running callbacks
//   - /ready: 503 while any component is unhealthy
//   - /info: Service information
//   - /version: build identity
//   - /metrics: dispatcher counters and runtime figures
package server
