// Package component defines the lifecycle interface shared by the
// long-running parts of opgate: the scheduler loop, the SSE hub, the HTTP
// server and telemetry providers.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order.
package component
