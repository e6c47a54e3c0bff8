// Package observability provides OpenTelemetry tracing and metrics for the
// dispatcher.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("opgate"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanSubmit)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("opgate"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewDispatchMetrics(observability.Meter("opgate"))
//	m.RecordSubmitted(ctx)
//
// The Telemetry component wires both providers into the application lifecycle.
package observability
