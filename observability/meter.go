package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/opgate/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.WithComponent("telemetry").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// DispatchMetrics holds the instruments recorded by the dispatch engine.
// A nil *DispatchMetrics records nothing.
type DispatchMetrics struct {
	submitted        metric.Int64Counter
	gated            metric.Int64Counter
	reported         metric.Int64Counter
	dropped          metric.Int64Counter
	selectionChanges metric.Int64Counter
	reportLatency    metric.Float64Histogram
}

// NewDispatchMetrics creates the dispatch instruments on the given meter.
func NewDispatchMetrics(meter metric.Meter) (*DispatchMetrics, error) {
	submitted, err := meter.Int64Counter("dispatch.events.submitted",
		metric.WithDescription("Values accepted by the event source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.events.submitted counter: %w", err)
	}

	gated, err := meter.Int64Counter("dispatch.events.gated",
		metric.WithDescription("Values admitted into an operator pipeline by the selection gate"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.events.gated counter: %w", err)
	}

	reported, err := meter.Int64Counter("dispatch.records.reported",
		metric.WithDescription("Log records emitted by the reporter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.records.reported counter: %w", err)
	}

	dropped, err := meter.Int64Counter("dispatch.events.dropped",
		metric.WithDescription("Values rejected because the event source completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.events.dropped counter: %w", err)
	}

	selectionChanges, err := meter.Int64Counter("dispatch.selection.changes",
		metric.WithDescription("Operator selection changes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.selection.changes counter: %w", err)
	}

	reportLatency, err := meter.Float64Histogram("dispatch.report.latency",
		metric.WithDescription("Time from value submission to its log record"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.report.latency histogram: %w", err)
	}

	return &DispatchMetrics{
		submitted:        submitted,
		gated:            gated,
		reported:         reported,
		dropped:          dropped,
		selectionChanges: selectionChanges,
		reportLatency:    reportLatency,
	}, nil
}

// RecordSubmitted counts a value accepted by the event source.
func (m *DispatchMetrics) RecordSubmitted(ctx context.Context) {
	if m == nil {
		return
	}
	m.submitted.Add(ctx, 1)
}

// RecordGated counts a value admitted into the named pipeline.
func (m *DispatchMetrics) RecordGated(ctx context.Context, operator string) {
	if m == nil {
		return
	}
	m.gated.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOperator, operator)))
}

// RecordReported counts a log record and its submission-to-report latency.
func (m *DispatchMetrics) RecordReported(ctx context.Context, pipeline string, latency time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrPipeline, pipeline))
	m.reported.Add(ctx, 1, attrs)
	m.reportLatency.Record(ctx, latency.Seconds(), attrs)
}

// RecordDropped counts a value rejected after completion.
func (m *DispatchMetrics) RecordDropped(ctx context.Context) {
	if m == nil {
		return
	}
	m.dropped.Add(ctx, 1)
}

// RecordSelectionChange counts a selection change to operator.
func (m *DispatchMetrics) RecordSelectionChange(ctx context.Context, operator string) {
	if m == nil {
		return
	}
	m.selectionChanges.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOperator, operator)))
}
