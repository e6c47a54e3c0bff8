package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/opgate/component"
)

// Telemetry owns the meter and tracer providers for the process lifetime.
type Telemetry struct {
	cfg         Config
	service     string
	version     string
	environment string

	mu      sync.Mutex
	meter   *sdkmetric.MeterProvider
	tracer  *sdktrace.TracerProvider
	started bool
}

// ensure Telemetry satisfies component.Component and component.Describable.
var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// NewTelemetry creates the telemetry component.
func NewTelemetry(cfg Config, service, version, environment string) *Telemetry {
	cfg.ApplyDefaults()
	return &Telemetry{cfg: cfg, service: service, version: version, environment: environment}
}

// Name returns the component name.
func (t *Telemetry) Name() string { return "telemetry" }

// Start initializes the enabled providers. Disabled providers leave the
// global otel no-op implementations in place.
func (t *Telemetry) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, t.cfg.MeterConfig(t.service, t.version, t.environment))
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.meter = mp
	}
	if t.cfg.TracingEnabled {
		tp, err := InitTracer(ctx, t.cfg.TracerConfig(t.service, t.version, t.environment))
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.tracer = tp
	}
	t.started = true
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.meter != nil {
		errs = append(errs, t.meter.Shutdown(ctx))
		t.meter = nil
	}
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
		t.tracer = nil
	}
	t.started = false
	return errors.Join(errs...)
}

// Health reports whether the component has been started.
func (t *Telemetry) Health(_ context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return component.Health{Name: t.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}

// Describe returns a summary for the startup log.
func (t *Telemetry) Describe() component.Description {
	return component.Description{
		Name: "Telemetry",
		Type: "telemetry",
		Details: fmt.Sprintf("endpoint=%s metrics=%t tracing=%t",
			t.cfg.Endpoint, t.cfg.MetricsEnabled, t.cfg.TracingEnabled),
	}
}
