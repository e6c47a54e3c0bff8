package main

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/opgate/api"
	"github.com/kbukum/opgate/bootstrap"
	"github.com/kbukum/opgate/catalog"
	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/observability"
	"github.com/kbukum/opgate/scheduler"
	"github.com/kbukum/opgate/server"
	"github.com/kbukum/opgate/server/endpoint"
	"github.com/kbukum/opgate/server/middleware"
	"github.com/kbukum/opgate/sse"
)

// wire builds every component and registers them with app in start order:
// telemetry, scheduler, dispatcher, then the SSE hub and HTTP server when
// the server is enabled. records receives the formatted log records; when
// nil they go to the reporter logger.
func wire(app *bootstrap.App[*AppConfig], records io.Writer) (*dispatch.Engine, error) {
	cfg := app.Cfg

	telemetry := observability.NewTelemetry(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	metrics, err := observability.NewDispatchMetrics(observability.Meter(serviceName))
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Default(cfg.Dispatcher.CatalogParams())
	if err != nil {
		return nil, err
	}
	loop := scheduler.NewLoop(
		scheduler.WithQueueSize(cfg.Dispatcher.QueueSize),
		scheduler.WithLogger(app.Logger.WithComponent("scheduler")),
	)

	opts := []dispatch.Option{
		dispatch.WithInitialOperator(cfg.Dispatcher.InitialOperator),
		dispatch.WithMetrics(metrics),
		dispatch.WithLogger(app.Logger.WithComponent("dispatcher")),
	}
	if records != nil {
		opts = append(opts, dispatch.WithSink(dispatch.NewWriterSink(records)))
	} else {
		opts = append(opts, dispatch.WithSink(dispatch.NewLoggerSink(app.Logger.WithComponent("reporter"))))
	}

	var hub *sse.Component
	if cfg.Server.Enabled {
		hub = sse.NewComponent("/api/logs")
		opts = append(opts, dispatch.WithSink(sse.NewRecordSink(hub.Hub())))
	}

	engine, err := dispatch.NewEngine(cat, loop, opts...)
	if err != nil {
		return nil, err
	}

	if err := register(app, telemetry, loop, engine); err != nil {
		return nil, err
	}
	app.Summary.TrackOperators(engine.OperatorNames(), engine.Selected().Name)

	if hub == nil {
		return engine, nil
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(endpoint.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, app.Components.HealthAll, engine)

	var guards []gin.HandlerFunc
	if cfg.Server.RateLimit > 0 {
		guards = append(guards, middleware.GinWrap(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimit,
		})))
	}
	api.NewHandler(engine, hub.Hub(), app.Logger).Register(srv.GinEngine(), guards...)

	for _, r := range srv.Routes() {
		app.Summary.TrackRoute(r.Method, r.Path, r.Handler)
	}
	srv.LogRoutes()

	if err := register(app, hub, server.NewComponent(srv)); err != nil {
		return nil, err
	}
	return engine, nil
}

func register(app *bootstrap.App[*AppConfig], components ...component.Component) error {
	for _, c := range components {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}
	return nil
}
