// Package bootstrap orchestrates application lifecycle for opgate binaries.
//
// It applies and validates typed configuration, initializes the logger,
// starts registered components in order, runs startup and shutdown hooks and
// stops components in reverse order on shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(loop)
//	app.RegisterComponent(engine)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return nil
//	})
//	err = app.Run(ctx)
//
// Run blocks until SIGINT/SIGTERM. RunTask runs a finite task, such as an
// interactive console, with the same lifecycle around it.
package bootstrap
