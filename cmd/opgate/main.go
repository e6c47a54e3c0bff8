// Command opgate runs the operator dispatcher with an interactive console
// and, when server.enabled is set, the HTTP API and live log stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/opgate/bootstrap"
	"github.com/kbukum/opgate/config"
	"github.com/kbukum/opgate/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "opgate:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile = flag.String("config", "", "path to config file")
		envFile    = flag.String("env", "", "path to .env file")
		operator   = flag.String("operator", "", "initial operator")
		headless   = flag.Bool("headless", false, "serve the HTTP API without the console")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(serviceName, version.Get())
		return nil
	}

	cfg := defaultConfig()
	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	if *operator != "" {
		cfg.Dispatcher.InitialOperator = *operator
	}
	if *headless && !cfg.Server.Enabled {
		return fmt.Errorf("-headless requires server.enabled")
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *headless {
		if _, err := wire(app, nil); err != nil {
			return err
		}
		return app.Run(ctx)
	}

	out := &syncWriter{w: os.Stdout}
	engine, err := wire(app, out)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		return NewConsole(engine, out).Run(ctx, os.Stdin)
	})
}
