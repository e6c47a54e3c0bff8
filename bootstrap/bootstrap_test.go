package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/config"
	"github.com/kbukum/opgate/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "start "+m.name)
	}
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "stop "+m.name)
	}
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) component.Health {
	if m.health.Name == "" {
		return component.Health{Name: m.name, Status: component.StatusHealthy}
	}
	return m.health
}

func (m *mockComponent) Describe() component.Description {
	return component.Description{Name: "Mock " + m.name, Type: "mock", Details: "details", Port: 9000}
}

func newTestConfig(name string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     "1.0.0",
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, summary io.Writer) *App[*testConfig] {
	t.Helper()
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", io.Discard)
	app, err := NewApp(newTestConfig("test-svc"),
		WithLogger(log),
		WithGracefulTimeout(time.Second),
		WithSummaryOutput(summary),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, io.Discard)
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Fatal("expected registry, logger and summary")
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected typed cfg, got name %q", app.Cfg.Name)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
}

func TestNewAppValidatesConfig(t *testing.T) {
	if _, err := NewApp(newTestConfig("")); err == nil {
		t.Fatal("expected validation error for empty name")
	}

	cfg := newTestConfig("svc")
	cfg.Environment = "moon"
	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t, io.Discard)
	var events []string

	_ = app.RegisterComponent(&mockComponent{name: "scheduler", events: &events})
	_ = app.RegisterComponent(&mockComponent{name: "dispatcher", events: &events})

	app.OnStart(func(context.Context) error {
		events = append(events, "onStart")
		return nil
	})
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure "+a.Cfg.Name)
		return nil
	})
	app.OnReady(func(context.Context) error {
		events = append(events, "onReady")
		return nil
	})
	app.OnStop(func(context.Context) error {
		events = append(events, "onStop")
		return nil
	})

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{
		"start scheduler", "start dispatcher",
		"onStart", "configure test-svc", "onReady",
		"task",
		"onStop", "stop dispatcher", "stop scheduler",
	}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events =\n%v\nwant\n%v", events, want)
	}
}

func TestRunTaskReturnsTaskError(t *testing.T) {
	app := newTestApp(t, io.Discard)
	boom := errors.New("boom")

	err := app.RunTask(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("RunTask error = %v, want boom", err)
	}
}

func TestStartupFailureStopsStartedComponents(t *testing.T) {
	app := newTestApp(t, io.Discard)
	var events []string
	_ = app.RegisterComponent(&mockComponent{name: "a", events: &events})
	_ = app.RegisterComponent(&mockComponent{name: "b", events: &events, startErr: errors.New("nope")})

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected startup error")
	}
	if ran {
		t.Error("task ran after failed startup")
	}
	if events[len(events)-1] != "stop a" {
		t.Errorf("events = %v, want a stopped", events)
	}
}

func TestConfigureErrorAborts(t *testing.T) {
	app := newTestApp(t, io.Discard)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error {
		return errors.New("bad wiring")
	})
	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newTestApp(t, io.Discard)
	var events []string
	_ = app.RegisterComponent(&mockComponent{name: "a", events: &events})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if events[len(events)-1] != "stop a" {
		t.Errorf("events = %v", events)
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t, io.Discard)
	_ = app.RegisterComponent(&mockComponent{name: "ok"})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Fatalf("ReadyCheck: %v", err)
	}

	_ = app.RegisterComponent(&mockComponent{
		name:   "bad",
		health: component.Health{Name: "bad", Status: component.StatusDegraded, Message: "completed"},
	})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad=degraded(completed)") {
		t.Errorf("ReadyCheck err = %v", err)
	}
}

func TestSummaryWrite(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(t, &buf)
	_ = app.RegisterComponent(&mockComponent{name: "dispatcher"})
	app.Summary.TrackOperators([]string{"map", "filter"}, "filter")
	app.Summary.TrackRoute("GET", "/api/operators", "api.listOperators")

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"test-svc v1.0.0",
		"Mock dispatcher: details (:9000)",
		"Operators (2)",
		"filter ◀ selected",
		"/api/operators",
		"All components healthy (1/1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
