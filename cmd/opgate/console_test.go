package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/opgate/scheduler"
	"github.com/kbukum/opgate/testutil"
)

func newConsole(t *testing.T, initial string) (*Console, *bytes.Buffer, *testutil.Recorder, *scheduler.Virtual) {
	t.Helper()
	clock := scheduler.NewVirtual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := testutil.NewRecorder()
	eng := testutil.NewEngine(t, clock, rec, initial)
	out := &bytes.Buffer{}
	return NewConsole(eng, out), out, rec, clock
}

func runScript(t *testing.T, c *Console, script string) {
	t.Helper()
	if err := c.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestConsoleNextDefaultsToLastValue(t *testing.T) {
	c, _, rec, _ := newConsole(t, "map")

	runScript(t, c, "next\nnext 4\nnext\n")

	got := rec.Afters()
	want := []string{"5", "20", "20"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("afters = %v, want %v", got, want)
	}
}

func TestConsoleSelect(t *testing.T) {
	c, out, rec, _ := newConsole(t, "map")

	runScript(t, c, "select filter\nnext 1\nnext 2\nselect nope\n")

	if got := rec.Afters(); len(got) != 1 || got[0] != "2" {
		t.Errorf("afters = %v, want [2]", got)
	}
	if recs := rec.Records(); len(recs) == 1 && recs[0].Operator != "filter" {
		t.Errorf("operator = %q, want filter", recs[0].Operator)
	}
	text := out.String()
	if !strings.Contains(text, "selected filter(fn)") {
		t.Errorf("missing selection reply:\n%s", text)
	}
	if !strings.Contains(text, "error: ") || !strings.Contains(text, "nope") {
		t.Errorf("missing unknown operator error:\n%s", text)
	}
}

func TestConsoleSelectRejectsMalformedName(t *testing.T) {
	c, out, _, _ := newConsole(t, "map")

	runScript(t, c, "select\nselect switch map\nselect "+strings.Repeat("x", 65)+"\n")

	text := out.String()
	for _, want := range []string{
		"usage: select <name>",
		"error: operator: must not contain whitespace",
		"error: operator: must be 64 characters or less",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if got := c.engine.Selected().Name; got != "map" {
		t.Errorf("selection changed to %q", got)
	}
}

func TestConsoleList(t *testing.T) {
	c, out, _, _ := newConsole(t, "pluck")

	runScript(t, c, "list\n")

	text := out.String()
	if !strings.Contains(text, "* pluck") {
		t.Errorf("selected operator not marked:\n%s", text)
	}
	if !strings.Contains(text, "withLatestFrom(observable$)") {
		t.Errorf("labels missing:\n%s", text)
	}
}

func TestConsoleComplete(t *testing.T) {
	c, out, rec, clock := newConsole(t, "delay")

	runScript(t, c, "next 3\ncomplete\nnext 4\ncomplete\n")
	clock.Advance(2 * time.Second)

	if got := rec.Afters(); len(got) != 1 || got[0] != "3" {
		t.Errorf("afters = %v, want [3]", got)
	}
	text := out.String()
	if strings.Count(text, "source completed") != 1 {
		t.Errorf("expected exactly one completion reply:\n%s", text)
	}
	if strings.Count(text, "error: ") != 2 {
		t.Errorf("expected errors for submit and second complete:\n%s", text)
	}
}

func TestConsoleInputErrors(t *testing.T) {
	c, out, rec, _ := newConsole(t, "map")

	runScript(t, c, "next abc\nselect\nfrobnicate\n\nhelp\n")

	if rec.Len() != 0 {
		t.Errorf("recorded %d records for invalid input", rec.Len())
	}
	text := out.String()
	for _, want := range []string{`"abc" is not a number`, "usage: select <name>", `unknown command "frobnicate"`, "commands:"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestConsoleQuitStopsReading(t *testing.T) {
	c, _, rec, _ := newConsole(t, "map")

	runScript(t, c, "next 1\nquit\nnext 2\n")

	if rec.Len() != 1 {
		t.Errorf("recorded %d records, want 1", rec.Len())
	}
}

func TestConsoleContextCancel(t *testing.T) {
	c, _, _, _ := newConsole(t, "map")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Run(ctx, strings.NewReader("")); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestAppConfigDefaults(t *testing.T) {
	cfg := defaultConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Dispatcher.FilterThreshold != 1 || cfg.Dispatcher.TakeCount != 3 {
		t.Errorf("dispatcher defaults lost: %+v", cfg.Dispatcher)
	}
	if cfg.Server.Enabled {
		t.Error("server should be disabled by default")
	}
}
