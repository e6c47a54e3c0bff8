package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/errors"
	"github.com/kbukum/opgate/validation"
)

const consoleHelp = `commands:
  list            show the operator catalog
  select <name>   route events to operator <name>
  next [value]    submit a value (defaults to the last one, initially 1)
  complete        complete the event source
  help            show this help
  quit            exit
`

// Console drives an Engine from line-oriented input.
type Console struct {
	engine *dispatch.Engine
	out    io.Writer
	last   float64
}

// NewConsole creates a console writing replies to out.
func NewConsole(engine *dispatch.Engine, out io.Writer) *Console {
	return &Console{engine: engine, out: out, last: 1}
}

// Run reads commands from in until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	fmt.Fprint(c.out, "type 'help' for commands\n> ")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if !c.exec(ctx, line) {
				return nil
			}
			fmt.Fprint(c.out, "> ")
		}
	}
}

// exec runs one command line and reports whether the console should continue.
func (c *Console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "list", "ls":
		c.list()
	case "select", "sel":
		if len(args) == 0 {
			fmt.Fprintln(c.out, "usage: select <name>")
			return true
		}
		name := strings.Join(args, " ")
		if err := validation.Check().OperatorName(name).Err(); err != nil {
			c.fail(err)
			return true
		}
		if err := c.engine.SelectOperator(ctx, name); err != nil {
			c.fail(err)
			return true
		}
		fmt.Fprintf(c.out, "selected %s\n", c.engine.Selected().Label)
	case "next", "n":
		v := c.last
		if len(args) > 0 {
			parsed, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fmt.Fprintf(c.out, "error: %q is not a number\n", args[0])
				return true
			}
			v = parsed
		}
		if err := c.engine.SubmitValue(ctx, v); err != nil {
			c.fail(err)
			return true
		}
		c.last = v
	case "complete":
		if err := c.engine.Complete(ctx); err != nil {
			c.fail(err)
			return true
		}
		fmt.Fprintln(c.out, "source completed")
	case "help", "?":
		fmt.Fprint(c.out, consoleHelp)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (c *Console) list() {
	selected := c.engine.Selected().Name
	for _, d := range c.engine.Descriptors() {
		marker := " "
		if d.Name == selected {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %-22s %s\n", marker, d.Name, d.Label)
	}
}

func (c *Console) fail(err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		fmt.Fprintf(c.out, "error: %s\n", appErr.Message)
		return
	}
	fmt.Fprintf(c.out, "error: %v\n", err)
}

// syncWriter serializes writes from the console and the record sink.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
