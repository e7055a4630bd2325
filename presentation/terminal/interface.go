package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pageprism/application/pom"

	"github.com/sirupsen/logrus"
)

const help = `Commands:
  load [key=value ...]   expand the url template and navigate
  url                    print the current address
  loaded                 check whether the page is loaded
  assert-loaded          fail unless the page is loaded
  wait-loaded [secs]     poll until the page is loaded
  ready [secs]           poll until document.readyState is complete
  fields                 list declared fields
  methods                list generated operations
  <operation> [secs]     run a generated operation, e.g. has_title
  help                   show this text
  quit                   leave the shell`

type TerminalInterface struct {
	page    *pom.Page
	logger  logrus.FieldLogger
	scanner *bufio.Scanner
	out     io.Writer
	timeout time.Duration
}

// NewTerminalInterface - creates a shell over a page instance
func NewTerminalInterface(page *pom.Page, in io.Reader, out io.Writer, logger logrus.FieldLogger, timeout time.Duration) *TerminalInterface {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TerminalInterface{
		page:    page,
		logger:  logger,
		scanner: bufio.NewScanner(in),
		out:     out,
		timeout: timeout,
	}
}

// Run reads commands until quit, end of input or ctx is done. Command
// failures are printed and the loop goes on.
func (t *TerminalInterface) Run(ctx context.Context) error {
	name := t.page.Schema().Name()
	fmt.Fprintf(t.out, "%s shell\n", name)
	fmt.Fprintln(t.out, strings.Repeat("=", len(name)+6))
	fmt.Fprintln(t.out, "Type 'help' for commands, 'quit' to leave")
	fmt.Fprintln(t.out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(t.out, "> ")
		if !t.scanner.Scan() {
			fmt.Fprintln(t.out)
			return t.scanner.Err()
		}

		args := strings.Fields(t.scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" || args[0] == "q" {
			fmt.Fprintln(t.out, "bye")
			return nil
		}

		out, err := t.Execute(ctx, args[0], args[1:])
		if err != nil {
			t.logger.WithError(err).Debugf("command %s failed", args[0])
			fmt.Fprintf(t.out, "error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(t.out, out)
		}
	}
}

// Execute runs one command and returns what to print.
func (t *TerminalInterface) Execute(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "help":
		return help, nil

	case "load":
		params, err := ParseParams(args)
		if err != nil {
			return "", err
		}
		if err := t.page.Load(params); err != nil {
			return "", err
		}
		return t.page.CurrentURL()

	case "url":
		return t.page.CurrentURL()

	case "loaded":
		loaded, err := t.page.IsLoaded()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(loaded), nil

	case "assert-loaded":
		if err := t.page.AssertLoaded(); err != nil {
			return "", err
		}
		return "ok", nil

	case "wait-loaded", "ready":
		timeout, err := t.parseTimeout(args)
		if err != nil {
			return "", err
		}
		if cmd == "ready" {
			err = t.page.WaitUntilPageReadyStateIsComplete(ctx, timeout)
		} else {
			err = t.page.WaitUntilPageLoaded(ctx, timeout)
		}
		if err != nil {
			return "", err
		}
		return "ok", nil

	case "fields":
		var b strings.Builder
		schema := t.page.Schema()
		for i, name := range schema.Fields() {
			d, _ := schema.Descriptor(name)
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%-24s %-9s %s", name, d.Kind, d.Locator)
		}
		return b.String(), nil

	case "methods":
		names := make([]string, 0, len(t.page.Schema().Methods()))
		for _, m := range t.page.Schema().Methods() {
			names = append(names, m.Name)
		}
		return strings.Join(names, "\n"), nil
	}

	timeout, err := t.parseTimeout(args)
	if err != nil {
		return "", err
	}
	res, err := t.page.Call(ctx, cmd, timeout)
	if err != nil {
		return "", err
	}
	switch {
	case res.Method.Op.Predicate():
		return strconv.FormatBool(res.Found), nil
	case len(res.Elements) > 0:
		return fmt.Sprintf("ok (%d element(s))", len(res.Elements)), nil
	}
	return "ok", nil
}

// parseTimeout reads an optional seconds argument. Without one the shell's
// default applies; fractions are allowed.
func (t *TerminalInterface) parseTimeout(args []string) (time.Duration, error) {
	if len(args) == 0 {
		return t.timeout, nil
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid timeout %q: want seconds", args[0])
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ParseParams turns key=value words into template parameters. A key given
// more than once collects its values into a list.
func ParseParams(args []string) (pom.Params, error) {
	params := make(pom.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", arg)
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}
