// Package tlog вывод ошибок со структурированным контекстом в тестах.
package tlog

import (
	"fmt"
	"strings"

	"github.com/sirkon/errors"
)

const (
	bold  = "\033[1m"
	red   = "\033[1;31m"
	reset = "\033[0m"
)

// Log logs error.
func Log(t TestingPrinter, err error) {
	t.Helper()
	t.Log(renderString(err, bold))
}

// Error signal error.
func Error(t TestingPrinter, err error) {
	t.Helper()
	t.Error(renderString(err, red))
}

// Check do nothing and return false if error is nil.
// Prints error and return true otherwise.
func Check(t TestingPrinter, err error) bool {
	if err == nil {
		return false
	}

	t.Helper()
	t.Error(renderString(err, red))
	return true
}

func renderString(err error, highlight string) string {
	if err == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(highlight)
	b.WriteString(err.Error())
	b.WriteString(reset)
	b.WriteByte('\n')

	var c errorContextConsumer
	if d := errors.GetContextDeliverer(err); d != nil {
		d.Deliver(&c)
	}

	var width int
	for _, v := range c.vars {
		if len(v.name) > width {
			width = len(v.name)
		}
	}

	for _, v := range c.vars {
		_, _ = fmt.Fprintf(&b, "    %s%-*s%s: %v\n", bold, width, v.name, reset, v.value)
	}
	return b.String()
}
