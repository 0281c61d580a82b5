package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const (
	transportName = "console"
	linePrefix    = "Lemiknow: "

	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Printer writes notifications to a terminal or any writer.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

var _ ports.Transport = (*Printer)(nil)

// NewStdout returns a Printer on standard output, coloured when stdout is a terminal.
func NewStdout() *Printer {
	return New(os.Stdout, isTerminal(os.Stdout))
}

// New returns a Printer writing to out.
func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Send writes "Lemiknow: <text>" followed by a newline.
func (p *Printer) Send(_ context.Context, text string) error {
	line := linePrefix + text
	if p.color {
		line = colorize(text, line)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.out, line); err != nil {
		return model.NewDeliveryError(transportName, err)
	}
	return nil
}

func colorize(text, line string) string {
	switch {
	case strings.HasPrefix(text, "✅"):
		return ansiGreen + line + ansiReset
	case strings.HasPrefix(text, "☠️"):
		return ansiRed + line + ansiReset
	default:
		return line
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
