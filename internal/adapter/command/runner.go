package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

const defaultTailLines = 20

// Result describes a finished command.
type Result struct {
	ExitCode int
	Tail     string
}

func (r Result) String() string {
	if r.Tail == "" {
		return fmt.Sprintf("exit status %d", r.ExitCode)
	}
	return fmt.Sprintf("exit status %d\n%s", r.ExitCode, r.Tail)
}

// ExitError reports a command that could not start or exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Tail     string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Tail != "" {
		msg += "\n" + e.Tail
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes an external command, streaming its output and keeping the last lines.
type Runner struct {
	Args      []string
	Dir       string
	Stdout    io.Writer
	Stderr    io.Writer
	TailLines int
}

// Name is the base name of the executable, used as the operation name.
func (r *Runner) Name() string {
	if len(r.Args) == 0 {
		return "command"
	}
	return filepath.Base(r.Args[0])
}

// Run executes the command to completion. ctx cancellation kills the process.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if len(r.Args) == 0 {
		return Result{}, errors.New("no command given")
	}

	tailLines := r.TailLines
	if tailLines <= 0 {
		tailLines = defaultTailLines
	}
	tail := newTailBuffer(tailLines)

	cmd := exec.CommandContext(ctx, r.Args[0], r.Args[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(writerOr(r.Stdout, os.Stdout), tail)
	cmd.Stderr = io.MultiWriter(writerOr(r.Stderr, os.Stderr), tail)

	err := cmd.Run()
	res := Result{ExitCode: cmd.ProcessState.ExitCode(), Tail: tail.String()}
	if err != nil {
		return res, &ExitError{Command: strings.Join(r.Args, " "), ExitCode: res.ExitCode, Tail: res.Tail, Err: err}
	}
	return res, nil
}

func writerOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// tailBuffer keeps the last n complete or partial lines written to it.
type tailBuffer struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial strings.Builder
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range p {
		if b == '\n' {
			t.push(t.partial.String())
			t.partial.Reset()
			continue
		}
		t.partial.WriteByte(b)
	}
	return len(p), nil
}

func (t *tailBuffer) push(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if t.partial.Len() > 0 {
		lines = append(append([]string(nil), lines...), t.partial.String())
		if len(lines) > t.limit {
			lines = lines[len(lines)-t.limit:]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
