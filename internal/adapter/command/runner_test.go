package command

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestRunnerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	var out bytes.Buffer
	r := &Runner{Args: []string{"sh", "-c", "echo one; echo two"}, Stdout: &out, Stderr: &out}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", res.ExitCode)
	}
	if res.Tail != "one\ntwo" {
		t.Fatalf("unexpected tail %q", res.Tail)
	}
	if res.String() != "exit status 0\none\ntwo" {
		t.Fatalf("unexpected result text %q", res.String())
	}
	if out.String() != "one\ntwo\n" {
		t.Fatalf("output not streamed: %q", out.String())
	}
	if r.Name() != "sh" {
		t.Fatalf("unexpected name %q", r.Name())
	}
}

func TestRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	var out bytes.Buffer
	r := &Runner{Args: []string{"sh", "-c", "echo broken >&2; exit 3"}, Stdout: &out, Stderr: &out}

	_, err := r.Run(context.Background())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", exitErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected stderr tail in error, got %q", err.Error())
	}
}

func TestRunnerRequiresArgs(t *testing.T) {
	if _, err := (&Runner{}).Run(context.Background()); err == nil {
		t.Fatal("expected error without args")
	}
}

func TestTailBufferKeepsLastLines(t *testing.T) {
	tail := newTailBuffer(2)
	_, _ = tail.Write([]byte("a\nb\nc\npartial"))
	if got := tail.String(); got != "c\npartial" {
		t.Fatalf("unexpected tail %q", got)
	}
}
