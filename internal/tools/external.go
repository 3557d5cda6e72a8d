package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

type Result struct {
	Tool     string
	Raw      []byte
	Stderr   []byte
	ExitCode int
	Err      error
	Duration time.Duration
}

// Command describes one external tool invocation.
type Command struct {
	Tool  string
	Args  []string
	Stdin []byte
	Dir   string
}

// Runner executes a command. Tests replace it through SetRunner.
type Runner func(ctx context.Context, c Command) Result

var runCommand Runner = execCommand

// SetRunner swaps the process runner and returns a restore func.
func SetRunner(r Runner) (restore func()) {
	old := runCommand
	runCommand = r
	return func() { runCommand = old }
}

// Run executes the tool and collects stdout, stderr and the exit code.
func Run(ctx context.Context, c Command) Result {
	return runCommand(ctx, c)
}

// RunWithTimeout is Run with its own deadline.
func RunWithTimeout(ctx context.Context, timeout time.Duration, c Command) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Run(ctx, c)
}

func execCommand(ctx context.Context, c Command) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, c.Tool, c.Args...)
	cmd.Dir = c.Dir
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Tool: c.Tool, Raw: stdout.Bytes(), Stderr: stderr.Bytes(), Err: err, Duration: time.Since(start)}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	return res
}

// LookPath resolves a tool on PATH.
var LookPath = exec.LookPath
