package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/cuemby/vgctl/pkg/log"
)

// Result is the outcome of one external command
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs one external process per call and waits for it to finish.
// A non-zero exit status is reported in Result, not as an error; the error
// is reserved for commands that could not be started at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands on the local host with os/exec
type ExecRunner struct {
	// Timeout bounds each command; zero means wait indefinitely
	Timeout time.Duration

	// Env is appended to the inherited environment
	Env []string
}

// NewExecRunner creates a runner with the C locale forced so tool output
// is not translated
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Env: []string{"LC_ALL=C"},
	}
}

// WithTimeout sets the per-command timeout
func (r *ExecRunner) WithTimeout(timeout time.Duration) *ExecRunner {
	r.Timeout = timeout
	return r
}

// Run executes name with args and captures its output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	logger := log.WithComponent("runner")

	execCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(execCtx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			res.ExitCode = exitErr.ExitCode()
			logger.Debug().
				Str("cmd", name).
				Strs("args", args).
				Int("exit_code", res.ExitCode).
				Dur("duration", time.Since(start)).
				Msg("command exited non-zero")
			return res, nil
		}
		// Not started, or killed by a signal or the timeout
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}

	logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Dur("duration", time.Since(start)).
		Msg("command succeeded")
	return res, nil
}
