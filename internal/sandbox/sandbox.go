// Package sandbox contains fault scenarios in child processes of the harness
// binary itself. The child's memory is never shared with the parent; the only
// things that cross back are the captured std streams and the wait status.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trapcheck/trapcheck/internal/scenario"
)

// ErrSetup wraps failures to create the isolated execution context. Callers
// treat these as harness errors, not scenario outcomes.
var ErrSetup = errors.New("sandbox setup failed")

type Sandbox struct {
	exe string
}

// New resolves the harness binary so scenarios can be re-executed into
// isolated children.
func New() (*Sandbox, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: resolve harness binary: %v", ErrSetup, err)
	}
	return &Sandbox{exe: exe}, nil
}

// Result is the raw observation of one child run.
type Result struct {
	Stdout []byte
	Stderr []byte

	// ExitCode is the child's exit status, or -1 when it died by signal.
	ExitCode int

	// Signal is the terminating signal from the wait status, zero when
	// the child exited on its own.
	Signal syscall.Signal

	WallMs   int64
	TimedOut bool
}

// Exec runs the named scenario in a fresh child and blocks until it exits or
// the timeout elapses, in which case the child is force-killed. The child is
// exclusively owned by this call and fully reaped before it returns.
func (s *Sandbox) Exec(ctx context.Context, name string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.exe)
	cmd.Env = append(os.Environ(),
		scenario.EnvScenario+"="+name,
		// Re-raise fatal signals so the wait status carries the real
		// disposition instead of the runtime's exit(2).
		"GOTRACEBACK=crash",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSetup, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", ErrSetup, err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start child: %v", ErrSetup, err)
	}

	var outBuf, errBuf []byte
	var eg errgroup.Group
	eg.Go(func() error {
		b, err := io.ReadAll(stdout)
		outBuf = b
		return err
	})
	eg.Go(func() error {
		b, err := io.ReadAll(stderr)
		errBuf = b
		return err
	})
	// Pipes must be drained before Wait closes them.
	_ = eg.Wait()
	waitErr := cmd.Wait()

	res := &Result{
		Stdout: outBuf,
		Stderr: errBuf,
		WallMs: time.Since(start).Milliseconds(),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		return res, nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("%w: wait on child: %v", ErrSetup, waitErr)
		}
		ws, ok := exitErr.Sys().(syscall.WaitStatus)
		if ok && ws.Signaled() {
			res.Signal = ws.Signal()
			res.ExitCode = -1
		} else {
			res.ExitCode = exitErr.ExitCode()
		}
	}

	return res, nil
}
