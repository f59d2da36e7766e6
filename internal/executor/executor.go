// Package executor runs one fault scenario at a time and reduces the raw
// child observation to one of three outcomes: a termination signal, a
// protocol violation (the trigger returned), or a timeout.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
	"github.com/trapcheck/trapcheck/internal/sandbox"
	"github.com/trapcheck/trapcheck/internal/scenario"
)

type OutcomeKind int

const (
	// Terminated means the child died abnormally; Termination is set.
	Terminated OutcomeKind = iota

	// Completed means the trigger returned normally, which is itself a
	// conformance failure.
	Completed

	// TimedOut means the child outlived its bound and was force-killed.
	TimedOut
)

// Outcome is produced exactly once per Execute call.
type Outcome struct {
	Kind        OutcomeKind
	Termination *fault.Termination
	Run         *api.RunData
}

type Executor struct {
	sandbox *sandbox.Sandbox
	log     *slog.Logger
}

func New(sb *sandbox.Sandbox) *Executor {
	return &Executor{sandbox: sb, log: slog.Default()}
}

// Execute runs the scenario's trigger in isolation. A non-nil error means
// the isolation context itself could not be created or reaped; that is a
// harness error, distinct from any scenario verdict.
func (e *Executor) Execute(ctx context.Context, sc scenario.Scenario) (Outcome, error) {
	timeout := time.Duration(sc.TimeoutMs) * time.Millisecond
	e.log.Debug("executing scenario", "name", sc.Name, "timeout", timeout)

	res, err := e.sandbox.Exec(ctx, sc.Name, timeout)
	if err != nil {
		return Outcome{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	run := &api.RunData{
		Stdout:   string(res.Stdout),
		Stderr:   string(res.Stderr),
		ExitCode: int64(res.ExitCode),
		WallMs:   res.WallMs,
	}
	if res.Signal != 0 {
		sig := int64(res.Signal)
		run.ExitSignal = &sig
	}

	if res.TimedOut {
		return Outcome{Kind: TimedOut, Run: run}, nil
	}
	if res.Signal == 0 && res.ExitCode == 0 {
		return Outcome{Kind: Completed, Run: run}, nil
	}

	term := &fault.Termination{
		RawCode: res.ExitCode,
		Signal:  res.Signal,
	}
	// The runtime's fatal banner is the richer channel: it names the fault
	// signal even when the runtime converts the death into a plain exit,
	// and it is the only source of the faulting address.
	if b, ok := fault.ParseBanner(res.Stderr); ok {
		term.Signal = b.Signal
		term.FaultAddr = b.FaultAddr
	}
	if v, ok := fault.TrapVector(term.Signal); ok {
		trap := v
		term.TrapNo = &trap
	}

	return Outcome{Kind: Terminated, Termination: term, Run: run}, nil
}
