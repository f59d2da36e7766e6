// Package verify proves the host is still live after each scenario run.
// A compromised host makes every later verdict meaningless, so the
// orchestrator halts the moment a probe fails.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/trapcheck/trapcheck/internal/executor"
	"github.com/trapcheck/trapcheck/internal/scenario"
)

const canaryContent = "trapcheck canary: must survive every scenario\n"

// Verifier runs a bounded no-fault probe child and checks that unrelated
// state (a canary file written before any scenario ran) is untouched.
type Verifier struct {
	exec   *executor.Executor
	canary string
	log    *slog.Logger
}

type Probe struct {
	Alive  bool
	Millis int64
	Reason string
}

func New(exec *executor.Executor) (*Verifier, error) {
	f, err := os.CreateTemp("", "trapcheck-canary-*")
	if err != nil {
		return nil, fmt.Errorf("create canary file: %w", err)
	}
	if _, err := f.WriteString(canaryContent); err != nil {
		f.Close()
		return nil, fmt.Errorf("write canary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close canary file: %w", err)
	}
	return &Verifier{exec: exec, canary: f.Name(), log: slog.Default()}, nil
}

func (v *Verifier) Close() error {
	return os.Remove(v.canary)
}

// Check runs the liveness probe. The bound is the probe scenario's own
// timeout; Check never blocks longer than that.
func (v *Verifier) Check(ctx context.Context) Probe {
	probe := scenario.Probe()

	out, err := v.exec.Execute(ctx, probe)
	if err != nil {
		return Probe{Alive: false, Reason: fmt.Sprintf("probe could not start: %v", err)}
	}
	p := Probe{Millis: out.Run.WallMs}
	if out.Kind != executor.Completed {
		p.Reason = fmt.Sprintf("probe did not complete (outcome %d)", out.Kind)
		v.log.Warn("liveness probe failed", "reason", p.Reason)
		return p
	}

	data, err := os.ReadFile(v.canary)
	if err != nil || string(data) != canaryContent {
		p.Reason = "canary state corrupted"
		v.log.Warn("liveness probe failed", "reason", p.Reason)
		return p
	}

	p.Alive = true
	return p
}
