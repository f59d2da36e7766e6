// Package harness orchestrates a conformance run: one scenario at a time,
// executor then verifier, never overlapping, halting the moment the host
// stops answering.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/classify"
	"github.com/trapcheck/trapcheck/internal/crashstore"
	"github.com/trapcheck/trapcheck/internal/executor"
	"github.com/trapcheck/trapcheck/internal/gatherer/respbuilder"
	"github.com/trapcheck/trapcheck/internal/scenario"
	"github.com/trapcheck/trapcheck/internal/verify"
)

// ScenarioExecutor is the executor seam; the real one lives in
// internal/executor.
type ScenarioExecutor interface {
	Execute(ctx context.Context, sc scenario.Scenario) (executor.Outcome, error)
}

// HostVerifier is the liveness-probe seam; the real one lives in
// internal/verify.
type HostVerifier interface {
	Check(ctx context.Context) verify.Probe
}

type Harness struct {
	exec      ScenarioExecutor
	verifier  HostVerifier
	gatherers []Gatherer
	store     *crashstore.Store
	log       *slog.Logger
}

// New wires the orchestrator. The crash store is optional; gatherers may be
// empty (the report is built regardless).
func New(exec ScenarioExecutor, verifier HostVerifier, gatherers []Gatherer, store *crashstore.Store) *Harness {
	return &Harness{
		exec:      exec,
		verifier:  verifier,
		gatherers: gatherers,
		store:     store,
		log:       slog.Default(),
	}
}

// Run drives every scenario in registration order. Cancelling ctx halts the
// run between scenarios; the in-flight executor/verifier pair always
// completes so the host is never left in an unverified state.
func (h *Harness) Run(ctx context.Context, scenarios []scenario.Scenario) *api.RunReport {
	runUuid := uuid.NewString()
	sysInfo := systemInfo()

	builder := respbuilder.New()
	gs := append([]Gatherer{builder}, h.gatherers...)

	for _, g := range gs {
		g.StartRun(runUuid, sysInfo)
	}

	harnessErrors := 0
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			h.log.Info("run cancelled, halting before next scenario", "next", sc.Name)
			break
		}
		// The pair below must finish even if ctx is cancelled mid-scenario.
		scCtx := context.WithoutCancel(ctx)

		for _, g := range gs {
			g.StartScenario(sc.Name, sc.Expected)
		}

		res := h.runScenario(scCtx, sc, &harnessErrors)

		probe := h.verifier.Check(scCtx)
		res.HostSurvived = probe.Alive
		for _, g := range gs {
			g.HostCheck(probe.Alive, probe.Millis)
		}
		for _, g := range gs {
			g.FinishScenario(res)
		}

		if !probe.Alive {
			msg := fmt.Sprintf("host liveness probe failed after scenario %s: %s", sc.Name, probe.Reason)
			h.log.Error(msg)
			for _, g := range gs {
				g.FatalError(msg)
			}
			break
		}
		if harnessErrors >= 2 {
			msg := fmt.Sprintf("repeated harness errors (last on scenario %s), treating as host-survival violation", sc.Name)
			h.log.Error(msg)
			for _, g := range gs {
				g.FatalError(msg)
			}
			break
		}
	}

	ok := builder.Ok()
	for _, g := range gs {
		g.FinishRun(ok)
	}
	return builder.Report()
}

func (h *Harness) runScenario(ctx context.Context, sc scenario.Scenario, harnessErrors *int) api.ScenarioResult {
	res := api.ScenarioResult{
		Name:     sc.Name,
		Expected: string(sc.Expected),
	}

	start := time.Now()
	out, err := h.exec.Execute(ctx, sc)
	res.ElapsedMs = time.Since(start).Milliseconds()

	if err != nil {
		*harnessErrors++
		res.Verdict = api.VerdictHarnessError
		reason := err.Error()
		res.Reason = &reason
		return res
	}

	res.Run = out.Run

	switch out.Kind {
	case executor.Completed:
		res.Verdict = api.VerdictFail
		reason := "trigger did not fault"
		res.Reason = &reason

	case executor.TimedOut:
		res.Verdict = api.VerdictTimeout
		reason := fmt.Sprintf("child did not terminate within %dms", sc.TimeoutMs)
		res.Reason = &reason

	case executor.Terminated:
		observed := classify.Classify(*out.Termination)
		res.Observed = string(observed)
		if sc.Accepts.Contains(observed) {
			res.Verdict = api.VerdictPass
		} else {
			res.Verdict = api.VerdictFail
			reason := fmt.Sprintf("observed %s, expected %s", observed, sc.Expected)
			res.Reason = &reason
		}
		h.retainCrash(&res, out)
	}

	return res
}

func (h *Harness) retainCrash(res *api.ScenarioResult, out executor.Outcome) {
	if h.store == nil || out.Run == nil || out.Run.Stderr == "" {
		return
	}
	key, err := h.store.Save([]byte(out.Run.Stderr))
	if err != nil {
		h.log.Warn("failed to retain crash artifact", "scenario", res.Name, "error", err)
		return
	}
	res.CrashKey = &key
}
