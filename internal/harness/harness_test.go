package harness_test

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/executor"
	"github.com/trapcheck/trapcheck/internal/fault"
	"github.com/trapcheck/trapcheck/internal/harness"
	"github.com/trapcheck/trapcheck/internal/scenario"
	"github.com/trapcheck/trapcheck/internal/verify"
)

type fakeExecutor struct {
	outcomes map[string]executor.Outcome
	errs     map[string]error
	calls    []string
}

func (f *fakeExecutor) Execute(ctx context.Context, sc scenario.Scenario) (executor.Outcome, error) {
	f.calls = append(f.calls, sc.Name)
	if err, ok := f.errs[sc.Name]; ok {
		return executor.Outcome{}, err
	}
	return f.outcomes[sc.Name], nil
}

type fakeVerifier struct {
	failOn int // probe fails on the nth check, 1-based; 0 = never
	checks int
}

func (f *fakeVerifier) Check(ctx context.Context) verify.Probe {
	f.checks++
	if f.failOn != 0 && f.checks >= f.failOn {
		return verify.Probe{Alive: false, Reason: "probe did not complete"}
	}
	return verify.Probe{Alive: true, Millis: 1}
}

func terminated(sig syscall.Signal, faultAddr *uint64) executor.Outcome {
	term := &fault.Termination{RawCode: -1, Signal: sig, FaultAddr: faultAddr}
	if v, ok := fault.TrapVector(sig); ok {
		trap := v
		term.TrapNo = &trap
	}
	return executor.Outcome{
		Kind:        executor.Terminated,
		Termination: term,
		Run:         &api.RunData{ExitCode: -1, WallMs: 5},
	}
}

func addr(a uint64) *uint64 { return &a }

// conformingOutcomes yields what a correct target kernel produces for every
// registered scenario.
func conformingOutcomes() map[string]executor.Outcome {
	return map[string]executor.Outcome{
		"buffer-overflow":     terminated(syscall.SIGSEGV, addr(0x414141414141)),
		"invalid-instruction": terminated(syscall.SIGILL, nil),
		"invalid-pointer":     terminated(syscall.SIGSEGV, addr(0xDEADBEEF)),
		"null-dereference":    terminated(syscall.SIGSEGV, addr(0x0)),
		"trap-test":           terminated(syscall.SIGTRAP, nil),
		"divide-by-zero":      terminated(syscall.SIGFPE, nil),
	}
}

func verdicts(rep *api.RunReport) []api.Verdict {
	out := []api.Verdict{}
	for _, r := range rep.Results {
		out = append(out, r.Verdict)
	}
	return out
}

func TestConformingRunPasses(t *testing.T) {
	exec := &fakeExecutor{outcomes: conformingOutcomes()}
	h := harness.New(exec, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	require.Len(t, rep.Results, 6)
	for _, r := range rep.Results {
		assert.Equal(t, api.VerdictPass, r.Verdict, "scenario %s", r.Name)
		assert.True(t, r.HostSurvived, "scenario %s", r.Name)
	}
	assert.True(t, rep.Ok)
	assert.False(t, rep.Fatal)
	assert.NotEmpty(t, rep.RunUuid)

	// Results preserve registration order.
	for i, sc := range scenario.Registry() {
		assert.Equal(t, sc.Name, rep.Results[i].Name)
	}
}

func TestAmbiguousOverflowSymptomsPass(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGSEGV, syscall.SIGILL} {
		outcomes := conformingOutcomes()
		outcomes["buffer-overflow"] = terminated(sig, addr(0x414141414141))
		h := harness.New(&fakeExecutor{outcomes: outcomes}, &fakeVerifier{}, nil, nil)

		rep := h.Run(context.Background(), scenario.Registry())
		assert.Equal(t, api.VerdictPass, rep.Results[0].Verdict, "signal %v", sig)
	}
}

func TestTriggerDidNotFault(t *testing.T) {
	outcomes := conformingOutcomes()
	outcomes["divide-by-zero"] = executor.Outcome{
		Kind: executor.Completed,
		Run:  &api.RunData{ExitCode: 0},
	}
	h := harness.New(&fakeExecutor{outcomes: outcomes}, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	last := rep.Results[len(rep.Results)-1]
	assert.Equal(t, api.VerdictFail, last.Verdict)
	require.NotNil(t, last.Reason)
	assert.Equal(t, "trigger did not fault", *last.Reason)
	assert.False(t, rep.Ok)
}

func TestTimeoutVerdict(t *testing.T) {
	outcomes := conformingOutcomes()
	outcomes["trap-test"] = executor.Outcome{
		Kind: executor.TimedOut,
		Run:  &api.RunData{WallMs: 5000},
	}
	h := harness.New(&fakeExecutor{outcomes: outcomes}, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	assert.Equal(t, api.VerdictTimeout, rep.Results[4].Verdict)
	assert.False(t, rep.Ok)
	// A single timeout does not halt the run.
	assert.Len(t, rep.Results, 6)
}

func TestKindMismatchFails(t *testing.T) {
	outcomes := conformingOutcomes()
	outcomes["invalid-instruction"] = terminated(syscall.SIGFPE, nil)
	h := harness.New(&fakeExecutor{outcomes: outcomes}, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	res := rep.Results[1]
	assert.Equal(t, api.VerdictFail, res.Verdict)
	assert.Equal(t, string(fault.ArithmeticFault), res.Observed)
	require.NotNil(t, res.Reason)
	assert.Contains(t, *res.Reason, "expected illegal_instruction")
}

func TestHostFailureHaltsRun(t *testing.T) {
	exec := &fakeExecutor{outcomes: conformingOutcomes()}
	h := harness.New(exec, &fakeVerifier{failOn: 2}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	// Scenarios 1..2 are reported, 3..6 never start.
	require.Len(t, rep.Results, 2)
	assert.Equal(t, []string{"buffer-overflow", "invalid-instruction"}, exec.calls)
	assert.False(t, rep.Results[1].HostSurvived)
	assert.True(t, rep.Fatal)
	require.NotNil(t, rep.FatalMsg)
	assert.Contains(t, *rep.FatalMsg, "invalid-instruction")
	assert.False(t, rep.Ok)
}

func TestRepeatedHarnessErrorsAreFatal(t *testing.T) {
	errs := map[string]error{
		"buffer-overflow":     errors.New("sandbox setup failed: no pipes"),
		"invalid-instruction": errors.New("sandbox setup failed: no pipes"),
	}
	h := harness.New(&fakeExecutor{outcomes: conformingOutcomes(), errs: errs}, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	require.Len(t, rep.Results, 2)
	assert.Equal(t, api.VerdictHarnessError, rep.Results[0].Verdict)
	assert.Equal(t, api.VerdictHarnessError, rep.Results[1].Verdict)
	assert.True(t, rep.Fatal)
	assert.False(t, rep.Ok)
}

func TestSingleHarnessErrorContinues(t *testing.T) {
	errs := map[string]error{
		"invalid-pointer": errors.New("sandbox setup failed: no pipes"),
	}
	h := harness.New(&fakeExecutor{outcomes: conformingOutcomes(), errs: errs}, &fakeVerifier{}, nil, nil)

	rep := h.Run(context.Background(), scenario.Registry())

	require.Len(t, rep.Results, 6)
	assert.Equal(t, api.VerdictHarnessError, rep.Results[2].Verdict)
	assert.False(t, rep.Ok)
	assert.False(t, rep.Fatal)
}

func TestRunsAreDeterministic(t *testing.T) {
	run := func() []api.Verdict {
		h := harness.New(&fakeExecutor{outcomes: conformingOutcomes()}, &fakeVerifier{}, nil, nil)
		return verdicts(h.Run(context.Background(), scenario.Registry()))
	}
	assert.Equal(t, run(), run())
}

func TestCancelledContextHaltsBeforeNextScenario(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExecutor{outcomes: conformingOutcomes()}
	h := harness.New(exec, &fakeVerifier{}, nil, nil)

	rep := h.Run(ctx, scenario.Registry())
	assert.Empty(t, rep.Results)
	assert.Empty(t, exec.calls)
	assert.False(t, rep.Fatal)
}
