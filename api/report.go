package api

// Verdict is the per-scenario outcome of one harness run.
type Verdict string

const (
	VerdictPass         Verdict = "PASS"
	VerdictFail         Verdict = "FAIL"
	VerdictTimeout      Verdict = "TIMEOUT"
	VerdictHarnessError Verdict = "HARNESS_ERROR"
)

// ScenarioResult records the disposition of a single fault scenario.
// It is immutable once built.
type ScenarioResult struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`

	// Observed is empty when the scenario timed out, ran to completion,
	// or never produced a termination signal.
	Observed string `json:"observed,omitempty"`

	Verdict      Verdict `json:"verdict"`
	Reason       *string `json:"reason,omitempty"`
	HostSurvived bool    `json:"host_survived"`
	ElapsedMs    int64   `json:"elapsed_ms"`

	// CrashKey addresses the stored traceback of an abnormal termination.
	CrashKey *string `json:"crash_key,omitempty"`

	Run *RunData `json:"run,omitempty"`
}

// RunReport is the aggregate outcome of one harness invocation.
// Results preserve scenario registration order.
type RunReport struct {
	RunUuid string           `json:"run_uuid"`
	Results []ScenarioResult `json:"results"`

	// Ok is true iff every result passed and the host survived throughout.
	Ok bool `json:"ok"`

	// Fatal marks a host-survival violation; FatalMsg names the scenario
	// that was in flight when the run was halted.
	Fatal    bool    `json:"fatal"`
	FatalMsg *string `json:"fatal_msg,omitempty"`

	SystemInfo string `json:"system_info,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	TotalMs    int64  `json:"total_ms"`
}
