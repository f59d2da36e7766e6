package harness

import (
	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
)

// Gatherer receives run events as they happen. Implementations stream them
// to a terminal, a queue, or fold them into a report; none of them may
// influence the run.
type Gatherer interface {
	StartRun(runUuid string, systemInfo string)
	StartScenario(name string, expected fault.Kind)
	FinishScenario(result api.ScenarioResult)
	HostCheck(alive bool, millis int64)
	FatalError(msg string)
	FinishRun(ok bool)
}
