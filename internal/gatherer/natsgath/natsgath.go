// Package natsgath streams run events to a NATS subject.
package natsgath

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
)

type natsGatherer struct {
	nc      *nats.Conn
	subject string
	runUuid string
}

// New creates a gatherer that publishes every run event to the given subject.
func New(nc *nats.Conn, subject string) *natsGatherer {
	return &natsGatherer{nc: nc, subject: subject}
}

func (s *natsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("failed to marshal run event", "error", err)
		return
	}
	if err := s.nc.Publish(s.subject, b); err != nil {
		slog.Warn("failed to publish run event to NATS", "error", err)
	}
}

func (s *natsGatherer) StartRun(runUuid string, systemInfo string) {
	s.runUuid = runUuid
	s.send(api.NewStartedRun(runUuid, systemInfo))
}

func (s *natsGatherer) StartScenario(name string, expected fault.Kind) {
	s.send(api.NewStartedScenario(s.runUuid, name, string(expected)))
}

func (s *natsGatherer) FinishScenario(result api.ScenarioResult) {
	result.Run = api.TrimRunData(result.Run, api.MaxRunDataHeight, api.MaxRunDataWidth)
	s.send(api.NewFinishedScenario(s.runUuid, result))
}

func (s *natsGatherer) HostCheck(alive bool, millis int64) {
	s.send(api.NewHostCheck(s.runUuid, alive, millis))
}

func (s *natsGatherer) FatalError(msg string) {
	s.send(api.NewFatal(s.runUuid, msg))
}

func (s *natsGatherer) FinishRun(ok bool) {
	s.send(api.NewFinishedRun(s.runUuid, ok))
}
