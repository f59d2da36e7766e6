// Package respbuilder folds the run's event stream into a complete
// api.RunReport. The harness registers it alongside the user-facing
// gatherers so the report and the stream can never disagree.
package respbuilder

import (
	"time"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
)

type Builder struct {
	runUuid    string
	systemInfo string

	started  time.Time
	finished *time.Time

	results  []api.ScenarioResult
	fatal    bool
	fatalMsg *string
}

func New() *Builder {
	return &Builder{started: time.Now()}
}

// StartRun implements harness.Gatherer.
func (b *Builder) StartRun(runUuid string, systemInfo string) {
	b.runUuid = runUuid
	b.systemInfo = systemInfo
	b.started = time.Now()
}

// StartScenario implements harness.Gatherer.
func (b *Builder) StartScenario(name string, expected fault.Kind) {}

// FinishScenario implements harness.Gatherer.
func (b *Builder) FinishScenario(result api.ScenarioResult) {
	b.results = append(b.results, result)
}

// HostCheck implements harness.Gatherer.
func (b *Builder) HostCheck(alive bool, millis int64) {}

// FatalError implements harness.Gatherer.
func (b *Builder) FatalError(msg string) {
	b.fatal = true
	b.fatalMsg = &msg
}

// FinishRun implements harness.Gatherer.
func (b *Builder) FinishRun(ok bool) {
	now := time.Now()
	b.finished = &now
}

// Ok reports whether every gathered result passed and no fatal condition
// was seen.
func (b *Builder) Ok() bool {
	if b.fatal {
		return false
	}
	for _, r := range b.results {
		if r.Verdict != api.VerdictPass || !r.HostSurvived {
			return false
		}
	}
	return true
}

// Report assembles the final run report from everything gathered so far.
func (b *Builder) Report() *api.RunReport {
	finished := time.Now()
	if b.finished != nil {
		finished = *b.finished
	}
	return &api.RunReport{
		RunUuid:    b.runUuid,
		Results:    b.results,
		Ok:         b.Ok(),
		Fatal:      b.fatal,
		FatalMsg:   b.fatalMsg,
		SystemInfo: b.systemInfo,
		StartedAt:  b.started.Format(time.RFC3339),
		FinishedAt: finished.Format(time.RFC3339),
		TotalMs:    finished.Sub(b.started).Milliseconds(),
	}
}
