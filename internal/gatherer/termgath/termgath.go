// Package termgath streams run events to the terminal and renders the
// final verdict table.
package termgath

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
)

type TerminalGatherer struct {
	startedAt time.Time
	rows      []api.ScenarioResult
}

func New() *TerminalGatherer {
	return &TerminalGatherer{startedAt: time.Now()}
}

func (t *TerminalGatherer) StartRun(runUuid string, systemInfo string) {
	t.startedAt = time.Now()
	fmt.Printf("== Run %s ==\n", runUuid)
	if systemInfo != "" {
		fmt.Println(systemInfo)
	}
}

func (t *TerminalGatherer) StartScenario(name string, expected fault.Kind) {
	fmt.Printf("-> %s (expect %s)\n", name, expected)
}

func (t *TerminalGatherer) FinishScenario(result api.ScenarioResult) {
	t.rows = append(t.rows, result)
	line := fmt.Sprintf("<- %s: %s", result.Name, verdictColor(result.Verdict))
	if result.Observed != "" {
		line += fmt.Sprintf(" (observed %s)", result.Observed)
	}
	if result.Reason != nil {
		line += ": " + *result.Reason
	}
	fmt.Println(line)
}

func (t *TerminalGatherer) HostCheck(alive bool, millis int64) {
	if alive {
		fmt.Printf("   host check: ok (%dms)\n", millis)
		return
	}
	fmt.Println(color.RedString("   host check: FAILED"))
}

func (t *TerminalGatherer) FatalError(msg string) {
	fmt.Println(color.New(color.FgRed, color.Bold).Sprintf("== FATAL: %s ==", msg))
}

func (t *TerminalGatherer) FinishRun(ok bool) {
	t.renderTable()
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	if ok {
		fmt.Println(color.GreenString("== All scenarios passed, host survived (%s) ==", dur))
		return
	}
	fmt.Println(color.RedString("== Run failed (%s) ==", dur))
}

func (t *TerminalGatherer) renderTable() {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(table.Row{"Scenario", "Expected", "Observed", "Verdict", "Host", "Time"})
	for _, r := range t.rows {
		host := "ok"
		if !r.HostSurvived {
			host = "DOWN"
		}
		w.AppendRow(table.Row{
			r.Name, r.Expected, r.Observed, string(r.Verdict), host,
			fmt.Sprintf("%dms", r.ElapsedMs),
		})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{
			Name: "Verdict",
			Transformer: text.Transformer(func(v interface{}) string {
				return verdictColor(api.Verdict(fmt.Sprint(v)))
			}),
			Align: text.AlignCenter,
		},
	})
	w.Render()
}

func verdictColor(v api.Verdict) string {
	switch v {
	case api.VerdictPass:
		return color.GreenString(string(v))
	case api.VerdictFail:
		return color.RedString(string(v))
	case api.VerdictTimeout:
		return color.YellowString(string(v))
	default:
		return color.MagentaString(string(v))
	}
}
