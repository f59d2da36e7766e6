// Package behave reads per-target behaviour files: TOML overrides of a
// scenario's expected kind, acceptable kinds, and timeout. A behaviour file
// can narrow or widen expectations for a specific kernel; it can never add
// triggers, which stay code-level table entries.
package behave

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/trapcheck/trapcheck/internal/fault"
	"github.com/trapcheck/trapcheck/internal/scenario"
)

// Override adjusts one registered scenario.
type Override struct {
	Name      string   `toml:"name"`
	Expected  string   `toml:"expected"`
	Accepts   []string `toml:"accepts"`
	TimeoutMs int64    `toml:"timeout_ms"`
	Skip      bool     `toml:"skip"`
}

type behaviourFile struct {
	Scenarios []Override `toml:"scenarios"`
}

// Parse reads a behaviour TOML file.
func Parse(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root behaviourFile
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse behaviour TOML: %w", err)
	}
	return root.Scenarios, nil
}

// Apply merges overrides into the registry, preserving registration order.
// Overrides naming unknown scenarios or kinds are errors; a skipped scenario
// is dropped from the run entirely.
func Apply(scenarios []scenario.Scenario, overrides []Override) ([]scenario.Scenario, error) {
	byName := make(map[string]Override, len(overrides))
	for _, ov := range overrides {
		if ov.Name == "" {
			return nil, fmt.Errorf("behaviour override is missing a scenario name")
		}
		if _, ok := scenario.ByName(ov.Name); !ok {
			return nil, fmt.Errorf("behaviour override names unknown scenario %q", ov.Name)
		}
		byName[ov.Name] = ov
	}

	out := make([]scenario.Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		ov, ok := byName[sc.Name]
		if !ok {
			out = append(out, sc)
			continue
		}
		if ov.Skip {
			continue
		}
		if ov.Expected != "" {
			kind, err := fault.ParseKind(ov.Expected)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			sc.Expected = kind
		}
		if len(ov.Accepts) > 0 {
			kinds := make([]fault.Kind, 0, len(ov.Accepts)+1)
			for _, s := range ov.Accepts {
				kind, err := fault.ParseKind(s)
				if err != nil {
					return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
				}
				kinds = append(kinds, kind)
			}
			sc.Accepts = fault.KindSet(kinds...)
		}
		// The expected kind is always acceptable, overridden or not.
		sc.Accepts.Add(sc.Expected)
		if ov.TimeoutMs > 0 {
			sc.TimeoutMs = ov.TimeoutMs
		}
		out = append(out, sc)
	}
	return out, nil
}
