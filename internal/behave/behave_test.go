package behave_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapcheck/trapcheck/internal/behave"
	"github.com/trapcheck/trapcheck/internal/fault"
	"github.com/trapcheck/trapcheck/internal/scenario"
)

const behaviourToml = `
[[scenarios]]
name = "buffer-overflow"
accepts = ["invalid_memory_access"]
timeout_ms = 10000

[[scenarios]]
name = "divide-by-zero"
skip = true

[[scenarios]]
name = "null-dereference"
expected = "invalid_memory_access"
`

func writeBehaviour(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "behaviour.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseAndApply(t *testing.T) {
	overrides, err := behave.Parse(writeBehaviour(t, behaviourToml))
	require.NoError(t, err)
	require.Len(t, overrides, 3)

	scenarios, err := behave.Apply(scenario.Registry(), overrides)
	require.NoError(t, err)

	byName := map[string]scenario.Scenario{}
	for _, sc := range scenarios {
		byName[sc.Name] = sc
	}

	// divide-by-zero is skipped, everything else survives in order.
	assert.Len(t, scenarios, 5)
	_, skipped := byName["divide-by-zero"]
	assert.False(t, skipped)
	assert.Equal(t, "buffer-overflow", scenarios[0].Name)

	overflow := byName["buffer-overflow"]
	assert.EqualValues(t, 10000, overflow.TimeoutMs)
	// The narrowed accepts still contains the expected kind.
	assert.True(t, overflow.Accepts.Contains(fault.StackCorruption))
	assert.True(t, overflow.Accepts.Contains(fault.InvalidMemoryAccess))
	assert.False(t, overflow.Accepts.Contains(fault.IllegalInstruction))

	null := byName["null-dereference"]
	assert.Equal(t, fault.InvalidMemoryAccess, null.Expected)
	assert.True(t, null.Accepts.Contains(fault.InvalidMemoryAccess))
}

func TestApplyRejectsUnknownScenario(t *testing.T) {
	overrides, err := behave.Parse(writeBehaviour(t, `
[[scenarios]]
name = "warp-core-breach"
`))
	require.NoError(t, err)

	_, err = behave.Apply(scenario.Registry(), overrides)
	assert.ErrorContains(t, err, "warp-core-breach")
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	overrides, err := behave.Parse(writeBehaviour(t, `
[[scenarios]]
name = "trap-test"
expected = "gamma-burst"
`))
	require.NoError(t, err)

	_, err = behave.Apply(scenario.Registry(), overrides)
	assert.ErrorContains(t, err, "gamma-burst")
}

func TestParseRejectsMissingFile(t *testing.T) {
	_, err := behave.Parse(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
