package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapcheck/trapcheck/internal/fault"
	"github.com/trapcheck/trapcheck/internal/scenario"
)

func TestRegistryOrderIsFixed(t *testing.T) {
	names := []string{}
	for _, sc := range scenario.Registry() {
		names = append(names, sc.Name)
	}
	// Later scenarios are only trusted after earlier ones verified host
	// survival, so this order is part of the contract.
	assert.Equal(t, []string{
		"buffer-overflow",
		"invalid-instruction",
		"invalid-pointer",
		"null-dereference",
		"trap-test",
		"divide-by-zero",
	}, names)
}

func TestRegistryEntriesAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, sc := range scenario.Registry() {
		require.False(t, seen[sc.Name], "duplicate scenario %s", sc.Name)
		seen[sc.Name] = true

		assert.NotNil(t, sc.Trigger, "%s has no trigger", sc.Name)
		assert.Positive(t, sc.TimeoutMs, "%s has no timeout", sc.Name)
		assert.True(t, sc.Accepts.Contains(sc.Expected),
			"%s does not accept its own expected kind", sc.Name)
	}
}

func TestBufferOverflowDeclaresAmbiguity(t *testing.T) {
	sc, ok := scenario.ByName("buffer-overflow")
	require.True(t, ok)
	assert.Equal(t, fault.StackCorruption, sc.Expected)
	assert.True(t, sc.Accepts.Contains(fault.InvalidMemoryAccess))
	assert.True(t, sc.Accepts.Contains(fault.IllegalInstruction))
	assert.False(t, sc.Accepts.Contains(fault.ArithmeticFault))
}

func TestStrictScenariosAcceptOnlyExpected(t *testing.T) {
	for _, name := range []string{"invalid-instruction", "invalid-pointer", "null-dereference", "trap-test", "divide-by-zero"} {
		sc, ok := scenario.ByName(name)
		require.True(t, ok)
		assert.Equal(t, 1, sc.Accepts.Cardinality(), "%s should accept exactly one kind", name)
	}
}

func TestByNameResolvesAuxiliaries(t *testing.T) {
	probe, ok := scenario.ByName("probe")
	require.True(t, ok)
	assert.Equal(t, probe.Name, scenario.Probe().Name)

	_, ok = scenario.ByName("no-such-scenario")
	assert.False(t, ok)

	// Auxiliaries stay out of the conformance table.
	for _, sc := range scenario.Registry() {
		assert.NotEqual(t, "probe", sc.Name)
		assert.NotEqual(t, "spin", sc.Name)
	}
}

func TestRegistryReturnsFreshCopies(t *testing.T) {
	a := scenario.Registry()
	a[0].TimeoutMs = 1
	a[0].Accepts.Add(fault.ArithmeticFault)

	b := scenario.Registry()
	assert.EqualValues(t, scenario.DefaultTimeoutMs, b[0].TimeoutMs)
	assert.False(t, b[0].Accepts.Contains(fault.ArithmeticFault))
}
