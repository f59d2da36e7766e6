package verify_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trapcheck/trapcheck/internal/executor"
	"github.com/trapcheck/trapcheck/internal/sandbox"
	"github.com/trapcheck/trapcheck/internal/scenario"
	"github.com/trapcheck/trapcheck/internal/verify"
)

func TestMain(m *testing.M) {
	if name := os.Getenv(scenario.EnvScenario); name != "" {
		os.Exit(scenario.RunChild(name))
	}
	os.Exit(m.Run())
}

func TestCheckReportsAliveHost(t *testing.T) {
	sb, err := sandbox.New()
	require.NoError(t, err)

	v, err := verify.New(executor.New(sb))
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })

	probe := v.Check(context.Background())
	assert.True(t, probe.Alive)
	assert.Empty(t, probe.Reason)
	assert.GreaterOrEqual(t, probe.Millis, int64(0))
}
