package relay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWorkersIgnoresInvalidValues(t *testing.T) {
	setupWorkspace(t)
	SetWorkers(4)
	assert.Equal(t, 4, Workers())
	SetWorkers(0)
	assert.Equal(t, 4, Workers())
	SetWorkers(-3)
	assert.Equal(t, 4, Workers())
	SetWorkers(1)
}

func TestSetLogLevel(t *testing.T) {
	setupWorkspace(t)
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, "debug", LogLevel())
	assert.Error(t, SetLogLevel("chatty"))
	assert.Equal(t, "debug", LogLevel(), "a rejected level leaves the setting untouched")
	require.NoError(t, SetLogLevel("info"))
}

func TestSetCheckDependenciesAndSummaryToggles(t *testing.T) {
	setupWorkspace(t)
	SetCheckDependencies(false)
	assert.False(t, CheckDependencies())
	SetCheckDependencies(true)
	assert.True(t, CheckDependencies())

	SetExecutionSummary(true)
	assert.True(t, ExecutionSummary())
	SetExecutionSummary(false)
	assert.False(t, ExecutionSummary())
}

func TestSetDataDirIgnoresEmpty(t *testing.T) {
	setupWorkspace(t)
	dir := DataDir()
	SetDataDir("")
	assert.Equal(t, dir, DataDir())
}

func TestLoadConfigAppliesFile(t *testing.T) {
	setupWorkspace(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	cfg := "data_dir: " + filepath.Join(dir, "artifacts") + "\nworkers: 3\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, filepath.Join(dir, "artifacts"), DataDir())
	assert.Equal(t, 3, Workers())
	assert.Equal(t, "warn", LogLevel())

	require.Error(t, LoadConfig(filepath.Join(dir, "missing.yaml")))

	SetWorkers(1)
	require.NoError(t, SetLogLevel("info"))
}
