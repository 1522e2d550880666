package relay

import (
	"sync"

	"github.com/relay-run/relay/internal/config"
	"github.com/relay-run/relay/internal/logger"
	"github.com/relay-run/relay/internal/store"
)

var (
	settingsMu sync.RWMutex
	current    config.Settings
	ws         *store.Workspace
)

func init() {
	s, err := config.Load("")
	if err != nil {
		logger.Op.Warnf("Ignoring flow configuration: %v", err)
		s = config.Defaults()
	}
	apply(s)
}

func apply(s config.Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current = s
	ws = store.New(s.DataDir)
	_ = logger.SetLevel(s.LogLevel)
}

// LoadConfig replaces the active settings with the ones read from the
// given config file, still honoring RELAY_* environment overrides.
func LoadConfig(path string) error {
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	apply(s)
	return nil
}

// SetDataDir points the artifact workspace at dir. Task ids are unchanged;
// completeness is re-evaluated against the new location.
func SetDataDir(dir string) {
	if dir == "" {
		return
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current.DataDir = dir
	ws = store.New(dir)
}

// DataDir returns the root directory artifacts are stored under.
func DataDir() string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.DataDir
}

// SetWorkers sets the default number of concurrent task slots used by Run.
// Values below one are ignored.
func SetWorkers(n int) {
	if n < 1 {
		return
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current.Workers = n
}

// Workers returns the default worker count.
func Workers() int {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.Workers
}

// SetCheckDependencies controls whether completion scans walk the whole
// upstream graph. When disabled, only the requested tasks are checked and
// their upstream is assumed satisfied.
func SetCheckDependencies(check bool) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current.CheckDependencies = check
}

// CheckDependencies reports whether completion scans include upstream
// tasks.
func CheckDependencies() bool {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.CheckDependencies
}

// SetExecutionSummary controls whether Run prints the end-of-run summary.
func SetExecutionSummary(show bool) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current.ExecutionSummary = show
}

// ExecutionSummary reports whether Run prints the end-of-run summary.
func ExecutionSummary() bool {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.ExecutionSummary
}

// SetLogLevel sets the operational log level ("debug" through "error").
func SetLogLevel(level string) error {
	if err := logger.SetLevel(level); err != nil {
		return err
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	current.LogLevel = level
	return nil
}

// LogLevel returns the active operational log level.
func LogLevel() string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.LogLevel
}

// MonitorAddr returns the listen address configured for the monitor API.
func MonitorAddr() string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current.MonitorAddr
}

func workspace() *store.Workspace {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return ws
}
