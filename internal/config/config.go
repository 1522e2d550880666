// Package config loads relay settings from defaults, an optional relay.yaml
// and RELAY_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/relay-run/relay/internal/flowerr"
)

const (
	envPrefix  = "RELAY"
	configName = "relay"
	configType = "yaml"
)

// Settings holds the tunables that apply to every flow in a process.
type Settings struct {
	// DataDir is the workspace root where task artifacts and run reports
	// are persisted.
	DataDir string `mapstructure:"data_dir"`

	// Workers is the default number of tasks executed concurrently.
	Workers int `mapstructure:"workers"`

	// CheckDependencies controls whether completion checks walk the full
	// upstream graph or only the explicitly requested tasks.
	CheckDependencies bool `mapstructure:"check_dependencies"`

	// ExecutionSummary controls whether a summary box is printed after
	// each run.
	ExecutionSummary bool `mapstructure:"execution_summary"`

	// LogLevel names the level applied to the shared logger.
	LogLevel string `mapstructure:"log_level"`

	// MonitorAddr is the listen address of the status HTTP server.
	MonitorAddr string `mapstructure:"monitor_addr"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		DataDir:           "data",
		Workers:           1,
		CheckDependencies: true,
		ExecutionSummary:  true,
		LogLevel:          "info",
		MonitorAddr:       ":8077",
	}
}

// Load resolves settings from defaults, then an optional config file, then
// the environment. explicitPath forces a specific config file; when empty,
// relay.yaml is searched in the working directory and a missing file is not
// an error.
func Load(explicitPath string) (Settings, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("check_dependencies", defaults.CheckDependencies)
	v.SetDefault("execution_summary", defaults.ExecutionSummary)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("monitor_addr", defaults.MonitorAddr)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values the engine cannot work with.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return flowerr.NewConfigError("data_dir", s.DataDir, nil)
	}
	if s.Workers < 1 {
		return flowerr.NewConfigError("workers", s.Workers, nil)
	}
	if _, err := logrus.ParseLevel(strings.ToLower(s.LogLevel)); err != nil {
		return flowerr.NewConfigError("log_level", s.LogLevel, err)
	}
	return nil
}
