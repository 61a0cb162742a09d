// Package config loads the taskbatch-debug CLI's runtime configuration,
// grounded on the config loading layer of the config/CLI teacher: hardcoded
// defaults, then an optional YAML file, then TASKBATCH_-prefixed
// environment variables, then CLI flags, each layer overriding the last via
// koanf.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// Config is the full set of tunables for the taskbatch-debug harness.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type SchedulerConfig struct {
	MaxPhases int `koanf:"max_phases"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

const (
	DefaultLogLevel           = "info"
	DefaultSchedulerMaxPhases = 64
	DefaultMetricsEnabled     = false
	DefaultMetricsAddr        = "127.0.0.1:9090"

	envPrefix = "TASKBATCH_"
)

// Load assembles a Config from defaults, an optional --config YAML file,
// TASKBATCH_-prefixed environment variables, and the command's own flags,
// in that order of increasing precedence.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"log.level":             DefaultLogLevel,
		"scheduler.max_phases":  DefaultSchedulerMaxPhases,
		"metrics.enabled":       DefaultMetricsEnabled,
		"metrics.addr":          DefaultMetricsAddr,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			if path := strings.TrimSpace(flag.Value.String()); path != "" {
				if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
