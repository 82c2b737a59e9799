// Package config loads a Tree's policy knobs from a YAML file with viper,
// the way the teacher's internal/config package loads its agent config:
// one root key, environment-variable overrides, defaults set before
// unmarshal. This is a REDESIGN beyond the distilled design, which only
// exposes these knobs as constructor/option calls — a deployment that wants
// to tune them without a recompile needs a config file, so it's added here
// as the domain-stack config component.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TreeConfig maps to the `tasktree:` root key in YAML; env vars use a
// TASKTREE_ prefix (e.g. TASKTREE_GC_INTERVAL).
type TreeConfig struct {
	RemoveTaskAfterDone time.Duration   `mapstructure:"remove_task_after_done"`
	PumpInterval        time.Duration   `mapstructure:"pump_interval"`
	GCInterval          time.Duration   `mapstructure:"gc_interval"`
	ForceFlush          bool            `mapstructure:"force_flush"`
	Reporters           ReportersConfig `mapstructure:"reporters"`
}

// ReportersConfig selects and configures the built-in reporters.
type ReportersConfig struct {
	Stdio StdioConfig `mapstructure:"stdio"`
}

// StdioConfig configures the Stdio text reporter.
type StdioConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	LogTaskStart bool   `mapstructure:"log_task_start"`
	MaxLogLevel  string `mapstructure:"max_log_level"`

	// File, when non-empty, routes the reporter to a rotating log file via
	// lumberjack instead of stderr.
	File          string `mapstructure:"file"`
	FileMaxSizeMB int    `mapstructure:"file_max_size_mb"`
	FileMaxAgeDay int    `mapstructure:"file_max_age_days"`
	FileCompress  bool   `mapstructure:"file_compress"`
}

type configRoot struct {
	TaskTree TreeConfig `mapstructure:"tasktree"`
}

// Load reads path (YAML) into a TreeConfig, applying defaults first and
// environment-variable overrides last, the same precedence order as the
// teacher's Load.
func Load(path string) (*TreeConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

// Watch loads path once, then calls onChange with the newly parsed config
// every time the file changes on disk, via viper's fsnotify-backed watcher.
// It returns a stop function and the initial config. The stop function does
// nothing: the viper watcher keeps running for the life of the process.
func Watch(path string, onChange func(*TreeConfig)) (stop func(), initial *TreeConfig, err error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	initial, err = unmarshal(v)
	if err != nil {
		return nil, nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		if cfg, err := unmarshal(v); err == nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
	return func() {}, initial, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tasktree.remove_task_after_done", 5*time.Second)
	v.SetDefault("tasktree.pump_interval", 10*time.Millisecond)
	v.SetDefault("tasktree.gc_interval", 500*time.Millisecond)
	v.SetDefault("tasktree.force_flush", false)
	v.SetDefault("tasktree.reporters.stdio.enabled", true)
	v.SetDefault("tasktree.reporters.stdio.log_task_start", false)
	v.SetDefault("tasktree.reporters.stdio.max_log_level", "l1")
	v.SetDefault("tasktree.reporters.stdio.file_max_size_mb", 100)
	v.SetDefault("tasktree.reporters.stdio.file_max_age_days", 30)
}

func unmarshal(v *viper.Viper) (*TreeConfig, error) {
	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.TaskTree
	return &cfg, nil
}
