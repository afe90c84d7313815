package config

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	current  atomic.Pointer[Config]
	initOnce sync.Once
)

// Initialize loads path (defaults when empty) plus environment overrides
// into the process-wide configuration. Only the first call has any effect.
func Initialize(path string) error {
	var err error
	initOnce.Do(func() {
		var cfg *Config
		if cfg, err = LoadConfigWithEnvOverrides(path); err == nil {
			SetConfig(cfg)
		}
	})
	return err
}

// GetConfig returns the process-wide configuration or nil.
func GetConfig() *Config { return current.Load() }

// SetConfig replaces the process-wide configuration. Commands that build
// their configuration from flags and tests use it directly.
func SetConfig(cfg *Config) { current.Store(cfg) }

// ReloadConfig swaps in the configuration at path. On any load or
// validation error the previous configuration stays active.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// MustGetConfig is GetConfig for callers that cannot run without one.
func MustGetConfig() *Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	panic("configuration not initialized: call Initialize first")
}
