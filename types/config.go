/*
Copyright © 2025 DerithAI
*/
package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool         `mapstructure:"verbose"`
	Config  string       `mapstructure:"config"`
	Den     DenConfig    `mapstructure:"den" validate:"required"`
	Data    DataConfig   `mapstructure:"data" validate:"required"`
	Daemon  DaemonConfig `mapstructure:"daemon" validate:"required"`
	Hunt    HuntConfig   `mapstructure:"hunt" validate:"required"`
	API     APIConfig    `mapstructure:"api" validate:"omitempty"`
	Memory  MemoryConfig `mapstructure:"memory" validate:"omitempty"`
}

// DenConfig holds the filesystem layout of the den (the working directory
// where state, bridge files and logs live)
type DenConfig struct {
	RootDir   string `mapstructure:"rootDir" validate:"required"`
	BridgeDir string `mapstructure:"bridgeDir" validate:"required"`
	LogsDir   string `mapstructure:"logsDir" validate:"required"`
}

// DataConfig holds hunt storage configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// DaemonConfig holds the background processor settings
type DaemonConfig struct {
	// IntervalSeconds is the sleep between scheduler passes
	IntervalSeconds float64 `mapstructure:"intervalSeconds" validate:"required,gt=0"`
	// GraceSeconds bounds the wait for an in-flight hunt on stop
	GraceSeconds int `mapstructure:"graceSeconds" validate:"required,min=1"`
}

// Interval returns the scheduler pass interval as a duration.
func (d DaemonConfig) Interval() time.Duration {
	return time.Duration(d.IntervalSeconds * float64(time.Second))
}

// Grace returns the stop grace period as a duration.
func (d DaemonConfig) Grace() time.Duration {
	return time.Duration(d.GraceSeconds) * time.Second
}

// HuntConfig holds executor defaults applied when a producer omits them
type HuntConfig struct {
	RetryLimit     int `mapstructure:"retryLimit" validate:"min=0,max=10"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"min=1,max=3600"`
}

// APIConfig holds the HTTP server settings
type APIConfig struct {
	Host string `mapstructure:"host" validate:"omitempty"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	// Key is required in the X-API-Key header of every request
	Key string `mapstructure:"key" validate:"omitempty,min=8"`
}

// MemoryConfig selects the pack memory backend
type MemoryConfig struct {
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=json sqlite"`
}
