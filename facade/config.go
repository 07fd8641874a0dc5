// File: facade/config.go
// Runtime configuration for the virst facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Precedence: DefaultConfig, then the optional YAML file, then VIRST_*
// environment variables. Environment parsing carries no envDefault tags so
// that unset variables never clobber values from the file.

package facade

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/momentics/virst/api"
	"github.com/momentics/virst/core/protocol"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VIRST_"

// Config holds parameters fixed for one run. Tracker host and port may be
// changed later through the Control interface, which reconnects.
type Config struct {
	Tracker   TrackerConfig   `yaml:"tracker" envPrefix:"TRACKER_"`
	Library   LibraryConfig   `yaml:"library" envPrefix:"LIBRARY_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"OTEL_"`
	FrameRate int             `yaml:"frame_rate" env:"FRAME_RATE"` // consumer frames per second
}

// TrackerConfig configures the VMC receiver.
type TrackerConfig struct {
	Host        string        `yaml:"host" env:"HOST"`
	Port        int           `yaml:"port" env:"PORT"`
	AutoConnect bool          `yaml:"auto_connect" env:"AUTO_CONNECT"`
	RecvTimeout time.Duration `yaml:"recv_timeout" env:"RECV_TIMEOUT"`
	BufferSize  int           `yaml:"buffer_size" env:"BUFFER_SIZE"`
	ReuseAddr   bool          `yaml:"reuse_addr" env:"REUSE_ADDR"`
	RecvBuffer  int           `yaml:"recv_buffer" env:"RECV_BUFFER"` // SO_RCVBUF, 0 keeps the OS default
}

// Addr joins host and port.
func (t TrackerConfig) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// LibraryConfig lists manifests preloaded on Start.
type LibraryConfig struct {
	Paths    []string `yaml:"paths" env:"PATHS" envSeparator:","`
	Parallel int      `yaml:"parallel" env:"PARALLEL"`
}

// LogConfig selects the slog level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// SlogLevel parses Level. Validate guarantees it parses.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// TelemetryConfig enables OTLP/HTTP tracing when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// DefaultConfig returns defaults suitable for a local VMC performer.
func DefaultConfig() *Config {
	return &Config{
		Tracker: TrackerConfig{
			Host:        "0.0.0.0",
			Port:        protocol.DefaultPort,
			RecvTimeout: 500 * time.Millisecond,
			BufferSize:  protocol.MaxPacketSize,
		},
		Library:   LibraryConfig{Parallel: 4},
		Log:       LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{ServiceName: "virst"},
		FrameRate: 60,
	}
}

// LoadConfig builds a Config from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges. Errors are *api.Error with ErrCodeInvalidArgument.
func (c *Config) Validate() error {
	invalid := func(field string, value any, msg string) error {
		return api.NewError(api.ErrCodeInvalidArgument, msg).
			WithContext("field", field).
			WithContext("value", value)
	}
	t := c.Tracker
	if t.Port < 0 || t.Port > 65535 {
		return invalid("tracker.port", t.Port, "port out of range")
	}
	if t.AutoConnect && t.Host == "" {
		return invalid("tracker.host", t.Host, "host required for auto_connect")
	}
	if t.RecvTimeout <= 0 {
		return invalid("tracker.recv_timeout", t.RecvTimeout, "receive timeout must be positive")
	}
	if t.BufferSize < 512 || t.BufferSize > protocol.MaxPacketSize {
		return invalid("tracker.buffer_size", t.BufferSize, "buffer size out of range")
	}
	if t.RecvBuffer < 0 {
		return invalid("tracker.recv_buffer", t.RecvBuffer, "socket buffer must not be negative")
	}
	if c.Library.Parallel < 1 {
		return invalid("library.parallel", c.Library.Parallel, "parallelism must be at least 1")
	}
	if c.FrameRate < 1 || c.FrameRate > 1000 {
		return invalid("frame_rate", c.FrameRate, "frame rate out of range")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return invalid("log.level", c.Log.Level, "unknown log level")
	}
	return nil
}
