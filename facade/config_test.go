package facade

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/momentics/virst/api"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "virst.yaml")
	body := `
tracker:
  host: 127.0.0.1
  port: 39540
  recv_timeout: 250ms
library:
  paths: [a.yaml, b.yaml]
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VIRST_TRACKER_PORT", "40000")
	t.Setenv("VIRST_OTEL_ENDPOINT", "http://collector:4318")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Tracker.Host != "127.0.0.1" {
		t.Errorf("host = %q, file value lost", cfg.Tracker.Host)
	}
	if cfg.Tracker.Port != 40000 {
		t.Errorf("port = %d, env override lost", cfg.Tracker.Port)
	}
	if cfg.Tracker.RecvTimeout != 250*time.Millisecond {
		t.Errorf("recv_timeout = %v", cfg.Tracker.RecvTimeout)
	}
	if !reflect.DeepEqual(cfg.Library.Paths, []string{"a.yaml", "b.yaml"}) {
		t.Errorf("paths = %v", cfg.Library.Paths)
	}
	if cfg.Telemetry.Endpoint != "http://collector:4318" {
		t.Errorf("endpoint = %q", cfg.Telemetry.Endpoint)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("frame_rate default lost: %d", cfg.FrameRate)
	}
	if cfg.Tracker.Addr() != "127.0.0.1:40000" {
		t.Errorf("addr = %q", cfg.Tracker.Addr())
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("VIRST_LIBRARY_PATHS", "x.yaml,y.yaml")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Library.Paths) != 2 {
		t.Fatalf("paths = %v", cfg.Library.Paths)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
	t.Setenv("VIRST_TRACKER_PORT", "not-a-number")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("bad env value should fail")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*Config)
	}{
		{"tracker.port", func(c *Config) { c.Tracker.Port = 70000 }},
		{"tracker.host", func(c *Config) { c.Tracker.Host = ""; c.Tracker.AutoConnect = true }},
		{"tracker.recv_timeout", func(c *Config) { c.Tracker.RecvTimeout = 0 }},
		{"tracker.buffer_size", func(c *Config) { c.Tracker.BufferSize = 16 }},
		{"tracker.recv_buffer", func(c *Config) { c.Tracker.RecvBuffer = -1 }},
		{"library.parallel", func(c *Config) { c.Library.Parallel = 0 }},
		{"frame_rate", func(c *Config) { c.FrameRate = 0 }},
		{"log.level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, c := range cases {
		t.Run(c.field, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, api.ErrInvalidArgument) {
				t.Fatalf("err = %v", err)
			}
			var apiErr *api.Error
			if !errors.As(err, &apiErr) || apiErr.Context["field"] != c.field {
				t.Fatalf("wrong field context: %v", err)
			}
		})
	}
}
