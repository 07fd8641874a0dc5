package adapters_test

import (
	"errors"
	"testing"

	"github.com/momentics/virst/adapters"
	"github.com/momentics/virst/api"
)

func TestControlAdapterReload(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	if len(ctrl.GetConfig()) != 0 {
		t.Error("Expected empty config on init")
	}
	called := 0
	ctrl.OnReload(func() { called++ })
	if err := ctrl.SetConfig(map[string]any{"tracker.host": "127.0.0.1"}); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SetConfig(map[string]any{"tracker.host": "127.0.0.1"}); err != nil {
		t.Fatal(err)
	}
	if called != 1 {
		t.Errorf("Reload hook called %d times, want 1", called)
	}
	if ctrl.GetConfig()["tracker.host"] != "127.0.0.1" {
		t.Error("SetConfig did not apply")
	}
}

func TestControlAdapterValidatorRejects(t *testing.T) {
	ctrl := adapters.NewControlAdapter(adapters.WithValidator(func(u map[string]any) error {
		if _, ok := u["tracker.port"].(string); ok {
			return api.NewError(api.ErrCodeInvalidArgument, "port must be numeric")
		}
		return nil
	}))
	called := 0
	ctrl.OnReload(func() { called++ })

	err := ctrl.SetConfig(map[string]any{"tracker.port": "x", "tracker.host": "h"})
	if !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if called != 0 || len(ctrl.GetConfig()) != 0 {
		t.Fatal("rejected update was partially applied")
	}
}

func TestControlAdapterStats(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	ctrl.Metrics().Add("tracker.packets", 3)
	ctrl.RegisterDebugProbe("tracker.active", func() any { return false })

	stats := ctrl.Stats()
	if stats["tracker.packets"] != uint64(3) {
		t.Errorf("tracker.packets = %v", stats["tracker.packets"])
	}
	if stats["debug.tracker.active"] != false {
		t.Errorf("probe missing from stats: %v", stats)
	}
	if _, ok := stats["debug.platform.cpus"]; !ok {
		t.Error("platform probe missing")
	}
	if _, ok := stats["metrics.updated"]; !ok {
		t.Error("metrics.updated missing after a counter write")
	}
	if _, ok := ctrl.DumpProbes()["tracker.active"]; !ok {
		t.Error("DumpProbes missing probe")
	}
}
