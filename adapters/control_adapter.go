// Package adapters
// Author: momentics <momentics@gmail.com>
//
// api.Control over the control package: runtime settings with optional
// validation, counters and debug probes of one virst instance.

package adapters

import (
	"github.com/momentics/virst/api"
	"github.com/momentics/virst/control"
)

var _ api.Control = (*ControlAdapter)(nil)

// Validator inspects a settings update before it is applied. Returning an
// error rejects the whole update and no reload hook runs.
type Validator func(update map[string]any) error

// ControlOption customizes a ControlAdapter.
type ControlOption func(*ControlAdapter)

// WithValidator installs a settings validator.
func WithValidator(v Validator) ControlOption {
	return func(c *ControlAdapter) {
		c.validate = v
	}
}

// ControlAdapter is the control plane of a virst instance.
type ControlAdapter struct {
	settings *control.ConfigStore
	counters *control.MetricsRegistry
	probes   *control.DebugProbes
	validate Validator
}

// NewControlAdapter returns an adapter with platform probes registered.
func NewControlAdapter(opts ...ControlOption) *ControlAdapter {
	c := &ControlAdapter{
		settings: control.NewConfigStore(),
		counters: control.NewMetricsRegistry(),
		probes:   control.NewDebugProbes(),
	}
	for _, opt := range opts {
		opt(c)
	}
	control.RegisterPlatformProbes(c.probes)
	return c
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.settings.GetSnapshot()
}

// SetConfig validates update and merges it into the settings. Reload hooks
// run synchronously when a value changed.
func (c *ControlAdapter) SetConfig(update map[string]any) error {
	if c.validate != nil {
		if err := c.validate(update); err != nil {
			return err
		}
	}
	c.settings.SetConfig(update)
	return nil
}

// Stats returns counters plus probe values under the "debug." prefix and the
// time counters last changed under "metrics.updated".
func (c *ControlAdapter) Stats() map[string]any {
	out := c.counters.GetSnapshot()
	for k, v := range c.probes.DumpState() {
		out["debug."+k] = v
	}
	if ts := c.counters.Updated(); !ts.IsZero() {
		out["metrics.updated"] = ts
	}
	return out
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.settings.OnReload(fn)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.probes.RegisterProbe(name, fn)
}

// DumpProbes evaluates only the debug probes.
func (c *ControlAdapter) DumpProbes() map[string]any {
	return c.probes.DumpState()
}

// Metrics exposes the registry for components that publish counters.
func (c *ControlAdapter) Metrics() *control.MetricsRegistry {
	return c.counters
}
