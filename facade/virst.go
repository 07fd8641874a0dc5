// File: facade/virst.go
// Unified facade for the virst core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Virst aggregates the display slot, the tracking service, the asset library,
// the binding session and the control plane behind one handle. Tracker host
// and port are exposed through Control; changing them reconnects a running
// tracker.

package facade

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/momentics/virst/adapters"
	"github.com/momentics/virst/api"
	"github.com/momentics/virst/asset"
	"github.com/momentics/virst/core/concurrency"
	"github.com/momentics/virst/internal/transport"
	"github.com/momentics/virst/tracker"
)

const (
	keyTrackerHost = "tracker.host"
	keyTrackerPort = "tracker.port"
)

// Option customizes facade construction.
type Option func(*Virst)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(v *Virst) {
		if l != nil {
			v.log = l
		}
	}
}

// WithLoader replaces the manifest loader.
func WithLoader(l asset.Loader) Option {
	return func(v *Virst) {
		if l != nil {
			v.loader = l
		}
	}
}

// Virst is the main facade type.
type Virst struct {
	cfg     *Config
	log     *slog.Logger
	loader  asset.Loader
	control *adapters.ControlAdapter

	display *concurrency.Slot[api.Asset]
	tracker *tracker.System
	library *asset.Library
	session *BindingSession
	frames  *FrameConsumer

	mu       sync.Mutex // guards started and endpoint
	started  bool
	endpoint string // address the tracker is, or should be, bound to

	connectMu sync.Mutex // serializes tracker swaps
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Virst)(nil)

// New validates cfg and wires every component. A nil cfg means DefaultConfig.
func New(cfg *Config, opts ...Option) (*Virst, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &Virst{
		cfg:     cfg,
		log:     slog.Default(),
		loader:  asset.ManifestLoader{},
		control: adapters.NewControlAdapter(adapters.WithValidator(validateSettings)),
		display: concurrency.NewSlot[api.Asset](),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.tracker = tracker.New(
		tracker.WithLogger(v.log),
		tracker.WithRecvTimeout(cfg.Tracker.RecvTimeout),
		tracker.WithBufferSize(cfg.Tracker.BufferSize),
		tracker.WithSocketOptions(transport.Options{
			ReuseAddr:  cfg.Tracker.ReuseAddr,
			RecvBuffer: cfg.Tracker.RecvBuffer,
		}),
		tracker.WithMetrics(v.control.Metrics()),
	)
	v.library = asset.NewLibrary(v.loader, v.log)
	v.session = NewBindingSession(v.display, v.tracker.Snapshot())
	v.frames = NewFrameConsumer(v.display, v.session)
	v.endpoint = cfg.Tracker.Addr()

	err := v.control.SetConfig(map[string]any{
		keyTrackerHost: cfg.Tracker.Host,
		keyTrackerPort: cfg.Tracker.Port,
		"frame_rate":   cfg.FrameRate,
	})
	if err != nil {
		return nil, err
	}
	v.control.OnReload(v.onReload)
	v.registerProbes()
	return v, nil
}

func (v *Virst) registerProbes() {
	v.control.RegisterDebugProbe("tracker.active", func() any { return v.tracker.Active() })
	v.control.RegisterDebugProbe("tracker.stats", func() any { return v.tracker.Stats() })
	v.control.RegisterDebugProbe("display.generation", func() any { return v.display.Generation() })
	v.control.RegisterDebugProbe("library.entries", func() any { return v.library.Len() })
	v.control.RegisterDebugProbe("library.busy", func() any { return v.library.Busy() })
}

// Start preloads configured manifests and, when configured, connects the
// tracker. Subsequent calls have no effect. Preload failures are logged;
// a connect failure is returned and leaves the facade stopped.
func (v *Virst) Start(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started {
		return nil
	}
	if paths := v.cfg.Library.Paths; len(paths) > 0 {
		entries, err := v.library.LoadAll(ctx, paths, v.cfg.Library.Parallel)
		if err != nil {
			v.log.Warn("facade: preload incomplete", "loaded", len(entries), "err", err)
		}
	}
	if v.cfg.Tracker.AutoConnect {
		if err := v.tracker.Connect(ctx, v.endpoint); err != nil {
			return fmt.Errorf("facade: connect %s: %w", v.endpoint, err)
		}
	}
	v.started = true
	return nil
}

// Stop disconnects the tracker. Calling Stop on a stopped facade is a no-op.
func (v *Virst) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.started {
		return nil
	}
	v.tracker.Disconnect()
	v.started = false
	return nil
}

// Shutdown implements api.GracefulShutdown. Unlike Stop it also disconnects a
// tracker connected through Reconnect on a never-started facade.
func (v *Virst) Shutdown() error {
	err := v.Stop()
	v.tracker.Disconnect()
	return err
}

// Show publishes the library entry id to the display slot and returns the
// new generation.
func (v *Virst) Show(id uuid.UUID) (uint64, error) {
	e, ok := v.library.Get(id)
	if !ok {
		return 0, fmt.Errorf("facade: asset %s: %w", id, api.ErrNotFound)
	}
	gen := v.display.Swap(e.Asset)
	v.log.Info("facade: showing asset", "name", e.Asset.Name(), "generation", gen)
	return gen, nil
}

// Hide empties the display slot and returns the new generation.
func (v *Virst) Hide() uint64 {
	return v.display.Clear()
}

// HasAsset reports whether an asset is on display.
func (v *Virst) HasAsset() bool {
	a, _ := v.display.Read()
	return a != nil
}

// Current returns the displayed asset and its generation.
func (v *Virst) Current() (api.Asset, uint64) {
	return v.display.Read()
}

// Reconnect disconnects the tracker and connects it to host:port. The new
// endpoint is written back to Control. An invalid endpoint is rejected
// before the running tracker is touched.
func (v *Virst) Reconnect(ctx context.Context, host string, port int) error {
	update := map[string]any{keyTrackerHost: host, keyTrackerPort: port}
	if err := validateSettings(update); err != nil {
		return err
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	v.mu.Lock()
	v.endpoint = addr
	v.mu.Unlock()
	// The reload hook sees an unchanged endpoint and does nothing.
	if err := v.control.SetConfig(update); err != nil {
		return err
	}
	return v.connect(ctx, addr)
}

// ResetTracking clears the tracker snapshot and the session's accumulated
// view. Call it from the UI goroutine.
func (v *Virst) ResetTracking() {
	v.tracker.Reset()
	v.session.ResetView()
}

// connect swaps the tracker onto addr. Concurrent callers are serialized so
// Disconnect and Connect pair up.
func (v *Virst) connect(ctx context.Context, addr string) error {
	v.connectMu.Lock()
	defer v.connectMu.Unlock()
	v.tracker.Disconnect()
	if err := v.tracker.Connect(ctx, addr); err != nil {
		return fmt.Errorf("facade: connect %s: %w", addr, err)
	}
	return nil
}

// onReload applies tracker endpoint changes made through Control.
func (v *Virst) onReload() {
	cfg := v.control.GetConfig()
	host, _ := cfg[keyTrackerHost].(string)
	port, _ := intValue(cfg[keyTrackerPort])
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	v.mu.Lock()
	if addr == v.endpoint {
		v.mu.Unlock()
		return
	}
	v.endpoint = addr
	v.mu.Unlock()

	if !v.tracker.Active() {
		return
	}
	if err := v.connect(context.Background(), addr); err != nil {
		v.log.Error("facade: reconnect after reload failed", "addr", addr, "err", err)
		return
	}
	v.log.Info("facade: tracker reconnected", "addr", addr)
}

// validateSettings rejects runtime updates the tracker could not bind.
func validateSettings(update map[string]any) error {
	if raw, ok := update[keyTrackerPort]; ok {
		port, ok := intValue(raw)
		if !ok || port < 0 || port > 65535 {
			return api.NewError(api.ErrCodeInvalidArgument, "tracker port out of range").
				WithContext("field", keyTrackerPort).
				WithContext("value", raw)
		}
	}
	if raw, ok := update[keyTrackerHost]; ok {
		if _, ok := raw.(string); !ok {
			return api.NewError(api.ErrCodeInvalidArgument, "tracker host must be a string").
				WithContext("field", keyTrackerHost).
				WithContext("value", raw)
		}
	}
	return nil
}

func intValue(x any) (int, bool) {
	switch n := x.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// Control returns the control plane.
func (v *Virst) Control() api.Control { return v.control }

// Tracker returns the tracking service.
func (v *Virst) Tracker() *tracker.System { return v.tracker }

// Library returns the asset library.
func (v *Virst) Library() *asset.Library { return v.library }

// Session returns the binding session. UI goroutine only.
func (v *Virst) Session() *BindingSession { return v.session }

// Frames returns the frame consumer. UI goroutine only.
func (v *Virst) Frames() *FrameConsumer { return v.frames }

// Config returns the configuration the facade was built with.
func (v *Virst) Config() *Config { return v.cfg }
