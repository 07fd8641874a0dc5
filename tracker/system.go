// File: tracker/system.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// System supervises the VMC ingest worker.

package tracker

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/momentics/virst/api"
	"github.com/momentics/virst/internal/transport"
)

var tracer = otel.Tracer("github.com/momentics/virst/tracker")

// Stats is a point-in-time copy of worker counters.
type Stats struct {
	Packets  uint64 // datagrams received
	Updates  uint64 // channel updates applied
	Dropped  uint64 // datagrams rejected by the decoder
	IOErrors uint64 // non-timeout receive errors
	Panics   uint64 // recovered worker panics
}

// handle is the bookkeeping for one spawned worker.
type handle struct {
	conn *net.UDPConn
	done chan struct{}
}

// System owns the shared snapshot and at most one ingest worker.
type System struct {
	mu     sync.Mutex // serializes Connect/Disconnect and guards worker
	worker *handle
	abort  atomic.Bool

	data *SharedSnapshot
	opts options
	log  *slog.Logger

	packets  atomic.Uint64
	updates  atomic.Uint64
	dropped  atomic.Uint64
	ioErrors atomic.Uint64
	panics   atomic.Uint64
}

// New returns an idle System.
func New(opts ...Option) *System {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &System{
		data: newSharedSnapshot(),
		opts: o,
		log:  o.logger,
	}
}

// Connect binds addr and starts the ingest worker. Bind failures are
// returned here and leave the System idle. A System that still holds a
// worker handle, even one whose worker has died, returns
// api.ErrAlreadyConnected.
func (s *System) Connect(ctx context.Context, addr string) error {
	ctx, span := tracer.Start(ctx, "tracker.Connect")
	span.SetAttributes(attribute.String("tracker.addr", addr))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker != nil {
		span.SetStatus(codes.Error, api.ErrAlreadyConnected.Error())
		return api.ErrAlreadyConnected
	}

	s.abort.Store(false)
	h := &handle{done: make(chan struct{})}
	ready := make(chan error, 1)
	go s.run(ctx, addr, h, ready)

	if err := <-ready; err != nil {
		<-h.done
		span.RecordError(err)
		span.SetStatus(codes.Error, "bind failed")
		return err
	}
	s.worker = h
	return nil
}

// Disconnect stops the worker and waits for it to exit. It is a no-op when
// no worker handle exists.
func (s *System) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.worker
	if h == nil {
		return
	}
	s.abort.Store(true)
	// Pull the deadline in so a blocked receive returns immediately.
	// Errors here only mean the worker already closed the socket.
	_ = h.conn.SetReadDeadline(time.Now())
	<-h.done
	s.worker = nil
	s.log.Info("tracker: disconnected")
}

// Active reports whether a worker handle exists and the worker is running.
func (s *System) Active() bool {
	s.mu.Lock()
	h := s.worker
	s.mu.Unlock()
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Addr returns the bound local address, or nil when idle.
func (s *System) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker == nil {
		return nil
	}
	return s.worker.conn.LocalAddr()
}

// Snapshot returns the shared snapshot. It stays valid across reconnects.
func (s *System) Snapshot() *SharedSnapshot {
	return s.data
}

// Reset clears the shared snapshot regardless of connection state.
func (s *System) Reset() {
	s.data.Reset()
}

// Stats returns the worker counters accumulated since New.
func (s *System) Stats() Stats {
	return Stats{
		Packets:  s.packets.Load(),
		Updates:  s.updates.Load(),
		Dropped:  s.dropped.Load(),
		IOErrors: s.ioErrors.Load(),
		Panics:   s.panics.Load(),
	}
}

// Shutdown implements api.GracefulShutdown.
func (s *System) Shutdown() error {
	s.Disconnect()
	return nil
}

func (s *System) count(c *atomic.Uint64, key string, delta uint64) {
	c.Add(delta)
	if s.opts.metrics != nil {
		s.opts.metrics.Add("tracker."+key, delta)
	}
}

// run is the worker body. It reports the bind outcome on ready exactly once.
func (s *System) run(ctx context.Context, addr string, h *handle, ready chan<- error) {
	defer close(h.done)

	conn, err := transport.ListenUDP(ctx, addr, s.opts.socket)
	if err != nil {
		s.log.Error("tracker: bind failed", "addr", addr, "err", err)
		ready <- err
		return
	}
	h.conn = conn
	ready <- nil
	defer conn.Close()

	buf := s.opts.buffers.GetBuffer()
	defer s.opts.buffers.PutBuffer(buf)

	defer func() {
		if r := recover(); r != nil {
			s.count(&s.panics, "panics", 1)
			s.log.Error("tracker: worker panic", "panic", r, "stack", string(debug.Stack()))
		}
		s.log.Info("tracker: worker exited", "addr", addr)
	}()

	s.log.Info("tracker: listening", "addr", conn.LocalAddr().String())
	for {
		if s.abort.Load() {
			return
		}
		if err := conn.SetReadDeadline(time.Now().Add(s.opts.recvTimeout)); err != nil {
			s.log.Warn("tracker: set deadline", "err", err)
		}
		if s.abort.Load() {
			return
		}
		n, from, err := conn.ReadFromUDP(*buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.count(&s.ioErrors, "io_errors", 1)
			s.log.Warn("tracker: receive error", "err", err)
			continue
		}
		s.count(&s.packets, "packets", 1)

		updates, err := s.opts.decode((*buf)[:n])
		if err != nil {
			s.count(&s.dropped, "dropped", 1)
			s.log.Debug("tracker: dropping packet", "from", from.String(), "size", n, "err", err)
			continue
		}
		s.data.Apply(updates)
		s.count(&s.updates, "updates", uint64(len(updates)))
	}
}
