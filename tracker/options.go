// File: tracker/options.go
// Package tracker defines functional options for the tracking System.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tracker

import (
	"log/slog"
	"time"

	"github.com/momentics/virst/api"
	"github.com/momentics/virst/control"
	"github.com/momentics/virst/core/protocol"
	"github.com/momentics/virst/internal/transport"
	"github.com/momentics/virst/pool"
)

// DefaultRecvTimeout bounds how long the worker blocks in a single receive,
// and therefore the worst-case Disconnect latency.
const DefaultRecvTimeout = 500 * time.Millisecond

// DecodeFunc turns one datagram into channel updates.
type DecodeFunc func(raw []byte) ([]api.ChannelUpdate, error)

type options struct {
	recvTimeout time.Duration
	buffers     *pool.BytePool
	socket      transport.Options
	decode      DecodeFunc
	logger      *slog.Logger
	metrics     *control.MetricsRegistry
}

func defaultOptions() options {
	return options{
		recvTimeout: DefaultRecvTimeout,
		buffers:     pool.Datagrams(),
		decode:      protocol.DecodeVMC,
		logger:      slog.Default(),
	}
}

// Option customizes System initialization.
type Option func(*options)

// WithRecvTimeout overrides the per-receive timeout.
func WithRecvTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.recvTimeout = d
		}
	}
}

// WithBufferSize sets the receive buffer length. Datagrams longer than this
// are truncated by the kernel and will fail to decode.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 && n != pool.Datagrams().Size() {
			o.buffers = pool.NewBytePool(n)
		}
	}
}

// WithSocketOptions sets platform socket options applied before bind.
func WithSocketOptions(so transport.Options) Option {
	return func(o *options) {
		o.socket = so
	}
}

// WithDecoder replaces the VMC decoder.
func WithDecoder(fn DecodeFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.decode = fn
		}
	}
}

// WithLogger sets the logger used by the worker.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics mirrors worker counters into a control registry under the
// "tracker." prefix.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(o *options) {
		o.metrics = m
	}
}
