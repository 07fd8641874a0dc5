// Package transport
// Author: momentics <momentics@gmail.com>
//
// Platform-independent UDP listener factory for tracking ingest.
// Socket options are applied before bind by platform-specific control hooks.

package transport

import (
	"context"
	"fmt"
	"net"
)

// Options tunes the receive socket.
type Options struct {
	// ReuseAddr sets SO_REUSEADDR so a restarted listener can rebind at once.
	ReuseAddr bool
	// RecvBuffer sets SO_RCVBUF in bytes. Zero keeps the OS default.
	RecvBuffer int
}

// ListenUDP binds a UDP socket on addr ("host:port") with opts applied.
func ListenUDP(ctx context.Context, addr string, opts Options) (*net.UDPConn, error) {
	if opts.RecvBuffer < 0 {
		return nil, fmt.Errorf("bind %s: negative receive buffer %d", addr, opts.RecvBuffer)
	}
	lc := net.ListenConfig{Control: socketControl(opts)}
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return nil, fmt.Errorf("bind %s: unexpected packet conn %T", addr, pc)
	}
	return conn, nil
}
