// internal/transport/udp_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux socket options via golang.org/x/sys/unix.

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

func socketControl(opts Options) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var serr error
		err := c.Control(func(fd uintptr) {
			if opts.ReuseAddr {
				if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); serr != nil {
					serr = fmt.Errorf("SO_REUSEADDR: %w", serr)
					return
				}
			}
			if opts.RecvBuffer > 0 {
				if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, opts.RecvBuffer); serr != nil {
					serr = fmt.Errorf("SO_RCVBUF: %w", serr)
				}
			}
		})
		if err != nil {
			return err
		}
		return serr
	}
}

// RecvBufferSize reports the kernel receive buffer of conn.
func RecvBufferSize(c syscall.Conn) (int, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return 0, err
	}
	var size int
	var serr error
	err = raw.Control(func(fd uintptr) {
		size, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF)
	})
	if err != nil {
		return 0, err
	}
	return size, serr
}
