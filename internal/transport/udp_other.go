//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"syscall"

	"github.com/momentics/virst/api"
)

// Socket options are not tuned on this platform; the OS defaults apply.
func socketControl(Options) func(network, address string, c syscall.RawConn) error {
	return nil
}

// RecvBufferSize is not available on this platform.
func RecvBufferSize(syscall.Conn) (int, error) {
	return 0, api.ErrInvalidArgument
}
