//go:build linux

package transport_test

import (
	"context"
	"testing"

	"github.com/momentics/virst/internal/transport"
)

func TestListenUDP_RecvBuffer(t *testing.T) {
	conn, err := transport.ListenUDP(context.Background(), "127.0.0.1:0", transport.Options{ReuseAddr: true, RecvBuffer: 64 * 1024})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	size, err := transport.RecvBufferSize(conn)
	if err != nil {
		t.Fatal(err)
	}
	// Linux doubles the requested value for bookkeeping overhead.
	if size < 64*1024 {
		t.Fatalf("receive buffer %d smaller than requested", size)
	}
}
