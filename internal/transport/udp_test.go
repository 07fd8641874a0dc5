package transport_test

import (
	"context"
	"net"
	"testing"

	"github.com/momentics/virst/internal/transport"
)

func TestListenUDP_Loopback(t *testing.T) {
	conn, err := transport.ListenUDP(context.Background(), "127.0.0.1:0", transport.Options{})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer conn.Close()
	if conn.LocalAddr().(*net.UDPAddr).Port == 0 {
		t.Fatal("expected an ephemeral port")
	}
}

func TestListenUDP_AddressInUse(t *testing.T) {
	first, err := transport.ListenUDP(context.Background(), "127.0.0.1:0", transport.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	_, err = transport.ListenUDP(context.Background(), first.LocalAddr().String(), transport.Options{})
	if err == nil {
		t.Fatal("expected bind failure on a busy port")
	}
}

func TestListenUDP_BadAddress(t *testing.T) {
	if _, err := transport.ListenUDP(context.Background(), "256.0.0.1:1", transport.Options{}); err == nil {
		t.Fatal("expected resolve failure")
	}
	if _, err := transport.ListenUDP(context.Background(), "127.0.0.1:0", transport.Options{RecvBuffer: -1}); err == nil {
		t.Fatal("expected negative buffer rejection")
	}
}
