package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/momentics/virst/api"
	"github.com/momentics/virst/control"
	"github.com/momentics/virst/core/protocol"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSystem(opts ...Option) *System {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func send(t *testing.T, addr net.Addr, raw []byte) {
	t.Helper()
	conn, err := net.Dial("udp", addr.String())
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	defer conn.Close()
	if _, err := conn.Write(raw); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func blendPacket(t *testing.T, name string, w float32) []byte {
	t.Helper()
	raw, err := protocol.EncodeMessage(protocol.BlendMessage(name, w))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return raw
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDisconnectWhenNeverConnected(t *testing.T) {
	s := newTestSystem()
	s.Disconnect()
	s.Disconnect()
	if s.Active() {
		t.Fatal("idle system reports active")
	}
	if s.Addr() != nil {
		t.Fatal("idle system has an address")
	}
}

func TestConnectTwiceFails(t *testing.T) {
	s := newTestSystem()
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Disconnect()

	err := s.Connect(context.Background(), "127.0.0.1:0")
	if !errors.Is(err, api.ErrAlreadyConnected) {
		t.Fatalf("second connect: got %v, want ErrAlreadyConnected", err)
	}
	if !s.Active() {
		t.Fatal("first worker must keep running")
	}
}

func TestDisconnectLatency(t *testing.T) {
	s := newTestSystem()
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	// Let the worker settle into a blocking receive.
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	s.Disconnect()
	if d := time.Since(start); d > DefaultRecvTimeout+250*time.Millisecond {
		t.Fatalf("disconnect took %v", d)
	}
	if s.Active() {
		t.Fatal("still active after disconnect")
	}
}

func TestConnectBindFailureIsSynchronous(t *testing.T) {
	busy, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	s := newTestSystem()
	if err := s.Connect(context.Background(), busy.LocalAddr().String()); err == nil {
		s.Disconnect()
		t.Fatal("expected bind error for address in use")
	}
	if s.Active() {
		t.Fatal("failed connect left the system active")
	}
	if err := s.Connect(context.Background(), "not an address"); err == nil {
		s.Disconnect()
		t.Fatal("expected error for malformed address")
	}
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect after bind failure: %v", err)
	}
	s.Disconnect()
}

func TestPacketsUpdateSnapshot(t *testing.T) {
	metrics := control.NewMetricsRegistry()
	s := newTestSystem(WithMetrics(metrics))
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Disconnect()

	bone := api.BoneValues{X: 0.1, Y: 1.2, Z: -0.3}
	raw, err := protocol.EncodeBundle(1,
		protocol.BlendMessage("A", 0.5),
		protocol.BoneMessage("Head", bone),
	)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	send(t, s.Addr(), raw)

	// The metrics mirror is written last, after the snapshot update.
	waitFor(t, "snapshot update", func() bool { return metrics.Counter("tracker.updates") == 2 })
	snap := s.Snapshot().Clone()
	if w, ok := snap.Blendshape("A"); !ok || w != 0.5 {
		t.Fatalf("blendshape A = %v,%v", w, ok)
	}
	if y, ok := snap.BoneAxis("Head", api.AxisY); !ok || y != 1.2 {
		t.Fatalf("Head.Y = %v,%v", y, ok)
	}
	if got := metrics.Counter("tracker.packets"); got != 1 {
		t.Fatalf("tracker.packets = %d", got)
	}
}

func TestMalformedPacketIsDropped(t *testing.T) {
	s := newTestSystem()
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Disconnect()

	send(t, s.Addr(), []byte("garbage"))
	waitFor(t, "drop", func() bool { return s.Stats().Dropped == 1 })
	if !s.Active() {
		t.Fatal("malformed packet killed the worker")
	}

	send(t, s.Addr(), blendPacket(t, "Joy", 1))
	waitFor(t, "good packet", func() bool { return s.Snapshot().Len() == 1 })
}

func TestWorkerPanicIsContained(t *testing.T) {
	s := newTestSystem(WithDecoder(func(raw []byte) ([]api.ChannelUpdate, error) {
		if string(raw) == "boom" {
			panic("decoder exploded")
		}
		return protocol.DecodeVMC(raw)
	}))
	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	send(t, s.Addr(), []byte("boom"))
	waitFor(t, "worker exit", func() bool { return !s.Active() })

	if got := s.Stats().Panics; got != 1 {
		t.Fatalf("panics = %d", got)
	}
	if err := s.Connect(context.Background(), "127.0.0.1:0"); !errors.Is(err, api.ErrAlreadyConnected) {
		t.Fatalf("connect with dead handle: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Disconnect()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disconnect of a dead worker blocked")
	}

	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	defer s.Disconnect()
	send(t, s.Addr(), blendPacket(t, "Fun", 0.25))
	waitFor(t, "post-panic packet", func() bool { return s.Snapshot().Len() == 1 })
}

func TestResetWhileIdleAndActive(t *testing.T) {
	s := newTestSystem()
	s.Snapshot().Apply([]api.ChannelUpdate{{Kind: api.ChannelBlendshape, Name: "A", Weight: 1}})
	s.Reset()
	if n := s.Snapshot().Len(); n != 0 {
		t.Fatalf("len after idle reset = %d", n)
	}

	if err := s.Connect(context.Background(), "127.0.0.1:0"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Disconnect()
	send(t, s.Addr(), blendPacket(t, "A", 0.5))
	waitFor(t, "packet", func() bool { return s.Snapshot().Len() == 1 })
	s.Reset()
	if n := s.Snapshot().Len(); n != 0 {
		t.Fatalf("len after active reset = %d", n)
	}
}
