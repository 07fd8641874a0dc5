package pool_test

import (
	"testing"

	"github.com/momentics/virst/pool"
)

func TestBytePool_FixedSize(t *testing.T) {
	p := pool.NewBytePool(128)
	buf := p.GetBuffer()
	if len(*buf) != 128 {
		t.Fatalf("got len %d, want 128", len(*buf))
	}
	*buf = (*buf)[:3]
	p.PutBuffer(buf)

	again := p.GetBuffer()
	if len(*again) != 128 {
		t.Fatalf("reused buffer not resliced: len %d", len(*again))
	}
}

func TestBytePool_DropsForeignBuffers(t *testing.T) {
	p := pool.NewBytePool(64)
	small := make([]byte, 8)
	p.PutBuffer(&small)
	p.PutBuffer(nil)
	if got := p.GetBuffer(); len(*got) != 64 {
		t.Fatalf("pool returned foreign buffer of len %d", len(*got))
	}
}

func TestDatagramsPoolSize(t *testing.T) {
	if pool.Datagrams().Size() != 64*1024 {
		t.Fatalf("unexpected datagram size %d", pool.Datagrams().Size())
	}
}

func TestSyncPool_ResetOnPut(t *testing.T) {
	created := 0
	p := pool.NewSyncPool(func() *[]int {
		created++
		s := make([]int, 0, 4)
		return &s
	}, func(s *[]int) { *s = (*s)[:0] })

	s := p.Get()
	*s = append(*s, 1, 2, 3)
	p.Put(s)
	if len(*s) != 0 {
		t.Fatalf("reset hook not applied, len %d", len(*s))
	}
	if created != 1 {
		t.Fatalf("creator called %d times", created)
	}
}
