// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-size datagram buffers shared by tracker connections.

package pool

// BytePool hands out byte slices of one fixed size.
type BytePool struct {
	pool *SyncPool[*[]byte]
	size int
}

// NewBytePool returns a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	return &BytePool{
		pool: NewSyncPool(func() *[]byte {
			b := make([]byte, size)
			return &b
		}, nil),
		size: size,
	}
}

// Size returns the buffer length served by the pool.
func (b *BytePool) Size() int {
	return b.size
}

// GetBuffer returns a buffer of exactly Size bytes.
func (b *BytePool) GetBuffer() *[]byte {
	buf := b.pool.Get()
	*buf = (*buf)[:b.size]
	return buf
}

// PutBuffer returns a buffer to the pool. Foreign-sized buffers are dropped.
func (b *BytePool) PutBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) < b.size {
		return
	}
	b.pool.Put(buf)
}

var datagrams = NewBytePool(64 * 1024)

// Datagrams returns the shared pool of maximum-size UDP receive buffers.
func Datagrams() *BytePool {
	return datagrams
}
