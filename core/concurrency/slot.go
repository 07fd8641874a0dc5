// File: core/concurrency/slot.go
// Package concurrency implements lock-free publication primitives.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slot is a single-value hot-swap cell with a generation counter.
// Readers never block; writers are serialized by a mutex.

package concurrency

import (
	"sync"
	"sync/atomic"
)

// box wraps a value so interface and value types can live behind atomic.Pointer.
type box[T any] struct {
	v T
}

// Slot publishes successive values of T to concurrent readers.
//
// Ordering: Swap stores the value before it increments the generation and
// Read loads the generation before the value. A reader that observes
// generation G therefore sees the value of swap #G or a newer one, never an
// older one. sync/atomic operations are sequentially consistent, which is
// stronger than the release/acquire pair this protocol needs.
type Slot[T any] struct {
	current    atomic.Pointer[box[T]]
	_          [cacheLinePad]byte // keep the hot counter off the pointer's line
	generation atomic.Uint64
	writeMu    sync.Mutex
}

const cacheLinePad = 64

// NewSlot returns an empty slot at generation 0.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Read returns the current value (zero when empty) and its generation.
// Safe to call every frame from any goroutine.
func (s *Slot[T]) Read() (T, uint64) {
	gen := s.generation.Load()
	if b := s.current.Load(); b != nil {
		return b.v, gen
	}
	var zero T
	return zero, gen
}

// Swap publishes v and returns the new generation.
func (s *Slot[T]) Swap(v T) uint64 {
	return s.publish(&box[T]{v: v})
}

// Clear empties the slot. It still advances the generation.
func (s *Slot[T]) Clear() uint64 {
	return s.publish(nil)
}

// Generation returns the last published generation.
func (s *Slot[T]) Generation() uint64 {
	return s.generation.Load()
}

func (s *Slot[T]) publish(b *box[T]) uint64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.current.Store(b)
	return s.generation.Add(1)
}
