// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import "sync"

// SyncPool is a typed sync.Pool. When reset is set it runs on every Put, so
// a value handed out by Get never carries state from its previous user.
type SyncPool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

// NewSyncPool creates a pool. reset may be nil.
func NewSyncPool[T any](create func() T, reset func(T)) *SyncPool[T] {
	sp := &SyncPool[T]{reset: reset}
	sp.pool.New = func() any { return create() }
	return sp
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	if sp.reset != nil {
		sp.reset(obj)
	}
	sp.pool.Put(obj)
}
