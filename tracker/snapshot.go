// File: tracker/snapshot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tracker

import (
	"sync"

	"github.com/momentics/virst/api"
)

// SharedSnapshot is the mutex-guarded tracking state shared between the
// ingest worker (writer) and the UI goroutine (reader/drainer).
type SharedSnapshot struct {
	mu   sync.Mutex
	data api.TrackingSnapshot
}

func newSharedSnapshot() *SharedSnapshot {
	return &SharedSnapshot{data: api.NewTrackingSnapshot()}
}

// Apply folds decoded updates under the lock, in packet order.
func (s *SharedSnapshot) Apply(updates []api.ChannelUpdate) {
	if len(updates) == 0 {
		return
	}
	s.mu.Lock()
	for _, u := range updates {
		s.data.Apply(u)
	}
	s.mu.Unlock()
}

// Drain swaps in an empty snapshot and returns the accumulated one.
func (s *SharedSnapshot) Drain() api.TrackingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.data
	s.data = api.NewTrackingSnapshot()
	return out
}

// Read gives fn exclusive access to the live snapshot.
// fn must not retain the pointer or its maps.
func (s *SharedSnapshot) Read(fn func(*api.TrackingSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Clone returns a deep copy without draining.
func (s *SharedSnapshot) Clone() api.TrackingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Reset empties the snapshot.
func (s *SharedSnapshot) Reset() {
	s.mu.Lock()
	s.data = api.NewTrackingSnapshot()
	s.mu.Unlock()
}

// Len returns the number of channels currently held.
func (s *SharedSnapshot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Len()
}
