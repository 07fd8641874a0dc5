// File: facade/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"github.com/momentics/virst/api"
	"github.com/momentics/virst/binding"
	"github.com/momentics/virst/core/concurrency"
	"github.com/momentics/virst/tracker"
)

// BindingSession owns the binding store for whatever asset is on display and
// the tracking values accumulated from the tracker. It belongs to the UI
// goroutine and is not safe for concurrent use.
type BindingSession struct {
	display *concurrency.Slot[api.Asset]
	source  *tracker.SharedSnapshot

	gen   uint64
	store *binding.Store
	view  api.TrackingSnapshot
}

// NewBindingSession starts with an empty store at generation 0.
func NewBindingSession(display *concurrency.Slot[api.Asset], source *tracker.SharedSnapshot) *BindingSession {
	return &BindingSession{
		display: display,
		source:  source,
		store:   binding.NewStore(),
		view:    api.NewTrackingSnapshot(),
	}
}

// Sync rebuilds the store when the display generation advanced since the
// last call. Bindings of the previous asset are discarded. It reports
// whether a rebuild happened.
func (s *BindingSession) Sync() bool {
	a, gen := s.display.Read()
	if gen == s.gen {
		return false
	}
	s.gen = gen
	if a == nil {
		s.store = binding.NewStore()
	} else {
		s.store = binding.RebuildFor(a.Parameters())
	}
	return true
}

// Generation is the display generation the store was built for.
func (s *BindingSession) Generation() uint64 { return s.gen }

// Edit syncs and then hands the live store to fn.
func (s *BindingSession) Edit(fn func(*binding.Store) error) error {
	s.Sync()
	return fn(s.store)
}

// Store returns a copy of the current store.
func (s *BindingSession) Store() *binding.Store {
	return s.store.Clone()
}

// Pump drains the tracker snapshot into the accumulated view.
func (s *BindingSession) Pump() {
	s.view.Merge(s.source.Drain())
}

// View returns a copy of the accumulated tracking values.
func (s *BindingSession) View() api.TrackingSnapshot {
	return s.view.Clone()
}

// ResetView forgets accumulated tracking values.
func (s *BindingSession) ResetView() {
	s.view = api.NewTrackingSnapshot()
}

// Inputs lists selectable inputs for the accumulated view.
func (s *BindingSession) Inputs() []binding.InputRef {
	return binding.EnumerateInputs(s.view)
}

// Evaluate syncs and resolves every bound parameter against the view.
func (s *BindingSession) Evaluate() []binding.Result {
	s.Sync()
	return binding.Evaluate(s.store, s.view)
}
