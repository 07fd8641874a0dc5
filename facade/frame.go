// File: facade/frame.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"github.com/momentics/virst/api"
	"github.com/momentics/virst/binding"
	"github.com/momentics/virst/core/concurrency"
)

// Frame is what the render consumer works with for one tick.
type Frame struct {
	Asset      api.Asset // nil when nothing is displayed
	Generation uint64
	Changed    bool // generation advanced since the previous frame
	Values     []binding.Result
}

// FrameConsumer polls the display slot once per frame. It keeps its own
// reference to the displayed asset and replaces it only when the generation
// advances.
type FrameConsumer struct {
	display *concurrency.Slot[api.Asset]
	session *BindingSession

	asset api.Asset
	gen   uint64
}

// NewFrameConsumer builds a consumer reading display and evaluating the
// bindings held by session.
func NewFrameConsumer(display *concurrency.Slot[api.Asset], session *BindingSession) *FrameConsumer {
	return &FrameConsumer{display: display, session: session}
}

// NextFrame reads the slot, pumps tracking values and evaluates bindings.
func (f *FrameConsumer) NextFrame() Frame {
	a, gen := f.display.Read()
	changed := gen != f.gen
	if changed {
		f.asset, f.gen = a, gen
	}

	f.session.Pump()
	var values []binding.Result
	if f.asset != nil {
		values = f.session.Evaluate()
	}
	return Frame{
		Asset:      f.asset,
		Generation: f.gen,
		Changed:    changed,
		Values:     values,
	}
}
