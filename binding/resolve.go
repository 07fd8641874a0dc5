// File: binding/resolve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package binding

import (
	"fmt"
	"math"

	"github.com/momentics/virst/api"
)

// Resolve maps a live channel value through b.
//
// Simple bindings remap linearly:
//
//	out = (live - in.Lo) * (out.Hi - out.Lo) / (in.Hi - in.Lo) + out.Lo
//
// A zero-width input range fails with api.ErrDegenerateRange, Expression
// fails with api.ErrUnimplemented and a nil binding with api.ErrUnbound.
// NaN or infinite inputs and results fail with api.ErrNonFinite.
func Resolve(b Binding, live float32) (float32, error) {
	switch v := b.(type) {
	case nil:
		return 0, api.ErrUnbound
	case Simple:
		return resolveSimple(v, live)
	case Expression:
		return 0, api.ErrUnimplemented
	default:
		return 0, fmt.Errorf("binding: unknown binding %T: %w", b, api.ErrUnimplemented)
	}
}

func resolveSimple(s Simple, live float32) (float32, error) {
	if !finite(live) {
		return 0, fmt.Errorf("binding: live value %v: %w", live, api.ErrNonFinite)
	}
	in, out := s.InputRange, s.OutputRange
	if in.Hi == in.Lo {
		return 0, fmt.Errorf("binding: input range (%v,%v): %w", in.Lo, in.Hi, api.ErrDegenerateRange)
	}
	r := (live-in.Lo)*(out.Hi-out.Lo)/(in.Hi-in.Lo) + out.Lo
	if !finite(r) {
		return 0, fmt.Errorf("binding: result %v: %w", r, api.ErrNonFinite)
	}
	return r, nil
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Result is the evaluation of one parameter against a snapshot.
type Result struct {
	Name string
	X, Y float32
	// Err is set when any axis failed; X and Y are then undefined.
	Err error
}

// Evaluate resolves every bound parameter of store against snap, in name
// order. Unbound parameters are skipped. An input that is absent from the
// snapshot, or bound to None, yields api.ErrNotFound for that parameter.
func Evaluate(store *Store, snap api.TrackingSnapshot) []Result {
	out := make([]Result, 0, store.Len())
	for _, p := range store.Params() {
		if !p.Bound() {
			continue
		}
		res := Result{Name: p.Name}
		res.X, res.Err = evalAxis(p.X, snap)
		if res.Err == nil && p.Dim == TwoDim {
			res.Y, res.Err = evalAxis(p.Y, snap)
		}
		out = append(out, res)
	}
	return out
}

func evalAxis(b Binding, snap api.TrackingSnapshot) (float32, error) {
	var live float32
	if s, ok := b.(Simple); ok {
		v, found := LiveValue(snap, s.Input)
		if !found {
			return 0, fmt.Errorf("binding: input %s: %w", s.Input.Label(), api.ErrNotFound)
		}
		live = v
	}
	return Resolve(b, live)
}
