// Package binding maps live tracking channels onto asset parameters.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package binding

import (
	"fmt"

	"github.com/momentics/virst/api"
)

// Dim is the dimensionality of an asset parameter.
type Dim uint8

const (
	OneDim Dim = iota + 1
	TwoDim
)

func (d Dim) String() string {
	switch d {
	case OneDim:
		return "1d"
	case TwoDim:
		return "2d"
	default:
		return fmt.Sprintf("Dim(%d)", uint8(d))
	}
}

// InputKind selects what an InputRef reads from the snapshot.
type InputKind uint8

const (
	InputNone InputKind = iota
	InputBlendshape
	InputBone
)

// InputRef names one tracking channel. Axis is meaningful only for bones.
type InputRef struct {
	Kind InputKind
	Name string
	Axis api.BoneAxis
}

// None is the "no input" reference.
func None() InputRef { return InputRef{} }

// BlendshapeInput references a blendshape weight.
func BlendshapeInput(name string) InputRef {
	return InputRef{Kind: InputBlendshape, Name: name}
}

// BoneInput references one axis of a bone.
func BoneInput(name string, axis api.BoneAxis) InputRef {
	return InputRef{Kind: InputBone, Name: name, Axis: axis}
}

// Label is the human-readable form shown in input pickers.
func (r InputRef) Label() string {
	switch r.Kind {
	case InputBlendshape:
		return r.Name
	case InputBone:
		return fmt.Sprintf("%s (%s)", r.Name, r.Axis)
	default:
		return "<none>"
	}
}

// Range is a closed numeric interval. Lo may exceed Hi to invert a mapping.
type Range struct {
	Lo, Hi float32
}

// Kind discriminates Binding variants.
type Kind uint8

const (
	KindSimple Kind = iota + 1
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindExpression:
		return "expression"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Binding is a closed set of mapping variants: Simple and Expression.
type Binding interface {
	Kind() Kind
	isBinding()
}

// Simple linearly remaps one input channel from InputRange to OutputRange.
type Simple struct {
	Input       InputRef
	InputRange  Range
	OutputRange Range
	// Dampen is carried for configuration round trips and currently has no
	// effect on resolution.
	Dampen float32
}

func (Simple) Kind() Kind { return KindSimple }
func (Simple) isBinding() {}

// Expression is a declared but not yet resolvable binding variant.
type Expression struct{}

func (Expression) Kind() Kind { return KindExpression }
func (Expression) isBinding() {}

// DefaultSimple is the binding installed by Store.SetDefault.
func DefaultSimple() Simple {
	return Simple{
		Input:       None(),
		InputRange:  Range{Lo: -30, Hi: 30},
		OutputRange: Range{Lo: -1, Hi: 1},
	}
}

// Param is the binding state of one asset parameter. A parameter is unbound
// when X is nil; a TwoDim parameter is bound only with both X and Y.
type Param struct {
	Name string
	Dim  Dim
	X, Y Binding
}

// Bound reports whether the parameter carries a binding.
func (p Param) Bound() bool {
	return p.X != nil
}
