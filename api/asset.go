// File: api/asset.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Displayable asset contract. Assets are produced by the asset package
// and consumed by the display slot and the binding session.

package api

// ParamDecl declares one animatable parameter of an asset.
type ParamDecl struct {
	Name   string
	TwoDim bool
}

// Asset is an immutable, shareable puppet handle.
// Implementations must not change their parameter set after construction.
type Asset interface {
	// Name returns the display name.
	Name() string

	// Parameters returns the declared parameters. Callers may not modify the result.
	Parameters() []ParamDecl
}
