// File: binding/store.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package binding

import (
	"fmt"
	"sort"

	"github.com/momentics/virst/api"
)

// Store maps parameter names to their binding state. Iteration order is
// sorted by name. Store is not safe for concurrent use; it belongs to the
// UI goroutine.
type Store struct {
	params map[string]*Param
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{params: make(map[string]*Param)}
}

// RebuildFor returns a fresh store holding every declared parameter, unbound.
// Later duplicates of a name override earlier ones.
func RebuildFor(decls []api.ParamDecl) *Store {
	s := &Store{params: make(map[string]*Param, len(decls))}
	for _, d := range decls {
		dim := OneDim
		if d.TwoDim {
			dim = TwoDim
		}
		s.params[d.Name] = &Param{Name: d.Name, Dim: dim}
	}
	return s
}

// Len returns the number of parameters.
func (s *Store) Len() int { return len(s.params) }

// Names returns parameter names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.params))
	for n := range s.params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named parameter.
func (s *Store) Get(name string) (Param, bool) {
	p, ok := s.params[name]
	if !ok {
		return Param{}, false
	}
	return *p, true
}

// Params returns copies of all parameters in name order.
func (s *Store) Params() []Param {
	out := make([]Param, 0, len(s.params))
	for _, n := range s.Names() {
		out = append(out, *s.params[n])
	}
	return out
}

// SetDefault binds name with DefaultSimple on every axis it has.
func (s *Store) SetDefault(name string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	p.X = DefaultSimple()
	p.Y = nil
	if p.Dim == TwoDim {
		p.Y = DefaultSimple()
	}
	return nil
}

// Clear unbinds name.
func (s *Store) Clear(name string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	p.X, p.Y = nil, nil
	return nil
}

// Bind installs explicit bindings. OneDim parameters take x only; TwoDim
// parameters need both x and y.
func (s *Store) Bind(name string, x, y Binding) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	if x == nil {
		return fmt.Errorf("binding: %q: x binding is nil: %w", name, api.ErrInvalidArgument)
	}
	switch p.Dim {
	case OneDim:
		if y != nil {
			return fmt.Errorf("binding: %q is one-dimensional: %w", name, api.ErrInvalidArgument)
		}
	case TwoDim:
		if y == nil {
			return fmt.Errorf("binding: %q is two-dimensional, y binding missing: %w", name, api.ErrInvalidArgument)
		}
	}
	p.X, p.Y = x, y
	return nil
}

// Clone returns an independent copy. Binding values are immutable so they
// are shared.
func (s *Store) Clone() *Store {
	c := &Store{params: make(map[string]*Param, len(s.params))}
	for n, p := range s.params {
		cp := *p
		c.params[n] = &cp
	}
	return c
}

func (s *Store) lookup(name string) (*Param, error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("binding: parameter %q: %w", name, api.ErrNotFound)
	}
	return p, nil
}
