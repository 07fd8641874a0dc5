// File: asset/manifest.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// YAML puppet descriptor loader.

package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/momentics/virst/api"
)

// Loader turns a path into an immutable asset.
type Loader interface {
	Load(ctx context.Context, path string) (api.Asset, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (api.Asset, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (api.Asset, error) {
	return f(ctx, path)
}

// Manifest is the on-disk descriptor:
//
//	name: Hiyori
//	parameters:
//	  - name: ParamMouthOpenY
//	  - name: ParamEyeBall
//	    two_dim: true
type Manifest struct {
	Name       string          `yaml:"name"`
	Parameters []ManifestParam `yaml:"parameters"`
}

// ManifestParam declares one parameter.
type ManifestParam struct {
	Name   string `yaml:"name"`
	TwoDim bool   `yaml:"two_dim"`
}

// Puppet is the asset produced by ManifestLoader.
type Puppet struct {
	name   string
	params []api.ParamDecl
}

// NewPuppet builds an asset from a name and declarations. The slice is copied.
func NewPuppet(name string, params []api.ParamDecl) *Puppet {
	return &Puppet{name: name, params: slices.Clone(params)}
}

func (p *Puppet) Name() string { return p.name }

// Parameters returns a copy of the declarations.
func (p *Puppet) Parameters() []api.ParamDecl { return slices.Clone(p.params) }

// ManifestLoader reads YAML manifests. Unknown keys are format errors.
type ManifestLoader struct{}

// Load implements Loader.
func (ManifestLoader) Load(ctx context.Context, path string) (api.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return ParseManifest(path, raw)
}

// ParseManifest decodes and validates manifest bytes. path is used for the
// display-name fallback and error context only.
func ParseManifest(path string, raw []byte) (*Puppet, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Path: path, Reason: "empty manifest"}
		}
		return nil, &FormatError{Path: path, Reason: "invalid yaml", Err: err}
	}

	seen := make(map[string]struct{}, len(m.Parameters))
	decls := make([]api.ParamDecl, 0, len(m.Parameters))
	for i, p := range m.Parameters {
		if p.Name == "" {
			return nil, &FormatError{Path: path, Reason: fmt.Sprintf("parameter #%d has no name", i)}
		}
		if _, dup := seen[p.Name]; dup {
			return nil, &FormatError{Path: path, Reason: "duplicate parameter " + p.Name}
		}
		seen[p.Name] = struct{}{}
		decls = append(decls, api.ParamDecl{Name: p.Name, TwoDim: p.TwoDim})
	}

	name := m.Name
	if name == "" {
		name = filepath.Base(path)
	}
	return &Puppet{name: name, params: decls}, nil
}
