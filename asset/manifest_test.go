package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/momentics/virst/api"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestManifestLoaderLoads(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "hiyori.yaml", `
name: Hiyori
parameters:
  - name: ParamMouthOpenY
  - name: ParamEyeBall
    two_dim: true
`)
	a, err := ManifestLoader{}.Load(context.Background(), p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Name() != "Hiyori" {
		t.Errorf("name = %q", a.Name())
	}
	want := []api.ParamDecl{{Name: "ParamMouthOpenY"}, {Name: "ParamEyeBall", TwoDim: true}}
	if !reflect.DeepEqual(a.Parameters(), want) {
		t.Errorf("params = %+v", a.Parameters())
	}
}

func TestManifestNameFallsBackToFileName(t *testing.T) {
	p := writeFile(t, t.TempDir(), "nameless.yaml", "parameters: []\n")
	a, err := ManifestLoader{}.Load(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "nameless.yaml" {
		t.Fatalf("name = %q", a.Name())
	}
}

func TestManifestReadVersusFormatErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "absent.yaml"), api.ErrAssetRead},
		{"directory", dir, api.ErrAssetRead},
		{"empty", writeFile(t, dir, "empty.yaml", ""), api.ErrAssetFormat},
		{"not yaml", writeFile(t, dir, "bad.yaml", "name: [unterminated"), api.ErrAssetFormat},
		{"unknown key", writeFile(t, dir, "extra.yaml", "name: x\nmesh: y\n"), api.ErrAssetFormat},
		{"unnamed param", writeFile(t, dir, "unnamed.yaml", "parameters:\n  - two_dim: true\n"), api.ErrAssetFormat},
		{"duplicate param", writeFile(t, dir, "dup.yaml", "parameters:\n  - name: a\n  - name: a\n"), api.ErrAssetFormat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ManifestLoader{}.Load(context.Background(), c.path)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
			other := api.ErrAssetFormat
			if c.want == api.ErrAssetFormat {
				other = api.ErrAssetRead
			}
			if errors.Is(err, other) {
				t.Fatalf("err %v matches both categories", err)
			}
		})
	}
}

func TestReadErrorUnwrapsCause(t *testing.T) {
	_, err := ManifestLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cause lost: %v", err)
	}
	var re *ReadError
	if !errors.As(err, &re) || re.Path == "" {
		t.Fatalf("not a ReadError: %v", err)
	}
}

func TestPuppetParametersAreCopied(t *testing.T) {
	p := NewPuppet("p", []api.ParamDecl{{Name: "a"}})
	got := p.Parameters()
	got[0].Name = "mutated"
	if p.Parameters()[0].Name != "a" {
		t.Fatal("Parameters exposes internal slice")
	}
}
