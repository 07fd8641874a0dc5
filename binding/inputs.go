// File: binding/inputs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package binding

import (
	"sort"

	"github.com/momentics/virst/api"
)

// EnumerateInputs lists every selectable input for the given snapshot:
// None first, then blendshapes by name, then each bone by name crossed with
// all six axes.
func EnumerateInputs(snap api.TrackingSnapshot) []InputRef {
	out := make([]InputRef, 0, 1+len(snap.Blendshapes)+len(snap.Bones)*len(api.BoneAxes))
	out = append(out, None())
	for _, n := range sortedKeys(snap.Blendshapes) {
		out = append(out, BlendshapeInput(n))
	}
	for _, n := range sortedKeys(snap.Bones) {
		for _, a := range api.BoneAxes {
			out = append(out, BoneInput(n, a))
		}
	}
	return out
}

// LiveValue reads the channel r refers to.
func LiveValue(snap api.TrackingSnapshot, r InputRef) (float32, bool) {
	switch r.Kind {
	case InputBlendshape:
		return snap.Blendshape(r.Name)
	case InputBone:
		return snap.BoneAxis(r.Name, r.Axis)
	default:
		return 0, false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
