// File: api/snapshot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tracking channel data: decoded updates and the accumulated snapshot.

package api

// BoneAxis selects one component of a bone's values.
type BoneAxis uint8

const (
	AxisX BoneAxis = iota
	AxisY
	AxisZ
	AxisRoll
	AxisPitch
	AxisYaw
)

// BoneAxes lists all axes in presentation order.
var BoneAxes = [...]BoneAxis{AxisX, AxisY, AxisZ, AxisRoll, AxisPitch, AxisYaw}

func (a BoneAxis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisRoll:
		return "Roll"
	case AxisPitch:
		return "Pitch"
	case AxisYaw:
		return "Yaw"
	default:
		return "unknown"
	}
}

// BoneValues holds position and rotation (degrees) of a tracked bone.
type BoneValues struct {
	X, Y, Z          float32
	Roll, Pitch, Yaw float32
}

// Axis returns the value for a single axis.
func (b BoneValues) Axis(a BoneAxis) (float32, bool) {
	switch a {
	case AxisX:
		return b.X, true
	case AxisY:
		return b.Y, true
	case AxisZ:
		return b.Z, true
	case AxisRoll:
		return b.Roll, true
	case AxisPitch:
		return b.Pitch, true
	case AxisYaw:
		return b.Yaw, true
	}
	return 0, false
}

// ChannelKind distinguishes blendshape updates from bone updates.
type ChannelKind uint8

const (
	ChannelBlendshape ChannelKind = iota + 1
	ChannelBone
)

// ChannelUpdate is one decoded channel value from a tracking packet.
type ChannelUpdate struct {
	Kind   ChannelKind
	Name   string
	Weight float32    // blendshape weight
	Bone   BoneValues // bone values
}

// TrackingSnapshot is the latest accumulated set of channel values.
// It is a plain value type; synchronization is the owner's job.
type TrackingSnapshot struct {
	Blendshapes map[string]float32
	Bones       map[string]BoneValues
}

// NewTrackingSnapshot returns an empty snapshot with allocated maps.
func NewTrackingSnapshot() TrackingSnapshot {
	return TrackingSnapshot{
		Blendshapes: make(map[string]float32),
		Bones:       make(map[string]BoneValues),
	}
}

// Apply folds a single update into the snapshot. Last writer wins.
func (s *TrackingSnapshot) Apply(u ChannelUpdate) {
	switch u.Kind {
	case ChannelBlendshape:
		if s.Blendshapes == nil {
			s.Blendshapes = make(map[string]float32)
		}
		s.Blendshapes[u.Name] = u.Weight
	case ChannelBone:
		if s.Bones == nil {
			s.Bones = make(map[string]BoneValues)
		}
		s.Bones[u.Name] = u.Bone
	}
}

// Merge copies every channel of other into s, overwriting existing values.
func (s *TrackingSnapshot) Merge(other TrackingSnapshot) {
	for k, v := range other.Blendshapes {
		s.Apply(ChannelUpdate{Kind: ChannelBlendshape, Name: k, Weight: v})
	}
	for k, v := range other.Bones {
		s.Apply(ChannelUpdate{Kind: ChannelBone, Name: k, Bone: v})
	}
}

// Clone returns a deep copy.
func (s TrackingSnapshot) Clone() TrackingSnapshot {
	out := NewTrackingSnapshot()
	out.Merge(s)
	return out
}

// Len returns the number of distinct channels (bones count once).
func (s TrackingSnapshot) Len() int {
	return len(s.Blendshapes) + len(s.Bones)
}

// Blendshape returns a blendshape weight if present.
func (s TrackingSnapshot) Blendshape(name string) (float32, bool) {
	v, ok := s.Blendshapes[name]
	return v, ok
}

// BoneAxis returns a single bone axis value if the bone is present.
func (s TrackingSnapshot) BoneAxis(name string, axis BoneAxis) (float32, bool) {
	b, ok := s.Bones[name]
	if !ok {
		return 0, false
	}
	return b.Axis(axis)
}
