// File: core/protocol/vmc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// VMC message layer: maps OSC messages onto tracking channel updates.

package protocol

import (
	"math"

	"github.com/momentics/virst/api"
)

const radToDeg = 180 / math.Pi

// DecodeVMC decodes one datagram into channel updates.
// Messages with addresses outside the channel set are skipped.
func DecodeVMC(raw []byte) ([]api.ChannelUpdate, error) {
	msgs, err := DecodePacket(raw)
	if err != nil {
		return nil, err
	}
	updates := make([]api.ChannelUpdate, 0, len(msgs))
	for _, m := range msgs {
		u, ok, err := channelUpdate(m)
		if err != nil {
			return nil, err
		}
		if ok {
			updates = append(updates, u)
		}
	}
	return updates, nil
}

func channelUpdate(m Message) (api.ChannelUpdate, bool, error) {
	switch m.Address {
	case AddrBlendValue:
		name, ok := stringArg(m.Args, 0)
		if !ok {
			return api.ChannelUpdate{}, false, malformed("%s: missing blendshape name", m.Address)
		}
		w, ok := floatArg(m.Args, 1)
		if !ok {
			return api.ChannelUpdate{}, false, malformed("%s %q: missing weight", m.Address, name)
		}
		return api.ChannelUpdate{Kind: api.ChannelBlendshape, Name: name, Weight: w}, true, nil

	case AddrBonePos, AddrRootPos:
		name, ok := stringArg(m.Args, 0)
		if !ok {
			return api.ChannelUpdate{}, false, malformed("%s: missing bone name", m.Address)
		}
		var f [7]float32
		for i := range f {
			if f[i], ok = floatArg(m.Args, i+1); !ok {
				return api.ChannelUpdate{}, false, malformed("%s %q: expected 7 floats", m.Address, name)
			}
		}
		roll, pitch, yaw := EulerFromQuat(f[3], f[4], f[5], f[6])
		return api.ChannelUpdate{
			Kind: api.ChannelBone,
			Name: name,
			Bone: api.BoneValues{X: f[0], Y: f[1], Z: f[2], Roll: roll, Pitch: pitch, Yaw: yaw},
		}, true, nil
	}
	return api.ChannelUpdate{}, false, nil
}

func stringArg(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// floatArg accepts float32 and float64 since some senders emit doubles.
func floatArg(args []any, i int) (float32, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch v := args[i].(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	}
	return 0, false
}

// EulerFromQuat converts a unit quaternion to roll/pitch/yaw in degrees
// (rotation order Z-Y-X).
func EulerFromQuat(x, y, z, w float32) (roll, pitch, yaw float32) {
	qx, qy, qz, qw := float64(x), float64(y), float64(z), float64(w)
	r := math.Atan2(2*(qw*qx+qy*qz), 1-2*(qx*qx+qy*qy))
	s := 2 * (qw*qy - qz*qx)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	p := math.Asin(s)
	yw := math.Atan2(2*(qw*qz+qx*qy), 1-2*(qy*qy+qz*qz))
	return float32(r * radToDeg), float32(p * radToDeg), float32(yw * radToDeg)
}

// QuatFromEuler is the inverse of EulerFromQuat. Angles are in degrees.
func QuatFromEuler(roll, pitch, yaw float32) (x, y, z, w float32) {
	hr := float64(roll) / radToDeg / 2
	hp := float64(pitch) / radToDeg / 2
	hy := float64(yaw) / radToDeg / 2
	cr, sr := math.Cos(hr), math.Sin(hr)
	cp, sp := math.Cos(hp), math.Sin(hp)
	cy, sy := math.Cos(hy), math.Sin(hy)
	return float32(sr*cp*cy - cr*sp*sy),
		float32(cr*sp*cy + sr*cp*sy),
		float32(cr*cp*sy - sr*sp*cy),
		float32(cr*cp*cy + sr*sp*sy)
}

// BlendMessage builds a /VMC/Ext/Blend/Val message.
func BlendMessage(name string, weight float32) Message {
	return Message{Address: AddrBlendValue, Args: []any{name, weight}}
}

// BoneMessage builds a /VMC/Ext/Bone/Pos message from a position and
// euler rotation in degrees.
func BoneMessage(name string, b api.BoneValues) Message {
	qx, qy, qz, qw := QuatFromEuler(b.Roll, b.Pitch, b.Yaw)
	return Message{
		Address: AddrBonePos,
		Args:    []any{name, b.X, b.Y, b.Z, qx, qy, qz, qw},
	}
}
