// Package protocol
// Author: momentics <momentics@gmail.com>
//
// OSC and VMC wire protocol constants

package protocol

const (
	// OSC type tags
	TagInt32   = 'i'
	TagFloat32 = 'f'
	TagString  = 's'
	TagSymbol  = 'S'
	TagBlob    = 'b'
	TagInt64   = 'h'
	TagTime    = 't'
	TagFloat64 = 'd'
	TagChar    = 'c'
	TagRGBA    = 'r'
	TagMIDI    = 'm'
	TagTrue    = 'T'
	TagFalse   = 'F'
	TagNil     = 'N'
	TagImpulse = 'I'
	TagArrOpen = '['
	TagArrEnd  = ']'

	// Packet limits
	MaxPacketSize  = 64 * 1024 // largest UDP payload we accept
	MaxBundleDepth = 8

	// TimeTagImmediate is the OSC time tag meaning "process on receipt".
	TimeTagImmediate uint64 = 1

	// VMC addresses
	AddrBlendValue = "/VMC/Ext/Blend/Val"
	AddrBlendApply = "/VMC/Ext/Blend/Apply"
	AddrBonePos    = "/VMC/Ext/Bone/Pos"
	AddrRootPos    = "/VMC/Ext/Root/Pos"
	AddrOK         = "/VMC/Ext/OK"
	AddrTime       = "/VMC/Ext/T"

	// DefaultPort is the conventional VMC performer port.
	DefaultPort = 39539
)

var bundleTag = []byte("#bundle\x00")
