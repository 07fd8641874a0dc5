// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the tracking wire protocol for virst: an OSC 1.0 packet codec
// and the VMC (Virtual Motion Capture) message layer on top of it.
//
// Decoding turns one datagram into a flat list of api.ChannelUpdate values.
// Bundles are flattened, unknown VMC addresses are ignored, and any
// structural problem is reported as api.ErrMalformedPacket so the ingest loop
// can drop the packet and keep going.
package protocol
