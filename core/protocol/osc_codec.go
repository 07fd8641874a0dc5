// File: core/protocol/osc_codec.go
// Package protocol implements an OSC 1.0 packet codec with size enforcement.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/momentics/virst/api"
	"github.com/momentics/virst/pool"
)

// Message is a decoded OSC message.
type Message struct {
	Address string
	Args    []any
}

// Impulse is the argument value of an OSC 'I' tag.
type Impulse struct{}

var encodeBuffers = pool.NewSyncPool(func() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, 512))
}, (*bytes.Buffer).Reset)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", api.ErrMalformedPacket, fmt.Sprintf(format, args...))
}

// DecodePacket parses a raw OSC packet and returns its messages in order.
// Nested bundles are flattened.
func DecodePacket(raw []byte) ([]Message, error) {
	if len(raw) > MaxPacketSize {
		return nil, malformed("packet of %d bytes exceeds limit", len(raw))
	}
	var out []Message
	if err := decodeElement(raw, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeElement(raw []byte, depth int, out *[]Message) error {
	if len(raw) == 0 {
		return malformed("empty element")
	}
	if bytes.HasPrefix(raw, bundleTag) {
		return decodeBundle(raw, depth, out)
	}
	m, err := decodeMessage(raw)
	if err != nil {
		return err
	}
	*out = append(*out, m)
	return nil
}

func decodeBundle(raw []byte, depth int, out *[]Message) error {
	if depth >= MaxBundleDepth {
		return malformed("bundle nesting exceeds %d", MaxBundleDepth)
	}
	offset := len(bundleTag) + 8 // tag + timetag
	if len(raw) < offset {
		return malformed("bundle too short for timetag")
	}
	for offset < len(raw) {
		if len(raw) < offset+4 {
			return malformed("bundle element size truncated")
		}
		size := int(int32(binary.BigEndian.Uint32(raw[offset:])))
		offset += 4
		if size <= 0 || size%4 != 0 || len(raw) < offset+size {
			return malformed("bundle element size %d invalid", size)
		}
		if err := decodeElement(raw[offset:offset+size], depth+1, out); err != nil {
			return err
		}
		offset += size
	}
	return nil
}

func decodeMessage(raw []byte) (Message, error) {
	addr, offset, err := readString(raw, 0)
	if err != nil {
		return Message{}, err
	}
	if len(addr) == 0 || addr[0] != '/' {
		return Message{}, malformed("address %q must start with '/'", addr)
	}
	msg := Message{Address: addr}
	if offset == len(raw) {
		// Type tag string is optional in very old senders.
		return msg, nil
	}
	tags, offset, err := readString(raw, offset)
	if err != nil {
		return Message{}, err
	}
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, malformed("type tag string %q must start with ','", tags)
	}
	msg.Args = make([]any, 0, len(tags)-1)
	for _, tag := range []byte(tags[1:]) {
		var v any
		v, offset, err = readArg(raw, offset, tag)
		if err != nil {
			return Message{}, err
		}
		if v != nil || tag == TagNil {
			msg.Args = append(msg.Args, v)
		}
	}
	return msg, nil
}

func readArg(raw []byte, offset int, tag byte) (any, int, error) {
	need := func(n int) error {
		if len(raw) < offset+n {
			return malformed("argument '%c' truncated", tag)
		}
		return nil
	}
	switch tag {
	case TagInt32, TagChar, TagRGBA, TagMIDI:
		if err := need(4); err != nil {
			return nil, offset, err
		}
		return int32(binary.BigEndian.Uint32(raw[offset:])), offset + 4, nil
	case TagFloat32:
		if err := need(4); err != nil {
			return nil, offset, err
		}
		return math.Float32frombits(binary.BigEndian.Uint32(raw[offset:])), offset + 4, nil
	case TagInt64, TagTime:
		if err := need(8); err != nil {
			return nil, offset, err
		}
		return int64(binary.BigEndian.Uint64(raw[offset:])), offset + 8, nil
	case TagFloat64:
		if err := need(8); err != nil {
			return nil, offset, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(raw[offset:])), offset + 8, nil
	case TagString, TagSymbol:
		s, next, err := readString(raw, offset)
		return s, next, err
	case TagBlob:
		if err := need(4); err != nil {
			return nil, offset, err
		}
		n := int(int32(binary.BigEndian.Uint32(raw[offset:])))
		offset += 4
		if n < 0 || len(raw) < offset+n {
			return nil, offset, malformed("blob length %d invalid", n)
		}
		blob := make([]byte, n)
		copy(blob, raw[offset:offset+n])
		return blob, offset + pad4(n), nil
	case TagTrue:
		return true, offset, nil
	case TagFalse:
		return false, offset, nil
	case TagNil:
		return nil, offset, nil
	case TagImpulse:
		return Impulse{}, offset, nil
	case TagArrOpen, TagArrEnd:
		// Array markers carry no data; elements are flattened into Args.
		return nil, offset, nil
	}
	return nil, offset, malformed("unknown type tag '%c'", tag)
}

// readString reads a NUL-terminated, 4-byte padded OSC string.
func readString(raw []byte, offset int) (string, int, error) {
	if offset >= len(raw) {
		return "", offset, malformed("string truncated")
	}
	end := bytes.IndexByte(raw[offset:], 0)
	if end < 0 {
		return "", offset, malformed("string not terminated")
	}
	s := string(raw[offset : offset+end])
	next := offset + pad4(end+1)
	if next > len(raw) {
		return "", offset, malformed("string padding truncated")
	}
	return s, next, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// EncodeMessage serializes m. Supported argument types are int32, float32,
// string, []byte, int64, float64, bool, nil and Impulse.
func EncodeMessage(m Message) ([]byte, error) {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	if err := writeMessage(buf, m); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// EncodeBundle serializes msgs as a single bundle with the given timetag.
// TimeTagImmediate means "process on receipt".
func EncodeBundle(timetag uint64, msgs ...Message) ([]byte, error) {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	buf.Write(bundleTag)
	writeUint64(buf, timetag)
	for _, m := range msgs {
		el, err := EncodeMessage(m)
		if err != nil {
			return nil, err
		}
		writeUint32(buf, uint32(len(el)))
		buf.Write(el)
	}
	if buf.Len() > MaxPacketSize {
		return nil, errors.New("bundle exceeds maximum packet size")
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeMessage(buf *bytes.Buffer, m Message) error {
	if len(m.Address) == 0 || m.Address[0] != '/' {
		return fmt.Errorf("%w: OSC address %q", api.ErrInvalidArgument, m.Address)
	}
	tags := make([]byte, 1, len(m.Args)+1)
	tags[0] = ','
	for _, a := range m.Args {
		switch v := a.(type) {
		case int32:
			tags = append(tags, TagInt32)
		case float32:
			tags = append(tags, TagFloat32)
		case string:
			tags = append(tags, TagString)
		case []byte:
			tags = append(tags, TagBlob)
		case int64:
			tags = append(tags, TagInt64)
		case float64:
			tags = append(tags, TagFloat64)
		case bool:
			if v {
				tags = append(tags, TagTrue)
			} else {
				tags = append(tags, TagFalse)
			}
		case nil:
			tags = append(tags, TagNil)
		case Impulse:
			tags = append(tags, TagImpulse)
		default:
			return fmt.Errorf("%w: unsupported OSC argument %T", api.ErrInvalidArgument, a)
		}
	}
	writeString(buf, m.Address)
	writeString(buf, string(tags))
	for _, a := range m.Args {
		switch v := a.(type) {
		case int32:
			writeUint32(buf, uint32(v))
		case float32:
			writeUint32(buf, math.Float32bits(v))
		case string:
			writeString(buf, v)
		case []byte:
			writeUint32(buf, uint32(len(v)))
			buf.Write(v)
			buf.Write(make([]byte, pad4(len(v))-len(v)))
		case int64:
			writeUint64(buf, uint64(v))
		case float64:
			writeUint64(buf, math.Float64bits(v))
		}
	}
	if buf.Len() > MaxPacketSize {
		return errors.New("message exceeds maximum packet size")
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.Write(make([]byte, pad4(len(s)+1)-len(s)))
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
