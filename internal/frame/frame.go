// Package frame implements the packet framing layer on top of the wire
// primitives: every frame on the wire is `type:u16, length:u16, body`, big
// endian throughout.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the number of bytes in a frame header.
const HeaderSize = 4

// MaxBodyLen is the largest body length the 16-bit length field can carry.
const MaxBodyLen = 0xFFFF

// ErrFrameTooLarge is returned when a caller asks to write a body that
// cannot fit in the 16-bit length field. Exceeding it is a programmer
// error, not a wire condition.
var ErrFrameTooLarge = errors.New("frame: body exceeds 65535 bytes")

// Header is the fixed-size prefix of every frame.
type Header struct {
	Type   uint16
	Length uint16
}

// DecodeHeader reads a Header from a 4-byte buffer.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("frame: header needs %d bytes, have %d", HeaderSize, len(buf))
	}
	return Header{
		Type:   binary.BigEndian.Uint16(buf[0:2]),
		Length: binary.BigEndian.Uint16(buf[2:4]),
	}, nil
}

// EncodeHeader appends the 4-byte encoding of h to dst.
func EncodeHeader(dst []byte, h Header) []byte {
	var b [HeaderSize]byte
	binary.BigEndian.PutUint16(b[0:2], h.Type)
	binary.BigEndian.PutUint16(b[2:4], h.Length)
	return append(dst, b[:]...)
}

// Encode builds a full frame (header + body) for the given type and body.
// It fails with ErrFrameTooLarge if the body cannot fit in the 16-bit
// length field.
func Encode(typ uint16, body []byte) ([]byte, error) {
	if len(body) > MaxBodyLen {
		return nil, fmt.Errorf("%w: %d", ErrFrameTooLarge, len(body))
	}
	out := make([]byte, 0, HeaderSize+len(body))
	out = EncodeHeader(out, Header{Type: typ, Length: uint16(len(body))})
	return append(out, body...), nil
}
