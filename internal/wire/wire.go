// Package wire encodes and decodes the primitive values that make up an
// Anarchy Online chat frame body: fixed-width integers, length-prefixed
// byte strings, 40-bit channel identifiers, and length-prefixed arrays of
// those. Every primitive is pure: encoding and decoding never touch shared
// state and never block.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a buffer is shorter than a primitive
// requires.
var ErrMalformed = errors.New("wire: malformed frame")

// ErrOutOfRange is returned when a value would overflow its wire width.
var ErrOutOfRange = errors.New("wire: value out of range")

// MaxStrLen is the largest Str payload the 16-bit length prefix can carry.
const MaxStrLen = 0xFFFF

// MaxChannelID is the largest value a 40-bit ChannelID can hold.
const MaxChannelID = 1<<40 - 1

// MaxArrayLen is the largest element count the 16-bit array count can carry.
const MaxArrayLen = 0xFFFF

// U32 is an unsigned 32-bit integer, encoded big-endian in 4 bytes.
type U32 uint32

// EncodeU32 appends the big-endian encoding of v to dst.
func EncodeU32(dst []byte, v U32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return append(dst, b[:]...)
}

// DecodeU32 reads a U32 from the front of buf, returning the value and the
// remaining bytes.
func DecodeU32(buf []byte) (U32, []byte, error) {
	if len(buf) < 4 {
		return 0, buf, fmt.Errorf("%w: need 4 bytes for U32, have %d", ErrMalformed, len(buf))
	}
	return U32(binary.BigEndian.Uint32(buf[:4])), buf[4:], nil
}

// Str is an opaque, length-prefixed byte string. The protocol does not fix
// its text encoding; callers may reinterpret it as UTF-8 or Latin-1 at the
// edge.
type Str []byte

// EncodeStr appends the length-prefixed encoding of s to dst. It fails with
// ErrOutOfRange if s exceeds MaxStrLen bytes.
func EncodeStr(dst []byte, s Str) ([]byte, error) {
	if len(s) > MaxStrLen {
		return dst, fmt.Errorf("%w: Str length %d exceeds %d", ErrOutOfRange, len(s), MaxStrLen)
	}
	var lb [2]byte
	binary.BigEndian.PutUint16(lb[:], uint16(len(s)))
	dst = append(dst, lb[:]...)
	return append(dst, s...), nil
}

// DecodeStr reads a length-prefixed Str from the front of buf.
func DecodeStr(buf []byte) (Str, []byte, error) {
	if len(buf) < 2 {
		return nil, buf, fmt.Errorf("%w: need 2 bytes for Str length prefix, have %d", ErrMalformed, len(buf))
	}
	n := int(binary.BigEndian.Uint16(buf[:2]))
	buf = buf[2:]
	if len(buf) < n {
		return nil, buf, fmt.Errorf("%w: Str declares %d bytes, only %d remain", ErrMalformed, n, len(buf))
	}
	s := make(Str, n)
	copy(s, buf[:n])
	return s, buf[n:], nil
}

// ChannelID is a 40-bit channel identifier, serialized as one high-order
// byte followed by a big-endian U32 of the low 32 bits.
type ChannelID uint64

// EncodeChannelID appends the encoding of c to dst. It fails with
// ErrOutOfRange if c exceeds 40 bits.
func EncodeChannelID(dst []byte, c ChannelID) ([]byte, error) {
	if uint64(c) > MaxChannelID {
		return dst, fmt.Errorf("%w: ChannelID %d exceeds 40 bits", ErrOutOfRange, uint64(c))
	}
	dst = append(dst, byte(c>>32))
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	return append(dst, b[:]...), nil
}

// DecodeChannelID reads a ChannelID from the front of buf.
func DecodeChannelID(buf []byte) (ChannelID, []byte, error) {
	if len(buf) < 5 {
		return 0, buf, fmt.Errorf("%w: need 5 bytes for ChannelID, have %d", ErrMalformed, len(buf))
	}
	hi := uint64(buf[0])
	lo := uint64(binary.BigEndian.Uint32(buf[1:5]))
	return ChannelID(hi<<32 | lo), buf[5:], nil
}

// EncodeU32Array appends a length-prefixed array of U32 values to dst.
func EncodeU32Array(dst []byte, vs []U32) ([]byte, error) {
	if len(vs) > MaxArrayLen {
		return dst, fmt.Errorf("%w: array length %d exceeds %d", ErrOutOfRange, len(vs), MaxArrayLen)
	}
	var lb [2]byte
	binary.BigEndian.PutUint16(lb[:], uint16(len(vs)))
	dst = append(dst, lb[:]...)
	for _, v := range vs {
		dst = EncodeU32(dst, v)
	}
	return dst, nil
}

// DecodeU32Array reads a length-prefixed array of U32 values from the front
// of buf.
func DecodeU32Array(buf []byte) ([]U32, []byte, error) {
	n, rest, err := decodeCount(buf)
	if err != nil {
		return nil, buf, err
	}
	out := make([]U32, 0, n)
	for i := 0; i < n; i++ {
		var v U32
		v, rest, err = DecodeU32(rest)
		if err != nil {
			return nil, buf, err
		}
		out = append(out, v)
	}
	return out, rest, nil
}

// EncodeStrArray appends a length-prefixed array of Str values to dst.
func EncodeStrArray(dst []byte, vs []Str) ([]byte, error) {
	if len(vs) > MaxArrayLen {
		return dst, fmt.Errorf("%w: array length %d exceeds %d", ErrOutOfRange, len(vs), MaxArrayLen)
	}
	var lb [2]byte
	binary.BigEndian.PutUint16(lb[:], uint16(len(vs)))
	dst = append(dst, lb[:]...)
	var err error
	for _, v := range vs {
		dst, err = EncodeStr(dst, v)
		if err != nil {
			return dst, err
		}
	}
	return dst, nil
}

// DecodeStrArray reads a length-prefixed array of Str values from the front
// of buf.
func DecodeStrArray(buf []byte) ([]Str, []byte, error) {
	n, rest, err := decodeCount(buf)
	if err != nil {
		return nil, buf, err
	}
	out := make([]Str, 0, n)
	for i := 0; i < n; i++ {
		var v Str
		v, rest, err = DecodeStr(rest)
		if err != nil {
			return nil, buf, err
		}
		out = append(out, v)
	}
	return out, rest, nil
}

func decodeCount(buf []byte) (int, []byte, error) {
	if len(buf) < 2 {
		return 0, buf, fmt.Errorf("%w: need 2 bytes for array count, have %d", ErrMalformed, len(buf))
	}
	return int(binary.BigEndian.Uint16(buf[:2])), buf[2:], nil
}
