// Package valuecodec encodes and decodes scalar column values in their
// persisted byte form.
//
// Three layouts exist:
//
//   - fixed-width: INT/FLOAT as 4 bytes, LONG/DOUBLE as 8 bytes, big-endian,
//     floats as IEEE-754 bit patterns
//   - padded slots: STRING/BYTES dictionary entries of a fixed slot width,
//     right-padded with a pad byte
//   - length-prefixed: a uint32 big-endian length followed by the bytes, used
//     by raw variable-width chunks
//
// The only failure mode is a buffer shorter than the declared extent.
package valuecodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/colseg/model"
)

// ErrShortBuffer is returned when a buffer ends before a declared value.
var ErrShortBuffer = errors.New("valuecodec: buffer shorter than declared extent")

// ErrTypeMismatch is returned when a value does not match the requested layout.
var ErrTypeMismatch = errors.New("valuecodec: value type mismatch")

// LengthPrefixSize is the size of a length prefix.
const LengthPrefixSize = 4

func short(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, need, have)
}

// DecodeFixed decodes a fixed-width value of type dt at off.
func DecodeFixed(dt model.DataType, buf []byte, off int) (model.Value, error) {
	width, ok := dt.FixedWidth()
	if !ok {
		return model.Value{}, fmt.Errorf("%w: %s is not fixed-width", ErrTypeMismatch, dt)
	}
	if off < 0 || off+width > len(buf) {
		return model.Value{}, short(off+width, len(buf))
	}
	return decodeFixed(dt, buf[off:off+width]), nil
}

// decodeFixed decodes b, which must hold exactly the width of dt.
func decodeFixed(dt model.DataType, b []byte) model.Value {
	switch dt {
	case model.TypeInt:
		return model.Int(int32(binary.BigEndian.Uint32(b)))
	case model.TypeLong:
		return model.Long(int64(binary.BigEndian.Uint64(b)))
	case model.TypeFloat:
		return model.Float(math.Float32frombits(binary.BigEndian.Uint32(b)))
	default:
		return model.Double(math.Float64frombits(binary.BigEndian.Uint64(b)))
	}
}

// MustDecodeFixed decodes a fixed-width value whose extent has already been
// validated by the caller. It panics on short buffers.
func MustDecodeFixed(dt model.DataType, b []byte) model.Value {
	return decodeFixed(dt, b)
}

// AppendFixed appends the fixed-width encoding of v.
func AppendFixed(dst []byte, v model.Value) ([]byte, error) {
	switch v.Type() {
	case model.TypeInt:
		return binary.BigEndian.AppendUint32(dst, uint32(v.Int32())), nil
	case model.TypeLong:
		return binary.BigEndian.AppendUint64(dst, uint64(v.Int64())), nil
	case model.TypeFloat:
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(v.Float32())), nil
	case model.TypeDouble:
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(v.Float64())), nil
	default:
		return dst, fmt.Errorf("%w: %s is not fixed-width", ErrTypeMismatch, v.Type())
	}
}

// DecodePadded returns the slot of the given width at off.
// When trim is set, trailing pad bytes are removed. The result aliases buf.
func DecodePadded(buf []byte, off, width int, pad byte, trim bool) ([]byte, error) {
	if off < 0 || width < 0 || off+width > len(buf) {
		return nil, short(off+width, len(buf))
	}
	slot := buf[off : off+width]
	if trim {
		slot = TrimPadding(slot, pad)
	}
	return slot, nil
}

// TrimPadding removes trailing pad bytes from slot.
func TrimPadding(slot []byte, pad byte) []byte {
	end := len(slot)
	for end > 0 && slot[end-1] == pad {
		end--
	}
	return slot[:end]
}

// AppendPadded appends b right-padded with pad to width bytes.
func AppendPadded(dst, b []byte, width int, pad byte) ([]byte, error) {
	if len(b) > width {
		return dst, fmt.Errorf("valuecodec: value of %d bytes exceeds slot width %d", len(b), width)
	}
	dst = append(dst, b...)
	for i := len(b); i < width; i++ {
		dst = append(dst, pad)
	}
	return dst, nil
}

// DecodeLengthPrefixed returns the bytes of the length-prefixed value at off
// and the offset just past it. The result aliases buf.
func DecodeLengthPrefixed(buf []byte, off int) (value []byte, next int, err error) {
	if off < 0 || off+LengthPrefixSize > len(buf) {
		return nil, 0, short(off+LengthPrefixSize, len(buf))
	}
	n := int(binary.BigEndian.Uint32(buf[off:]))
	start := off + LengthPrefixSize
	if n > len(buf)-start {
		return nil, 0, short(start+n, len(buf))
	}
	return buf[start : start+n], start + n, nil
}

// AppendLengthPrefixed appends b with a uint32 length prefix.
func AppendLengthPrefixed(dst, b []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(b)))
	return append(dst, b...)
}

// RawBytes returns the variable-width payload of a STRING or BYTES value.
func RawBytes(v model.Value) ([]byte, error) {
	switch v.Type() {
	case model.TypeString:
		return []byte(v.StringValue()), nil
	case model.TypeBytes:
		return v.BytesValue(), nil
	default:
		return nil, fmt.Errorf("%w: %s is not variable-width", ErrTypeMismatch, v.Type())
	}
}

// FromRawBytes builds a STRING or BYTES value from b.
// STRING values copy b; BYTES values alias it.
func FromRawBytes(dt model.DataType, b []byte) (model.Value, error) {
	switch dt {
	case model.TypeString:
		return model.String(string(b)), nil
	case model.TypeBytes:
		return model.Bytes(b), nil
	default:
		return model.Value{}, fmt.Errorf("%w: %s is not variable-width", ErrTypeMismatch, dt)
	}
}

// Canonical returns the canonical byte form of v used for hashing.
// Fixed-width values use their persisted encoding, STRING/BYTES their raw bytes.
func Canonical(v model.Value) []byte {
	if _, ok := v.Type().FixedWidth(); ok {
		b, _ := AppendFixed(make([]byte, 0, 8), v)
		return b
	}
	b, _ := RawBytes(v)
	return b
}
