package model

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// Value is a typed scalar decoded from a column.
//
// The zero Value has TypeInvalid. Numeric payloads share i64/f64 storage;
// STRING keeps its Go string and BYTES its slice, which may alias a
// memory-mapped buffer and must be treated as read-only.
type Value struct {
	typ DataType
	i64 int64
	f64 float64
	s   string
	b   []byte
}

// Int returns an INT value.
func Int(v int32) Value { return Value{typ: TypeInt, i64: int64(v)} }

// Long returns a LONG value.
func Long(v int64) Value { return Value{typ: TypeLong, i64: v} }

// Float returns a FLOAT value.
func Float(v float32) Value { return Value{typ: TypeFloat, f64: float64(v)} }

// Double returns a DOUBLE value.
func Double(v float64) Value { return Value{typ: TypeDouble, f64: v} }

// String returns a STRING value.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// Bytes returns a BYTES value. The slice is not copied.
func Bytes(v []byte) Value { return Value{typ: TypeBytes, b: v} }

// Type returns the data type of the value.
func (v Value) Type() DataType { return v.typ }

// IsValid reports whether v carries a supported type.
func (v Value) IsValid() bool { return v.typ.Valid() }

// Int32 returns the INT payload, or 0 for other types.
func (v Value) Int32() int32 {
	if v.typ != TypeInt {
		return 0
	}
	return int32(v.i64)
}

// Int64 returns the integer payload of INT and LONG values.
func (v Value) Int64() int64 {
	if v.typ != TypeInt && v.typ != TypeLong {
		return 0
	}
	return v.i64
}

// Float32 returns the FLOAT payload, or 0 for other types.
func (v Value) Float32() float32 {
	if v.typ != TypeFloat {
		return 0
	}
	return float32(v.f64)
}

// Float64 returns the floating payload of FLOAT and DOUBLE values.
func (v Value) Float64() float64 {
	if v.typ != TypeFloat && v.typ != TypeDouble {
		return 0
	}
	return v.f64
}

// StringValue returns the STRING payload, or "" for other types.
func (v Value) StringValue() string {
	if v.typ != TypeString {
		return ""
	}
	return v.s
}

// BytesValue returns the BYTES payload, or nil for other types.
func (v Value) BytesValue() []byte {
	if v.typ != TypeBytes {
		return nil
	}
	return v.b
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.typ {
	case TypeInt, TypeLong:
		return strconv.FormatInt(v.i64, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 32)
	case TypeDouble:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case TypeString:
		return v.s
	case TypeBytes:
		return hex.EncodeToString(v.b)
	default:
		return "<invalid>"
	}
}

// Compare orders two values of the same type the way dictionaries are sorted.
//
// Floats use cmp.Compare, so NaN sorts before every other value and equals
// itself. Values of different types order by type.
func Compare(a, b Value) int {
	if a.typ != b.typ {
		return cmp.Compare(a.typ, b.typ)
	}
	switch a.typ {
	case TypeInt, TypeLong:
		return cmp.Compare(a.i64, b.i64)
	case TypeFloat, TypeDouble:
		return cmp.Compare(a.f64, b.f64)
	case TypeString:
		return cmp.Compare(a.s, b.s)
	case TypeBytes:
		return bytes.Compare(a.b, b.b)
	default:
		return 0
	}
}

// Equal reports whether a and b have the same type and compare equal.
// Negative and positive zero are distinguished for floating types.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || Compare(v, o) != 0 {
		return false
	}
	if v.typ == TypeFloat || v.typ == TypeDouble {
		return math.Signbit(v.f64) == math.Signbit(o.f64)
	}
	return true
}

// ParseValue parses the text form produced by Value.String.
func ParseValue(dt DataType, s string) (Value, error) {
	var (
		v   Value
		err error
	)
	switch dt {
	case TypeInt:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		v = Int(int32(n))
	case TypeLong:
		var n int64
		n, err = strconv.ParseInt(s, 10, 64)
		v = Long(n)
	case TypeFloat:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		v = Float(float32(f))
	case TypeDouble:
		var f float64
		f, err = strconv.ParseFloat(s, 64)
		v = Double(f)
	case TypeString:
		v = String(s)
	case TypeBytes:
		var b []byte
		b, err = hex.DecodeString(s)
		v = Bytes(b)
	default:
		return Value{}, fmt.Errorf("parse value: unsupported data type %s", dt)
	}
	if err != nil {
		return Value{}, fmt.Errorf("parse %s value %q: %w", dt, s, err)
	}
	return v, nil
}
