package model

import (
	"fmt"
	"strings"
)

// DataType is the physical type of a column's values.
type DataType uint8

const (
	// TypeInvalid is the zero value and never valid in metadata.
	TypeInvalid DataType = iota
	// TypeInt is a 32-bit signed integer.
	TypeInt
	// TypeLong is a 64-bit signed integer.
	TypeLong
	// TypeFloat is a 32-bit IEEE-754 float.
	TypeFloat
	// TypeDouble is a 64-bit IEEE-754 float.
	TypeDouble
	// TypeString is a UTF-8 string.
	TypeString
	// TypeBytes is an opaque byte sequence.
	TypeBytes
)

var dataTypeNames = [...]string{
	TypeInvalid: "INVALID",
	TypeInt:     "INT",
	TypeLong:    "LONG",
	TypeFloat:   "FLOAT",
	TypeDouble:  "DOUBLE",
	TypeString:  "STRING",
	TypeBytes:   "BYTES",
}

// String returns the canonical upper-case name of the type.
func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("DataType(%d)", uint8(t))
}

// Valid reports whether t is one of the supported types.
func (t DataType) Valid() bool {
	return t >= TypeInt && t <= TypeBytes
}

// FixedWidth returns the encoded byte width of fixed-width types.
// ok is false for STRING, BYTES and invalid types.
func (t DataType) FixedWidth() (width int, ok bool) {
	switch t {
	case TypeInt, TypeFloat:
		return 4, true
	case TypeLong, TypeDouble:
		return 8, true
	default:
		return 0, false
	}
}

// IsVariableWidth reports whether values of t have no fixed encoded width.
func (t DataType) IsVariableWidth() bool {
	return t == TypeString || t == TypeBytes
}

// ParseDataType parses a type name (case-insensitive).
func ParseDataType(s string) (DataType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range dataTypeNames {
		if i == int(TypeInvalid) {
			continue
		}
		if n == name {
			return DataType(i), nil
		}
	}
	return TypeInvalid, fmt.Errorf("%w: unknown data type %q", ErrInvalidMetadata, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t DataType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: cannot marshal %s", ErrInvalidMetadata, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
