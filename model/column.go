package model

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidMetadata is returned when column or segment metadata breaks a layout invariant.
var ErrInvalidMetadata = errors.New("invalid metadata")

// MaxBitsPerElement is the widest supported fixed-bit ordinal encoding.
const MaxBitsPerElement = 32

// ColumnMetadata describes how one column is laid out in a segment.
//
// Encoding choice is derived from these fields; no reader stores an explicit
// encoding tag.
type ColumnMetadata struct {
	Name     string   `json:"columnName"`
	DataType DataType `json:"dataType"`

	// Cardinality is the distinct value count. Meaningful only with a dictionary.
	Cardinality int `json:"cardinality"`
	TotalDocs   int `json:"totalDocs"`
	// TotalEntries equals TotalDocs unless the column is multi-valued.
	TotalEntries int `json:"totalNumberOfEntries"`

	SingleValue   bool `json:"isSingleValue"`
	Sorted        bool `json:"isSorted"`
	HasDictionary bool `json:"hasDictionary"`

	// BitsPerElement is the fixed bit width of packed ordinals.
	BitsPerElement int `json:"bitsPerElement"`
	// MaxLength is the slot width of STRING/BYTES dictionary entries.
	MaxLength int `json:"columnMaxLength"`
	// PaddingByte fills unused slot bytes of STRING/BYTES dictionary entries.
	PaddingByte byte `json:"paddingCharacter"`

	// Compression names the chunk codec of raw forward indexes ("" for none).
	Compression string `json:"compression,omitempty"`
}

// BitsFor returns the minimal fixed bit width able to encode ordinals of a
// dictionary with the given cardinality. The result is at least 1.
func BitsFor(cardinality int) int {
	if cardinality <= 2 {
		return 1
	}
	return bits.Len64(uint64(cardinality - 1))
}

// Validate checks the layout invariants of the column.
func (c *ColumnMetadata) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidMetadata)
	}
	if !c.DataType.Valid() {
		return c.invalid("unsupported data type %s", c.DataType)
	}
	if c.TotalDocs < 0 {
		return c.invalid("negative total docs %d", c.TotalDocs)
	}
	if c.TotalEntries < c.TotalDocs {
		return c.invalid("total entries %d < total docs %d", c.TotalEntries, c.TotalDocs)
	}
	if c.SingleValue && c.TotalEntries != c.TotalDocs {
		return c.invalid("single-value column with %d entries for %d docs", c.TotalEntries, c.TotalDocs)
	}
	if c.Sorted && !c.SingleValue {
		return c.invalid("sorted column must be single-valued")
	}
	if c.Sorted && !c.HasDictionary {
		return c.invalid("sorted column must be dictionary-encoded")
	}
	if !c.HasDictionary {
		if !c.SingleValue {
			return c.invalid("raw column must be single-valued")
		}
		return nil
	}

	if c.Cardinality < 0 {
		return c.invalid("negative cardinality %d", c.Cardinality)
	}
	if c.TotalDocs > 0 && c.Cardinality == 0 {
		return c.invalid("empty dictionary for %d docs", c.TotalDocs)
	}
	if c.BitsPerElement < 1 || c.BitsPerElement > MaxBitsPerElement {
		return c.invalid("bits per element %d out of range [1, %d]", c.BitsPerElement, MaxBitsPerElement)
	}
	if c.BitsPerElement < MaxBitsPerElement && uint64(c.Cardinality) > uint64(1)<<c.BitsPerElement {
		return c.invalid("cardinality %d does not fit in %d bits", c.Cardinality, c.BitsPerElement)
	}
	if c.DataType.IsVariableWidth() && c.MaxLength <= 0 {
		return c.invalid("dictionary slot width must be positive, got %d", c.MaxLength)
	}
	return nil
}

func (c *ColumnMetadata) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: column %q: %s", ErrInvalidMetadata, c.Name, fmt.Sprintf(format, args...))
}
