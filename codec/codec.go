// Package codec encodes segment metadata.
//
// The metadata blob does not record its codec; every built-in codec reads
// and writes plain JSON, so they are interchangeable for persisted segments.
package codec

import (
	"fmt"

	"github.com/hupe1980/colseg/model"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// EncodeSegment validates meta and encodes it with c (Default when nil).
func EncodeSegment(c Codec, meta *model.SegmentMetadata) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	data, err := c.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("codec %s: encode segment %q: %w", c.Name(), meta.Name, err)
	}
	return data, nil
}

// DecodeSegment decodes and validates segment metadata with c (Default when nil).
func DecodeSegment(c Codec, data []byte) (*model.SegmentMetadata, error) {
	if c == nil {
		c = Default
	}
	var meta model.SegmentMetadata
	if err := c.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("codec %s: decode segment: %w: %w", c.Name(), model.ErrInvalidMetadata, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}
