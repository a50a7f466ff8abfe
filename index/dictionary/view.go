package dictionary

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"
	"sort"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/model"
)

// View is a dictionary that decodes entries from its buffer on every lookup.
type View struct {
	layout
	buf []byte
}

var _ index.TypedDictionary = (*View)(nil)

// NewView returns a view-backed dictionary over buf. The buffer is not copied
// and must outlive the View.
func NewView(buf []byte, meta *model.ColumnMetadata) (*View, error) {
	l, err := newLayout(buf, meta)
	if err != nil {
		return nil, err
	}
	return &View{layout: l, buf: buf}, nil
}

// DataType implements index.Dictionary.
func (d *View) DataType() model.DataType { return d.dt }

// Len implements index.Dictionary.
func (d *View) Len() int { return d.n }

// ValueAt implements index.Dictionary. BYTES results alias the buffer.
func (d *View) ValueAt(ordinal uint32) model.Value {
	s := d.slot(d.buf, ordinal)
	switch d.dt {
	case model.TypeString:
		return model.String(string(s))
	case model.TypeBytes:
		return model.Bytes(s)
	default:
		return valuecodec.MustDecodeFixed(d.dt, s)
	}
}

// IndexOf implements index.Dictionary by binary search.
func (d *View) IndexOf(v model.Value) (uint32, bool) {
	if v.Type() != d.dt {
		return 0, false
	}
	var probe func(i int) int
	switch d.dt {
	case model.TypeString:
		target := v.StringValue()
		probe = func(i int) int { return cmp.Compare(string(d.slot(d.buf, uint32(i))), target) }
	case model.TypeBytes:
		target, ok := d.bytesProbe(v.BytesValue())
		if !ok {
			return 0, false
		}
		probe = func(i int) int { return bytes.Compare(d.slot(d.buf, uint32(i)), target) }
	default:
		probe = func(i int) int { return model.Compare(d.ValueAt(uint32(i)), v) }
	}
	i := sort.Search(d.n, func(i int) bool { return probe(i) >= 0 })
	if i < d.n && probe(i) == 0 {
		return uint32(i), true
	}
	return 0, false
}

// Int32At implements index.TypedDictionary.
func (d *View) Int32At(ordinal uint32) int32 {
	if d.dt != model.TypeInt {
		return 0
	}
	return int32(binary.BigEndian.Uint32(d.buf[int(ordinal)*4:]))
}

// Int64At implements index.TypedDictionary.
func (d *View) Int64At(ordinal uint32) int64 {
	switch d.dt {
	case model.TypeInt:
		return int64(d.Int32At(ordinal))
	case model.TypeLong:
		return int64(binary.BigEndian.Uint64(d.buf[int(ordinal)*8:]))
	}
	return 0
}

// Float32At implements index.TypedDictionary.
func (d *View) Float32At(ordinal uint32) float32 {
	if d.dt != model.TypeFloat {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(d.buf[int(ordinal)*4:]))
}

// Float64At implements index.TypedDictionary.
func (d *View) Float64At(ordinal uint32) float64 {
	switch d.dt {
	case model.TypeFloat:
		return float64(d.Float32At(ordinal))
	case model.TypeDouble:
		return math.Float64frombits(binary.BigEndian.Uint64(d.buf[int(ordinal)*8:]))
	}
	return 0
}

// StringAt implements index.TypedDictionary.
func (d *View) StringAt(ordinal uint32) string {
	if d.dt != model.TypeString {
		return ""
	}
	return string(d.slot(d.buf, ordinal))
}

// BytesAt implements index.TypedDictionary. The result aliases the buffer.
func (d *View) BytesAt(ordinal uint32) []byte {
	if d.dt != model.TypeBytes {
		return nil
	}
	return d.slot(d.buf, ordinal)
}

// Close implements index.Dictionary.
func (d *View) Close() error {
	d.buf = nil
	return nil
}
