package dictionary

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/resource"
)

// Materialized is a dictionary decoded once into heap memory.
type Materialized struct {
	layout
	values []model.Value
	// byString is set for STRING dictionaries.
	byString map[string]uint32

	rc        *resource.Controller
	accounted int64
	closeOnce sync.Once
}

var _ index.TypedDictionary = (*Materialized)(nil)

// NewMaterialized decodes every entry of buf. The estimated heap footprint is
// acquired from rc (which may be nil) and fails fast with
// resource.ErrMemoryLimitExceeded. The buffer is not referenced afterwards.
func NewMaterialized(buf []byte, meta *model.ColumnMetadata, rc *resource.Controller) (*Materialized, error) {
	l, err := newLayout(buf, meta)
	if err != nil {
		return nil, err
	}

	size := estimateSize(l)
	if err := rc.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("dictionary %q: %w", meta.Name, err)
	}

	view := View{layout: l, buf: buf}
	d := &Materialized{
		layout:    l,
		values:    make([]model.Value, l.n),
		rc:        rc,
		accounted: size,
	}
	if l.dt == model.TypeString {
		d.byString = make(map[string]uint32, l.n)
	}
	for i := range d.values {
		ord := uint32(i)
		switch l.dt {
		case model.TypeString:
			s := view.StringAt(ord)
			d.values[i] = model.String(s)
			d.byString[s] = ord
		case model.TypeBytes:
			d.values[i] = model.Bytes(append([]byte(nil), view.BytesAt(ord)...))
		default:
			d.values[i] = view.ValueAt(ord)
		}
	}
	return d, nil
}

func estimateSize(l layout) int64 {
	per := int64(unsafe.Sizeof(model.Value{}))
	size := int64(l.n) * per
	if l.dt.IsVariableWidth() {
		size += int64(l.n) * int64(l.width)
	}
	if l.dt == model.TypeString {
		// map entry: key header, ordinal, bucket overhead
		size += int64(l.n) * 32
	}
	return size
}

// MemoryUsage returns the bytes accounted for this dictionary.
func (d *Materialized) MemoryUsage() int64 { return d.accounted }

// DataType implements index.Dictionary.
func (d *Materialized) DataType() model.DataType { return d.dt }

// Len implements index.Dictionary.
func (d *Materialized) Len() int { return len(d.values) }

// ValueAt implements index.Dictionary.
func (d *Materialized) ValueAt(ordinal uint32) model.Value { return d.values[ordinal] }

// IndexOf implements index.Dictionary.
func (d *Materialized) IndexOf(v model.Value) (uint32, bool) {
	if v.Type() != d.dt {
		return 0, false
	}
	if d.byString != nil {
		ord, ok := d.byString[v.StringValue()]
		return ord, ok
	}
	if d.dt == model.TypeBytes {
		b, ok := d.bytesProbe(v.BytesValue())
		if !ok {
			return 0, false
		}
		v = model.Bytes(b)
	}
	i := sort.Search(len(d.values), func(i int) bool { return model.Compare(d.values[i], v) >= 0 })
	if i < len(d.values) && model.Compare(d.values[i], v) == 0 {
		return uint32(i), true
	}
	return 0, false
}

// Int32At implements index.TypedDictionary.
func (d *Materialized) Int32At(ordinal uint32) int32 { return d.values[ordinal].Int32() }

// Int64At implements index.TypedDictionary.
func (d *Materialized) Int64At(ordinal uint32) int64 { return d.values[ordinal].Int64() }

// Float32At implements index.TypedDictionary.
func (d *Materialized) Float32At(ordinal uint32) float32 { return d.values[ordinal].Float32() }

// Float64At implements index.TypedDictionary.
func (d *Materialized) Float64At(ordinal uint32) float64 { return d.values[ordinal].Float64() }

// StringAt implements index.TypedDictionary.
func (d *Materialized) StringAt(ordinal uint32) string { return d.values[ordinal].StringValue() }

// BytesAt implements index.TypedDictionary.
func (d *Materialized) BytesAt(ordinal uint32) []byte { return d.values[ordinal].BytesValue() }

// Close drops the decoded values and releases the accounted memory.
// It is idempotent.
func (d *Materialized) Close() error {
	d.closeOnce.Do(func() {
		d.rc.ReleaseMemory(d.accounted)
		d.accounted = 0
		d.values = nil
		d.byString = nil
	})
	return nil
}
