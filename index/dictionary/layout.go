package dictionary

import (
	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/model"
)

// layout describes the slot geometry of a dictionary buffer.
type layout struct {
	dt    model.DataType
	n     int
	width int
	pad   byte
}

func newLayout(buf []byte, meta *model.ColumnMetadata) (layout, error) {
	l := layout{dt: meta.DataType, n: meta.Cardinality, pad: meta.PaddingByte}
	if w, ok := meta.DataType.FixedWidth(); ok {
		l.width = w
	} else if meta.DataType.IsVariableWidth() {
		l.width = meta.MaxLength
	} else {
		return layout{}, index.ErrUnsupportedType
	}
	if l.n < 0 || l.width <= 0 {
		return layout{}, index.Corrupt("dictionary %q: cardinality %d, slot width %d", meta.Name, l.n, l.width)
	}
	if need := l.n * l.width; len(buf) < need {
		return layout{}, index.Corrupt("dictionary %q: need %d bytes, have %d", meta.Name, need, len(buf))
	}
	return l, nil
}

// slot returns the raw slot of ordinal, trimmed for STRING. BYTES slots keep
// their padding.
func (l layout) slot(buf []byte, ordinal uint32) []byte {
	off := int(ordinal) * l.width
	s := buf[off : off+l.width]
	if l.dt == model.TypeString {
		for end := len(s); end > 0; end-- {
			if s[end-1] != l.pad {
				return s[:end]
			}
		}
		return s[:0]
	}
	return s
}

// bytesProbe pads a BYTES lookup key to the slot width. It reports false when
// the key cannot occupy a slot.
func (l layout) bytesProbe(b []byte) ([]byte, bool) {
	if len(b) > l.width {
		return nil, false
	}
	if len(b) == l.width {
		return b, true
	}
	out, _ := valuecodec.AppendPadded(make([]byte, 0, l.width), b, l.width, l.pad)
	return out, true
}

// CanonicalValue returns v in the form a dictionary of the column stores it.
// BYTES entries are persisted right-padded to the column's slot width and are
// ordered, hashed into the bloom filter and returned by ValueAt in that form.
// Other values, and BYTES values longer than the slot, are returned unchanged.
func CanonicalValue(meta *model.ColumnMetadata, v model.Value) model.Value {
	if !meta.HasDictionary || meta.DataType != model.TypeBytes || v.Type() != model.TypeBytes {
		return v
	}
	l := layout{dt: model.TypeBytes, width: meta.MaxLength, pad: meta.PaddingByte}
	b, ok := l.bytesProbe(v.BytesValue())
	if !ok {
		return v
	}
	return model.Bytes(b)
}
