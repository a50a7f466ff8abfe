package dictionary

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/model"
)

// Encode serializes sorted, distinct values into the dictionary layout of a
// column with the given data type. slotWidth and pad apply to STRING and
// BYTES only. BYTES entries must ascend by their padded slots (see
// CanonicalValue); other types ascend by model.Compare.
func Encode(dt model.DataType, values []model.Value, slotWidth int, pad byte) ([]byte, error) {
	var out []byte
	for i, v := range values {
		if v.Type() != dt {
			return nil, fmt.Errorf("%w: entry %d is %s, want %s", valuecodec.ErrTypeMismatch, i, v.Type(), dt)
		}
		if dt != model.TypeBytes && i > 0 && model.Compare(values[i-1], v) >= 0 {
			return nil, fmt.Errorf("dictionary: entry %d is not strictly ascending", i)
		}
		var err error
		if dt.IsVariableWidth() {
			raw, _ := valuecodec.RawBytes(v)
			out, err = valuecodec.AppendPadded(out, raw, slotWidth, pad)
		} else {
			out, err = valuecodec.AppendFixed(out, v)
		}
		if err != nil {
			return nil, err
		}
		if dt == model.TypeBytes && i > 0 {
			cur := out[len(out)-slotWidth:]
			if bytes.Compare(out[len(out)-2*slotWidth:len(out)-slotWidth], cur) >= 0 {
				return nil, fmt.Errorf("dictionary: entry %d is not strictly ascending by padded slot", i)
			}
		}
	}
	return out, nil
}
