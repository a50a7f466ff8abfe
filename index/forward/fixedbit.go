package forward

import (
	"fmt"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/bitpack"
	"github.com/hupe1980/colseg/model"
)

// FixedBitSV reads one bit-packed ordinal per document.
type FixedBitSV struct {
	r *bitpack.Reader
}

var _ index.OrdinalReader = (*FixedBitSV)(nil)

// NewFixedBitSV returns a reader over buf holding TotalDocs ordinals of
// BitsPerElement bits.
func NewFixedBitSV(buf []byte, meta *model.ColumnMetadata) (*FixedBitSV, error) {
	r, err := bitpack.NewReader(buf, meta.TotalDocs, meta.BitsPerElement)
	if err != nil {
		return nil, index.Corrupt("fixed-bit index %q: %v", meta.Name, err)
	}
	return &FixedBitSV{r: r}, nil
}

// Kind implements index.ForwardIndex.
func (f *FixedBitSV) Kind() index.ForwardKind { return index.ForwardFixedBitSV }

// NumDocs implements index.ForwardIndex.
func (f *FixedBitSV) NumDocs() int { return f.r.Len() }

// OrdinalAt implements index.OrdinalReader.
func (f *FixedBitSV) OrdinalAt(docID uint32) uint32 { return f.r.Get(int(docID)) }

// ReadOrdinals fills dst with the ordinals of documents starting at docID.
func (f *FixedBitSV) ReadOrdinals(docID uint32, dst []uint32) { f.r.Fill(int(docID), dst) }

// Close implements index.ForwardIndex.
func (f *FixedBitSV) Close() error { return nil }

// EncodeFixedBitSV bit-packs ordinals at the given width.
func EncodeFixedBitSV(ordinals []uint32, bits int) ([]byte, error) {
	w, err := bitpack.NewWriter(bits)
	if err != nil {
		return nil, err
	}
	for i, o := range ordinals {
		if err := w.Append(o); err != nil {
			return nil, fmt.Errorf("forward: doc %d: %w", i, err)
		}
	}
	return w.Bytes(), nil
}
