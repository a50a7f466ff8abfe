// Package inverted reads the bitmap inverted index of a dictionary column.
//
// Layout (big-endian offsets):
//
//	[(cardinality+1) × int32 offsets][roaring bitmap per ordinal]
//
// Offsets are relative to the start of the buffer. The bitmap of ordinal i
// occupies [offsets[i], offsets[i+1]). Bitmaps are deserialized on demand as
// read-only views over the buffer.
package inverted

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/conv"
	"github.com/hupe1980/colseg/model"
)

// Reader is a bitmap inverted index.
type Reader struct {
	buf         []byte
	cardinality int
}

var _ index.InvertedIndex = (*Reader)(nil)

// New returns a reader over buf. Only the offset table is validated.
func New(buf []byte, meta *model.ColumnMetadata) (*Reader, error) {
	card := meta.Cardinality
	table := (card + 1) * 4
	if len(buf) < table {
		return nil, index.Corrupt("inverted index %q: offset table needs %d bytes, have %d", meta.Name, table, len(buf))
	}
	r := &Reader{buf: buf, cardinality: card}
	prev := table
	for i := 0; i <= card; i++ {
		off := r.offset(i)
		if off < prev || off > len(buf) {
			return nil, index.Corrupt("inverted index %q: offset %d of ordinal %d out of order", meta.Name, off, i)
		}
		prev = off
	}
	return r, nil
}

func (r *Reader) offset(i int) int {
	return int(int32(binary.BigEndian.Uint32(r.buf[i*4:])))
}

// Cardinality implements index.InvertedIndex.
func (r *Reader) Cardinality() int { return r.cardinality }

// DocIDs implements index.InvertedIndex.
func (r *Reader) DocIDs(ordinal uint32) (index.DocIDSet, error) {
	rb, err := r.view(ordinal)
	if err != nil {
		return nil, err
	}
	return index.NewBitmapSet(rb), nil
}

// Bitmap returns a mutable copy of the bitmap of ordinal.
func (r *Reader) Bitmap(ordinal uint32) (*roaring.Bitmap, error) {
	rb, err := r.view(ordinal)
	if err != nil {
		return nil, err
	}
	return rb.Clone(), nil
}

func (r *Reader) view(ordinal uint32) (*roaring.Bitmap, error) {
	if int(ordinal) >= r.cardinality {
		return nil, fmt.Errorf("%w: %d >= %d", index.ErrOrdinalOutOfRange, ordinal, r.cardinality)
	}
	data := r.buf[r.offset(int(ordinal)):r.offset(int(ordinal)+1)]
	rb := roaring.New()
	if len(data) == 0 {
		return rb, nil
	}
	if _, err := rb.FromBuffer(data); err != nil {
		return nil, fmt.Errorf("%w: bitmap of ordinal %d: %w", index.ErrCorrupt, ordinal, err)
	}
	return rb, nil
}

// Close implements index.InvertedIndex.
func (r *Reader) Close() error {
	r.buf = nil
	return nil
}

// Encode serializes one bitmap per ordinal.
func Encode(bitmaps []*roaring.Bitmap) ([]byte, error) {
	table := (len(bitmaps) + 1) * 4
	out := make([]byte, table)
	for i, rb := range bitmaps {
		if err := conv.PutInt32(out[i*4:], len(out)); err != nil {
			return nil, fmt.Errorf("inverted: ordinal %d: %w", i, err)
		}
		rb.RunOptimize()
		data, err := rb.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("inverted: ordinal %d: %w", i, err)
		}
		out = append(out, data...)
	}
	if err := conv.PutInt32(out[len(bitmaps)*4:], len(out)); err != nil {
		return nil, fmt.Errorf("inverted: %w", err)
	}
	return out, nil
}

// EncodeOrdinals builds the index of a single-value ordinal column.
func EncodeOrdinals(ordinals []uint32, cardinality int) ([]byte, error) {
	bitmaps := make([]*roaring.Bitmap, cardinality)
	for i := range bitmaps {
		bitmaps[i] = roaring.New()
	}
	for d, o := range ordinals {
		if int(o) >= cardinality {
			return nil, fmt.Errorf("inverted: doc %d has ordinal %d >= %d", d, o, cardinality)
		}
		bitmaps[o].Add(uint32(d))
	}
	return Encode(bitmaps)
}

// EncodeMultiOrdinals builds the index of a multi-value ordinal column.
func EncodeMultiOrdinals(rows [][]uint32, cardinality int) ([]byte, error) {
	bitmaps := make([]*roaring.Bitmap, cardinality)
	for i := range bitmaps {
		bitmaps[i] = roaring.New()
	}
	for d, row := range rows {
		for _, o := range row {
			if int(o) >= cardinality {
				return nil, fmt.Errorf("inverted: doc %d has ordinal %d >= %d", d, o, cardinality)
			}
			bitmaps[o].Add(uint32(d))
		}
	}
	return Encode(bitmaps)
}
