package forward

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/bitpack"
	"github.com/hupe1980/colseg/internal/conv"
	"github.com/hupe1980/colseg/model"
)

// preferredEntriesPerChunk sizes the chunk offset table of multi-value columns.
const preferredEntriesPerChunk = 2048

// DocsPerChunk returns the chunk size of a multi-value column: enough
// documents to hold about 2048 entries.
func DocsPerChunk(totalDocs, totalEntries int) int {
	if totalDocs == 0 || totalEntries == 0 {
		return 1
	}
	avg := float64(totalEntries) / float64(totalDocs)
	return max(1, int(math.Ceil(preferredEntriesPerChunk/avg)))
}

// mvLayout holds the section sizes of a multi-value buffer.
type mvLayout struct {
	numChunks    int
	docsPerChunk int
	bitmapOffset int
	bitmapSize   int
	valuesOffset int
}

func newMVLayout(totalDocs, totalEntries int) mvLayout {
	dpc := DocsPerChunk(totalDocs, totalEntries)
	l := mvLayout{docsPerChunk: dpc, numChunks: (totalDocs + dpc - 1) / dpc}
	l.bitmapOffset = l.numChunks * 4
	l.bitmapSize = (totalEntries + 7) / 8
	l.valuesOffset = l.bitmapOffset + l.bitmapSize
	return l
}

// FixedBitMV reads a multi-value column. Every document holds at least one
// entry; the doc-start bitmap marks the first entry of each document and the
// chunk table stores the first entry of every docsPerChunk-th document.
type FixedBitMV struct {
	layout     mvLayout
	chunks     []byte
	starts     *bitpack.BitSet
	values     *bitpack.Reader
	numDocs    int
	numEntries int
}

var _ index.MultiOrdinalReader = (*FixedBitMV)(nil)

// NewFixedBitMV returns a reader over buf.
func NewFixedBitMV(buf []byte, meta *model.ColumnMetadata) (*FixedBitMV, error) {
	docs, entries := meta.TotalDocs, meta.TotalEntries
	if entries < docs {
		return nil, index.Corrupt("multi-value index %q: %d entries for %d docs", meta.Name, entries, docs)
	}
	l := newMVLayout(docs, entries)
	if len(buf) < l.valuesOffset {
		return nil, index.Corrupt("multi-value index %q: header needs %d bytes, have %d", meta.Name, l.valuesOffset, len(buf))
	}
	starts, err := bitpack.NewBitSet(buf[l.bitmapOffset:l.valuesOffset], entries)
	if err != nil {
		return nil, index.Corrupt("multi-value index %q: %v", meta.Name, err)
	}
	values, err := bitpack.NewReader(buf[l.valuesOffset:], entries, meta.BitsPerElement)
	if err != nil {
		return nil, index.Corrupt("multi-value index %q: %v", meta.Name, err)
	}
	f := &FixedBitMV{
		layout:     l,
		chunks:     buf[:l.bitmapOffset],
		starts:     starts,
		values:     values,
		numDocs:    docs,
		numEntries: entries,
	}
	if err := f.validate(buf[l.bitmapOffset:l.valuesOffset]); err != nil {
		return nil, index.Corrupt("multi-value index %q: %v", meta.Name, err)
	}
	return f, nil
}

func (f *FixedBitMV) validate(bitmap []byte) error {
	marked := 0
	for _, b := range bitmap {
		marked += bits.OnesCount8(b)
	}
	if marked != f.numDocs {
		return fmt.Errorf("doc-start bitmap marks %d docs, want %d", marked, f.numDocs)
	}
	if f.numDocs > 0 && !f.starts.IsSet(0) {
		return fmt.Errorf("first entry is not a document start")
	}
	prev := -1
	for c := range f.layout.numChunks {
		start := f.chunkStart(c)
		if start <= prev || start >= f.numEntries || !f.starts.IsSet(start) {
			return fmt.Errorf("chunk %d starts at invalid entry %d", c, start)
		}
		prev = start
	}
	return nil
}

func (f *FixedBitMV) chunkStart(chunk int) int {
	return int(int32(binary.BigEndian.Uint32(f.chunks[chunk*4:])))
}

// entryRange returns the entries [start, end) of docID.
func (f *FixedBitMV) entryRange(docID uint32) (start, end int) {
	d := int(docID)
	start = f.chunkStart(d / f.layout.docsPerChunk)
	for range d % f.layout.docsPerChunk {
		start = f.starts.NextSetBit(start + 1)
	}
	end = f.starts.NextSetBit(start + 1)
	if end < 0 {
		end = f.numEntries
	}
	return start, end
}

// Kind implements index.ForwardIndex.
func (f *FixedBitMV) Kind() index.ForwardKind { return index.ForwardFixedBitMV }

// NumDocs implements index.ForwardIndex.
func (f *FixedBitMV) NumDocs() int { return f.numDocs }

// NumEntries implements index.MultiOrdinalReader.
func (f *FixedBitMV) NumEntries() int { return f.numEntries }

// NumValues implements index.MultiOrdinalReader.
func (f *FixedBitMV) NumValues(docID uint32) int {
	start, end := f.entryRange(docID)
	return end - start
}

// OrdinalsAt implements index.MultiOrdinalReader.
func (f *FixedBitMV) OrdinalsAt(docID uint32, dst []uint32) []uint32 {
	start, end := f.entryRange(docID)
	n := len(dst)
	dst = append(dst, make([]uint32, end-start)...)
	f.values.Fill(start, dst[n:])
	return dst
}

// Close implements index.ForwardIndex.
func (f *FixedBitMV) Close() error { return nil }

// EncodeFixedBitMV serializes per-document ordinal lists. Every document must
// hold at least one ordinal.
func EncodeFixedBitMV(rows [][]uint32, bitsPerElement int) ([]byte, error) {
	entries := 0
	for i, r := range rows {
		if len(r) == 0 {
			return nil, fmt.Errorf("forward: doc %d has no entries", i)
		}
		entries += len(r)
	}
	l := newMVLayout(len(rows), entries)
	out := make([]byte, l.valuesOffset)
	w, err := bitpack.NewWriter(bitsPerElement)
	if err != nil {
		return nil, err
	}
	for d, r := range rows {
		if d%l.docsPerChunk == 0 {
			if err := conv.PutInt32(out[d/l.docsPerChunk*4:], w.Len()); err != nil {
				return nil, fmt.Errorf("forward: chunk at doc %d: %w", d, err)
			}
		}
		bitpack.SetBit(out[l.bitmapOffset:], w.Len())
		for _, o := range r {
			if err := w.Append(o); err != nil {
				return nil, fmt.Errorf("forward: doc %d: %w", d, err)
			}
		}
	}
	return append(out, w.Bytes()...), nil
}
