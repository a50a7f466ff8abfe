package forward

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/conv"
	"github.com/hupe1980/colseg/model"
)

// runSize is the persisted size of one (start, end) run.
const runSize = 8

// Sorted reads a sorted single-value column. Each ordinal owns the inclusive
// document run stored at its position.
type Sorted struct {
	runs        []byte
	cardinality int
	numDocs     int
}

var _ index.SortedIndex = (*Sorted)(nil)

// NewSorted returns a reader over buf. Runs must be non-empty, contiguous and
// cover every document of the column.
func NewSorted(buf []byte, meta *model.ColumnMetadata) (*Sorted, error) {
	card, docs := meta.Cardinality, meta.TotalDocs
	if need := card * runSize; len(buf) < need {
		return nil, index.Corrupt("sorted index %q: need %d bytes for %d runs, have %d", meta.Name, need, card, len(buf))
	}
	s := &Sorted{runs: buf[:card*runSize], cardinality: card, numDocs: docs}

	next := 0
	for ord := range card {
		start, end := s.run(uint32(ord))
		if start != next || end < start {
			return nil, index.Corrupt("sorted index %q: ordinal %d has run [%d, %d], want start %d", meta.Name, ord, start, end, next)
		}
		next = end + 1
	}
	if next != docs {
		return nil, index.Corrupt("sorted index %q: runs cover %d docs, column has %d", meta.Name, next, docs)
	}
	return s, nil
}

func (s *Sorted) run(ordinal uint32) (start, end int) {
	off := int(ordinal) * runSize
	return int(int32(binary.BigEndian.Uint32(s.runs[off:]))), int(int32(binary.BigEndian.Uint32(s.runs[off+4:])))
}

// Kind implements index.ForwardIndex.
func (s *Sorted) Kind() index.ForwardKind { return index.ForwardSorted }

// NumDocs implements index.ForwardIndex.
func (s *Sorted) NumDocs() int { return s.numDocs }

// Cardinality implements index.InvertedIndex.
func (s *Sorted) Cardinality() int { return s.cardinality }

// OrdinalAt implements index.OrdinalReader by binary search over run ends.
func (s *Sorted) OrdinalAt(docID uint32) uint32 {
	d := int(docID)
	return uint32(sort.Search(s.cardinality, func(i int) bool {
		_, end := s.run(uint32(i))
		return end >= d
	}))
}

// DocIDRange implements index.SortedIndex.
func (s *Sorted) DocIDRange(ordinal uint32) (start, end uint32) {
	if int(ordinal) >= s.cardinality {
		return 0, 0
	}
	a, b := s.run(ordinal)
	return uint32(a), uint32(b + 1)
}

// DocIDs implements index.InvertedIndex. The result is a range, never a bitmap.
func (s *Sorted) DocIDs(ordinal uint32) (index.DocIDSet, error) {
	if int(ordinal) >= s.cardinality {
		return nil, fmt.Errorf("%w: %d >= %d", index.ErrOrdinalOutOfRange, ordinal, s.cardinality)
	}
	start, end := s.DocIDRange(ordinal)
	return index.RangeSet{Start: start, End: end}, nil
}

// Close implements index.ForwardIndex and index.InvertedIndex.
func (s *Sorted) Close() error { return nil }

// EncodeSorted serializes the runs of non-decreasing ordinals. Every ordinal
// in [0, cardinality) must occur at least once.
func EncodeSorted(ordinals []uint32, cardinality int) ([]byte, error) {
	out := make([]byte, 0, cardinality*runSize)
	start := 0
	for ord := range cardinality {
		end := start
		for end < len(ordinals) && ordinals[end] == uint32(ord) {
			end++
		}
		if end == start {
			return nil, fmt.Errorf("forward: ordinal %d has no documents", ord)
		}
		var err error
		if out, err = conv.AppendInt32(out, start); err != nil {
			return nil, fmt.Errorf("forward: run of ordinal %d: %w", ord, err)
		}
		if out, err = conv.AppendInt32(out, end-1); err != nil {
			return nil, fmt.Errorf("forward: run of ordinal %d: %w", ord, err)
		}
		start = end
	}
	if start != len(ordinals) {
		return nil, fmt.Errorf("forward: ordinals are not sorted or exceed cardinality at doc %d", start)
	}
	return out, nil
}
