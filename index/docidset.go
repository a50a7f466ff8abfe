package index

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// DocIDSet is an immutable set of segment-local document ids.
type DocIDSet interface {
	// Contains reports whether docID is in the set.
	Contains(docID uint32) bool
	// Cardinality returns the number of documents.
	Cardinality() uint64
	// ForEach calls fn for each id in ascending order. Stop early if fn returns false.
	ForEach(fn func(docID uint32) bool)
	// ToArray returns the ids in ascending order.
	ToArray() []uint32
	// ToBitmap returns a new mutable bitmap holding the ids.
	ToBitmap() *roaring.Bitmap
}

// RangeSet is the contiguous document range [Start, End).
type RangeSet struct {
	Start, End uint32
}

// Contains implements DocIDSet.
func (r RangeSet) Contains(docID uint32) bool {
	return docID >= r.Start && docID < r.End
}

// Cardinality implements DocIDSet.
func (r RangeSet) Cardinality() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return uint64(r.End - r.Start)
}

// ForEach implements DocIDSet.
func (r RangeSet) ForEach(fn func(docID uint32) bool) {
	for d := r.Start; d < r.End; d++ {
		if !fn(d) {
			return
		}
	}
}

// ToArray implements DocIDSet.
func (r RangeSet) ToArray() []uint32 {
	out := make([]uint32, 0, r.Cardinality())
	for d := r.Start; d < r.End; d++ {
		out = append(out, d)
	}
	return out
}

// ToBitmap implements DocIDSet.
func (r RangeSet) ToBitmap() *roaring.Bitmap {
	rb := roaring.New()
	if r.End > r.Start {
		rb.AddRange(uint64(r.Start), uint64(r.End))
	}
	return rb
}

// BitmapSet wraps a roaring bitmap that must not be mutated, typically one
// deserialized in place over a read-only buffer.
type BitmapSet struct {
	rb *roaring.Bitmap
}

// NewBitmapSet wraps rb. The caller gives up the right to mutate rb.
func NewBitmapSet(rb *roaring.Bitmap) *BitmapSet {
	return &BitmapSet{rb: rb}
}

// Contains implements DocIDSet.
func (b *BitmapSet) Contains(docID uint32) bool { return b.rb.Contains(docID) }

// Cardinality implements DocIDSet.
func (b *BitmapSet) Cardinality() uint64 { return b.rb.GetCardinality() }

// ForEach implements DocIDSet.
func (b *BitmapSet) ForEach(fn func(docID uint32) bool) {
	it := b.rb.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

// ToArray implements DocIDSet.
func (b *BitmapSet) ToArray() []uint32 { return b.rb.ToArray() }

// ToBitmap implements DocIDSet.
func (b *BitmapSet) ToBitmap() *roaring.Bitmap { return b.rb.Clone() }
