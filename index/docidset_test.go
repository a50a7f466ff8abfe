package index

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
)

func TestRangeSet(t *testing.T) {
	r := RangeSet{Start: 3, End: 7}
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(6))
	assert.False(t, r.Contains(7))
	assert.False(t, r.Contains(2))
	assert.Equal(t, uint64(4), r.Cardinality())
	assert.Equal(t, []uint32{3, 4, 5, 6}, r.ToArray())
	assert.Equal(t, []uint32{3, 4, 5, 6}, r.ToBitmap().ToArray())

	var seen []uint32
	r.ForEach(func(d uint32) bool {
		seen = append(seen, d)
		return d < 4
	})
	assert.Equal(t, []uint32{3, 4}, seen)

	empty := RangeSet{Start: 5, End: 5}
	assert.Zero(t, empty.Cardinality())
	assert.Empty(t, empty.ToArray())
	assert.True(t, empty.ToBitmap().IsEmpty())
}

func TestBitmapSet(t *testing.T) {
	rb := roaring.BitmapOf(1, 5, 9)
	s := NewBitmapSet(rb)
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(2))
	assert.Equal(t, uint64(3), s.Cardinality())
	assert.Equal(t, []uint32{1, 5, 9}, s.ToArray())

	clone := s.ToBitmap()
	clone.Add(100)
	assert.False(t, s.Contains(100))

	var seen []uint32
	s.ForEach(func(d uint32) bool {
		seen = append(seen, d)
		return false
	})
	assert.Equal(t, []uint32{1}, seen)
}

func TestForwardKind(t *testing.T) {
	assert.True(t, ForwardSorted.HasOrdinals())
	assert.True(t, ForwardFixedBitMV.HasOrdinals())
	assert.False(t, ForwardRawVar.HasOrdinals())
	assert.Equal(t, "fixed-bit-sv", ForwardFixedBitSV.String())
}
