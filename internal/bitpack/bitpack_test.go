package bitpack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriter_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for width := 1; width <= MaxWidth; width++ {
		w, err := NewWriter(width)
		require.NoError(t, err)

		n := 257
		want := make([]uint32, n)
		for i := range want {
			v := uint32(rng.Uint64() & (uint64(1)<<uint64(width) - 1))
			want[i] = v
			require.NoError(t, w.Append(v))
		}
		require.Len(t, w.Bytes(), PackedSize(n, width))

		r, err := NewReader(w.Bytes(), n, width)
		require.NoError(t, err)
		for i, v := range want {
			require.Equal(t, v, r.Get(i), "width %d index %d", width, i)
		}

		got := make([]uint32, 10)
		r.Fill(100, got)
		assert.Equal(t, want[100:110], got)
	}
}

func TestReader_KnownLayout(t *testing.T) {
	// 3-bit values 5, 2, 7 -> 101 010 11|1 0000000
	data := []byte{0b10101011, 0b10000000}
	r, err := NewReader(data, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), r.Get(0))
	assert.Equal(t, uint32(2), r.Get(1))
	assert.Equal(t, uint32(7), r.Get(2))
}

func TestReader_Errors(t *testing.T) {
	_, err := NewReader(make([]byte, 3), 10, 3)
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = NewReader(nil, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = NewWriter(33)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	w, err := NewWriter(2)
	require.NoError(t, err)
	assert.Error(t, w.Append(4))
}

func TestBitSet_NextSetBit(t *testing.T) {
	data := make([]byte, 3)
	for _, i := range []int{0, 7, 9, 20} {
		SetBit(data, i)
	}
	bs, err := NewBitSet(data, 22)
	require.NoError(t, err)

	assert.True(t, bs.IsSet(9))
	assert.False(t, bs.IsSet(8))
	assert.Equal(t, 0, bs.NextSetBit(0))
	assert.Equal(t, 7, bs.NextSetBit(1))
	assert.Equal(t, 9, bs.NextSetBit(8))
	assert.Equal(t, 20, bs.NextSetBit(10))
	assert.Equal(t, -1, bs.NextSetBit(21))
	assert.Equal(t, -1, bs.NextSetBit(22))

	_, err = NewBitSet(data, 25)
	assert.ErrorIs(t, err, ErrShortBuffer)
}
