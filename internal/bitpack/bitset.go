package bitpack

import (
	"fmt"
	"math/bits"
)

// BitSet is a read-only big-endian bit array view (bit 0 is the MSB of byte 0).
type BitSet struct {
	data []byte
	n    int
}

// NewBitSet returns a view over n bits of data.
func NewBitSet(data []byte, n int) (*BitSet, error) {
	if need := (n + 7) / 8; len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes for %d bits, have %d", ErrShortBuffer, need, n, len(data))
	}
	return &BitSet{data: data, n: n}, nil
}

// Len returns the number of addressable bits.
func (b *BitSet) Len() int { return b.n }

// IsSet reports whether bit i is set.
func (b *BitSet) IsSet(i int) bool {
	return b.data[i>>3]&(0x80>>(uint(i)&7)) != 0
}

// NextSetBit returns the index of the first set bit at or after from,
// or -1 if there is none.
func (b *BitSet) NextSetBit(from int) int {
	if from >= b.n {
		return -1
	}
	byteIdx := from >> 3
	// Clear bits before from in the first byte.
	cur := b.data[byteIdx] & (0xFF >> (uint(from) & 7))
	for {
		if cur != 0 {
			i := byteIdx<<3 + bits.LeadingZeros8(cur)
			if i >= b.n {
				return -1
			}
			return i
		}
		byteIdx++
		if byteIdx<<3 >= b.n {
			return -1
		}
		cur = b.data[byteIdx]
	}
}

// SetBit sets bit i in a writable big-endian bit array.
func SetBit(data []byte, i int) {
	data[i>>3] |= 0x80 >> (uint(i) & 7)
}
