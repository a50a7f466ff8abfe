// Package bloom reads and builds the bloom filter of a column's dictionary.
//
// A bloom filter answers "definitely absent" or "maybe present". Values are
// hashed in their canonical byte form with xxhash64; the low and high 32-bit
// halves drive k probes by double hashing.
//
// Layout (big-endian):
//
//	[version uint8][k uint32][numBits uint64][count uint32][fpp float64]
//	[numBits/64 × uint64 words]
package bloom

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/model"
)

const (
	// Version is the persisted layout version.
	Version = 1
	// HeaderSize is the size of the fixed header.
	HeaderSize = 25
	// MaxHashes caps the number of probes per value.
	MaxHashes = 16
)

// Filter is a read-only bloom filter over a persisted buffer.
type Filter struct {
	words   []byte
	numBits uint64
	k       uint32
	count   uint32
	fpp     float64
}

var _ index.BloomFilter = (*Filter)(nil)

// New returns a filter view over buf.
func New(buf []byte) (*Filter, error) {
	if len(buf) < HeaderSize {
		return nil, index.Corrupt("bloom filter: %d bytes, need header", len(buf))
	}
	be := binary.BigEndian
	if buf[0] != Version {
		return nil, index.Corrupt("bloom filter: unsupported version %d", buf[0])
	}
	f := &Filter{
		k:       be.Uint32(buf[1:]),
		numBits: be.Uint64(buf[5:]),
		count:   be.Uint32(buf[13:]),
		fpp:     math.Float64frombits(be.Uint64(buf[17:])),
	}
	if f.numBits < 64 || f.numBits%64 != 0 {
		return nil, index.Corrupt("bloom filter: invalid bit count %d", f.numBits)
	}
	if f.k < 1 || f.k > MaxHashes {
		return nil, index.Corrupt("bloom filter: invalid hash count %d", f.k)
	}
	size := f.numBits / 8
	if uint64(len(buf)-HeaderSize) < size {
		return nil, index.Corrupt("bloom filter: need %d bytes of bits, have %d", size, len(buf)-HeaderSize)
	}
	f.words = buf[HeaderSize : HeaderSize+int(size)]
	return f, nil
}

// MightContain implements index.BloomFilter.
func (f *Filter) MightContain(v model.Value) bool {
	h1, h2 := hashes(v)
	for i := range f.k {
		bit := (h1 + uint64(i)*h2) % f.numBits
		word := binary.BigEndian.Uint64(f.words[bit/64*8:])
		if word&(1<<(bit%64)) == 0 {
			return false
		}
	}
	return true
}

// FalsePositiveRate implements index.BloomFilter.
func (f *Filter) FalsePositiveRate() float64 { return f.fpp }

// Count returns the number of values added at build time.
func (f *Filter) Count() uint32 { return f.count }

// NumBits returns the size of the bit array.
func (f *Filter) NumBits() uint64 { return f.numBits }

// NumHashes returns the number of probes per value.
func (f *Filter) NumHashes() uint32 { return f.k }

// Close implements index.BloomFilter.
func (f *Filter) Close() error {
	f.words = nil
	return nil
}

func hashes(v model.Value) (h1, h2 uint64) {
	sum := xxhash.Sum64(valuecodec.Canonical(v))
	return sum & math.MaxUint32, sum >> 32
}
