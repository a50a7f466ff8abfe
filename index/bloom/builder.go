package bloom

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/hupe1980/colseg/model"
)

// DefaultFalsePositiveRate is used when EstimateParameters gets an invalid rate.
const DefaultFalsePositiveRate = 0.05

// EstimateParameters returns the bit count (a multiple of 64) and probe count
// that keep the false positive rate near p for n values.
func EstimateParameters(n int, p float64) (numBits uint64, k uint32) {
	n = max(n, 1)
	if p <= 0 || p >= 1 {
		p = DefaultFalsePositiveRate
	}
	// m = -n ln(p) / ln(2)^2, k = m/n ln(2)
	m := float64(-n) * math.Log(p) / (math.Ln2 * math.Ln2)
	numBits = max((uint64(m)+63)/64*64, 64)
	kf := math.Ceil(float64(numBits) / float64(n) * math.Ln2)
	k = uint32(min(max(kf, 1), MaxHashes))
	return numBits, k
}

// Builder accumulates values into a bloom filter.
type Builder struct {
	bits    []uint64
	numBits uint64
	k       uint32
	count   uint32
	fpp     float64
}

// NewBuilder returns a builder sized for n values at false positive rate p.
func NewBuilder(n int, p float64) *Builder {
	if p <= 0 || p >= 1 {
		p = DefaultFalsePositiveRate
	}
	numBits, k := EstimateParameters(n, p)
	return &Builder{
		bits:    make([]uint64, numBits/64),
		numBits: numBits,
		k:       k,
		fpp:     p,
	}
}

// Add inserts v.
func (b *Builder) Add(v model.Value) {
	h1, h2 := hashes(v)
	for i := range b.k {
		bit := (h1 + uint64(i)*h2) % b.numBits
		b.bits[bit/64] |= 1 << (bit % 64)
	}
	b.count++
}

// Bytes returns the persisted form of the filter.
func (b *Builder) Bytes() []byte {
	be := binary.BigEndian
	out := make([]byte, 0, HeaderSize+len(b.bits)*8)
	out = append(out, Version)
	out = be.AppendUint32(out, b.k)
	out = be.AppendUint64(out, b.numBits)
	out = be.AppendUint32(out, b.count)
	out = be.AppendUint64(out, math.Float64bits(b.fpp))
	for _, w := range b.bits {
		out = be.AppendUint64(out, w)
	}
	return out
}

// WriteTo implements io.WriterTo.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes())
	return int64(n), err
}
