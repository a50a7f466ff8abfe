package bitpack

import (
	"errors"
	"fmt"
)

// MaxWidth is the largest supported bit width.
const MaxWidth = 32

// ErrShortBuffer is returned when a buffer cannot hold the declared values.
var ErrShortBuffer = errors.New("bitpack: buffer shorter than declared extent")

// ErrInvalidWidth is returned for widths outside [1, MaxWidth].
var ErrInvalidWidth = errors.New("bitpack: invalid bit width")

// PackedSize returns the number of bytes needed for n values of width bits.
func PackedSize(n, width int) int {
	return int((uint64(n)*uint64(width) + 7) / 8)
}

// Reader is a read-only view over packed values. It never copies its buffer.
type Reader struct {
	data  []byte
	width uint64
	mask  uint64
	n     int
}

// NewReader returns a reader over n values of the given width.
func NewReader(data []byte, n, width int) (*Reader, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if n < 0 {
		return nil, fmt.Errorf("bitpack: negative value count %d", n)
	}
	if need := PackedSize(n, width); len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes for %d values of %d bits, have %d",
			ErrShortBuffer, need, n, width, len(data))
	}
	return &Reader{
		data:  data,
		width: uint64(width),
		mask:  uint64(1)<<uint64(width) - 1,
		n:     n,
	}, nil
}

// Len returns the number of values.
func (r *Reader) Len() int { return r.n }

// Width returns the bit width of each value.
func (r *Reader) Width() int { return int(r.width) }

// Get returns value i. i must be in [0, Len()).
func (r *Reader) Get(i int) uint32 {
	bitOff := uint64(i) * r.width
	byteOff := bitOff >> 3
	shift := bitOff & 7
	nbytes := (shift + r.width + 7) >> 3

	var window uint64
	for k := uint64(0); k < nbytes; k++ {
		window = window<<8 | uint64(r.data[byteOff+k])
	}
	window >>= nbytes*8 - shift - r.width
	return uint32(window & r.mask)
}

// Fill writes values [start, start+len(dst)) into dst.
func (r *Reader) Fill(start int, dst []uint32) {
	for k := range dst {
		dst[k] = r.Get(start + k)
	}
}

// Writer packs values into a growing byte slice.
type Writer struct {
	buf   []byte
	width uint64
	mask  uint64
	n     uint64
}

// NewWriter returns a writer for values of the given width.
func NewWriter(width int) (*Writer, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	return &Writer{width: uint64(width), mask: uint64(1)<<uint64(width) - 1}, nil
}

// Append packs v. Bits above the writer's width must be zero.
func (w *Writer) Append(v uint32) error {
	if uint64(v)&^w.mask != 0 {
		return fmt.Errorf("bitpack: value %d does not fit in %d bits", v, w.width)
	}
	bitOff := w.n * w.width
	end := int((bitOff + w.width + 7) >> 3)
	for len(w.buf) < end {
		w.buf = append(w.buf, 0)
	}
	for b := uint64(0); b < w.width; b++ {
		if uint64(v)>>(w.width-1-b)&1 == 1 {
			pos := bitOff + b
			w.buf[pos>>3] |= 0x80 >> (pos & 7)
		}
	}
	w.n++
	return nil
}

// Len returns the number of appended values.
func (w *Writer) Len() int { return int(w.n) }

// Bytes returns the packed bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }
