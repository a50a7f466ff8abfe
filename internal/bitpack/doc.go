// Package bitpack reads and writes fixed-width unsigned integers packed
// back to back in a big-endian bit stream.
//
// Value i of width w occupies bits [i*w, (i+1)*w) counted from the most
// significant bit of byte 0. A width of up to 32 bits is supported, so one
// value spans at most five bytes and unpacking is a single shift-and-mask.
//
// The same package provides the doc-start bitmap used by multi-value
// forward indexes (NextSetBit over a big-endian bit array).
package bitpack
