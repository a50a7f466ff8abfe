// Package forward implements the forward index readers of a column.
//
// Dictionary-encoded columns store ordinals:
//
//   - Sorted stores one run of documents per ordinal and doubles as the
//     column's inverted index.
//   - FixedBitSV stores one bit-packed ordinal per document.
//   - FixedBitMV stores bit-packed ordinals for all entries plus a bitmap
//     marking the first entry of every document.
//
// Raw columns store values in chunks that may be compressed:
//
//   - RawFixed holds INT, LONG, FLOAT and DOUBLE values.
//   - RawVar holds length-prefixed STRING and BYTES values.
//
// All integers in the persisted layouts are big-endian. Readers are views over
// their buffer and never copy it. Raw readers decompress into a caller-owned
// ChunkContext so concurrent readers need no locking.
package forward
