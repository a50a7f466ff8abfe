// Package column resolves the physical indexes of one segment column.
//
// Load inspects a column's metadata and builds the reader bundle the column's
// layout implies:
//
//	dictionary-encoded, single-value, sorted:   Sorted forward reader that also serves as inverted index
//	dictionary-encoded, single-value, unsorted: FixedBitSV forward reader, optional bitmap inverted index
//	dictionary-encoded, multi-value:            FixedBitMV forward reader, optional bitmap inverted index
//	raw:                                        RawFixed or RawVar forward reader only
//
// Dictionary-encoded columns always carry a dictionary (view-backed, or
// materialized on the heap when requested) and optionally a bloom filter.
// Optional indexes are selected by a LoadConfig.
//
// Construction is all-or-nothing: when any reader fails to build, the readers
// already built are closed and a *LoadError naming the column and index kind
// is returned. Bundles are immutable and safe for concurrent use.
package column
