// Package model defines the core types shared by the segment index layer.
//
// # Data Types
//
//   - DataType: physical column type (INT, LONG, FLOAT, DOUBLE, STRING, BYTES)
//   - Value: a small typed value decoded from a dictionary or raw forward index
//
// # Metadata
//
//   - ColumnMetadata: per-column physical layout description
//   - SegmentMetadata: segment-wide document count, columns and buffer checksums
//   - IndexKind: the four buffer kinds a column may own
//
// Column metadata is the only source of truth for encoding choice: readers never
// store their own encoding tag. Validate enforces the layout invariants
// (sorted implies single-valued implies dictionary-encoded).
package model
