// Package conv provides safe integer type conversion utilities.
//
// Segment layouts store counts and offsets as signed 32-bit big-endian
// integers. Encoders convert through this package so that an oversized
// segment fails to encode instead of wrapping silently.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
