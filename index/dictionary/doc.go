// Package dictionary reads the sorted value dictionary of a column.
//
// Entries are stored in ascending model.Compare order, one fixed-width slot
// per ordinal. Numeric types use their big-endian encoding; STRING and BYTES
// use slots of the column's max length, right-padded with the padding byte.
// STRING values have trailing padding removed on read; BYTES values are
// returned as the full slot.
//
// Two strategies return identical values:
//
//   - View decodes from the backing buffer on every lookup and owns nothing.
//   - Materialized decodes every entry once into heap memory, accounted in a
//     resource controller until Close.
package dictionary
