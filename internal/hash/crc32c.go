package hash

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the checksum recorded for a segment buffer in
// model.SegmentMetadata.Checksums.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming hash producing the same sums as CRC32C, for
// buffers written in parts.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}
