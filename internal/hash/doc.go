// Package hash provides the CRC32-Castagnoli checksum used to verify segment
// buffers.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	h.Write(part1)
//	h.Write(part2)
//	sum := h.Sum32()
package hash
