// Package chunk frames and compresses the fixed-size chunks of raw forward
// indexes.
//
// Every chunk is stored as
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// in big-endian order. CompressedSize == 0 marks a chunk stored verbatim,
// either because the column uses CompressionNone or because compression did
// not pay off.
//
// Supported codecs: Snappy (default for raw columns), LZ4 block and ZSTD.
// Decoders are safe for concurrent use; scratch buffers are owned by callers.
package chunk
