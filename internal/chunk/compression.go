package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a chunk codec. Values are persisted.
type Compression uint8

const (
	// CompressionNone stores chunks verbatim.
	CompressionNone Compression = 0
	// CompressionSnappy uses Snappy block compression.
	CompressionSnappy Compression = 1
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 2
	// CompressionZSTD uses ZSTD.
	CompressionZSTD Compression = 3
)

// HeaderSize is the size of the per-chunk frame header.
const HeaderSize = 8

var (
	// ErrCorruptChunk is returned when a chunk frame is inconsistent.
	ErrCorruptChunk = errors.New("chunk: corrupt chunk")
	// ErrUnknownCompression is returned for an unsupported codec id or name.
	ErrUnknownCompression = errors.New("chunk: unknown compression")
)

// String returns the codec name used in column metadata.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionSnappy:
		return "snappy"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Valid reports whether c is a known codec.
func (c Compression) Valid() bool { return c <= CompressionZSTD }

// ParseCompression parses a codec name. The empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none", "pass_through":
		return CompressionNone, nil
	case "snappy":
		return CompressionSnappy, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "zstandard":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// Encode frames data as one chunk, compressing it with c.
// If compression does not shrink the data below 90% it is stored verbatim.
func Encode(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionSnappy:
		compressed = snappy.Encode(nil, data)
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(len(data)))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}
	binary.BigEndian.PutUint32(hdr[4:], uint32(len(compressed)))
	dst = append(dst, hdr[:]...)
	return append(dst, compressed...), nil
}

// FrameSize returns the stored size (header included) of the chunk at the
// start of data.
func FrameSize(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes, need header", ErrCorruptChunk, len(data))
	}
	size := binary.BigEndian.Uint32(data[4:])
	if size == 0 {
		size = binary.BigEndian.Uint32(data[0:])
	}
	return HeaderSize + int(size), nil
}

// Decode returns the uncompressed payload of the chunk at the start of data.
//
// Stored chunks are returned as a sub-slice of data without copying.
// Compressed chunks are decoded into scratch, which is grown as needed; the
// returned slice aliases scratch.
func Decode(data []byte, c Compression, scratch []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need header", ErrCorruptChunk, len(data))
	}
	uncompressed := int(binary.BigEndian.Uint32(data[0:]))
	compressed := int(binary.BigEndian.Uint32(data[4:]))

	if compressed == 0 {
		if len(data) < HeaderSize+uncompressed {
			return nil, fmt.Errorf("%w: stored chunk truncated", ErrCorruptChunk)
		}
		return data[HeaderSize : HeaderSize+uncompressed], nil
	}
	if len(data) < HeaderSize+compressed {
		return nil, fmt.Errorf("%w: compressed chunk truncated", ErrCorruptChunk)
	}
	payload := data[HeaderSize : HeaderSize+compressed]

	if cap(scratch) < uncompressed {
		scratch = make([]byte, uncompressed)
	}
	out := scratch[:uncompressed]

	switch c {
	case CompressionSnappy:
		decoded, err := snappy.Decode(out, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptChunk, err)
		}
		if len(decoded) != uncompressed {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptChunk)
		}
		return decoded, nil
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptChunk, err)
		}
		if n != uncompressed {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptChunk)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptChunk, err)
		}
		if len(decoded) != uncompressed {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptChunk)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed chunk with codec %s", ErrUnknownCompression, c)
	}
}
