package forward

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/internal/chunk"
	"github.com/hupe1980/colseg/model"
)

const (
	// RawVersion is the chunked raw layout version.
	RawVersion = 2
	// DefaultDocsPerChunk is the chunk size used by EncodeRaw when none is given.
	DefaultDocsPerChunk = 1000

	rawHeaderSize = 20
	rowOffsetSize = 4
)

// rawFile is the parsed header and chunk table of a raw forward index.
type rawFile struct {
	buf          []byte
	numDocs      int
	numChunks    int
	docsPerChunk int
	valueWidth   int
	compression  chunk.Compression
}

func parseRaw(buf []byte, meta *model.ColumnMetadata) (*rawFile, error) {
	if len(buf) < rawHeaderSize {
		return nil, index.Corrupt("raw index %q: %d bytes, need header", meta.Name, len(buf))
	}
	be := binary.BigEndian
	version := int32(be.Uint32(buf[0:]))
	codec := be.Uint32(buf[16:])
	if codec > uint32(chunk.CompressionZSTD) {
		return nil, index.Corrupt("raw index %q: unknown compression %d", meta.Name, codec)
	}
	f := &rawFile{
		buf:          buf,
		numDocs:      meta.TotalDocs,
		numChunks:    int(int32(be.Uint32(buf[4:]))),
		docsPerChunk: int(int32(be.Uint32(buf[8:]))),
		valueWidth:   int(int32(be.Uint32(buf[12:]))),
		compression:  chunk.Compression(codec),
	}
	if version != RawVersion {
		return nil, index.Corrupt("raw index %q: unsupported version %d", meta.Name, version)
	}
	if f.docsPerChunk <= 0 || f.numChunks < 0 || f.valueWidth < 0 {
		return nil, index.Corrupt("raw index %q: invalid header", meta.Name)
	}
	if want := (f.numDocs + f.docsPerChunk - 1) / f.docsPerChunk; f.numChunks != want {
		return nil, index.Corrupt("raw index %q: %d chunks for %d docs, want %d", meta.Name, f.numChunks, f.numDocs, want)
	}
	dataStart := rawHeaderSize + f.numChunks*8
	if len(buf) < dataStart {
		return nil, index.Corrupt("raw index %q: chunk table truncated", meta.Name)
	}
	prev := int64(dataStart)
	for c := range f.numChunks {
		off := f.offset(c)
		if off != prev {
			return nil, index.Corrupt("raw index %q: chunk %d at offset %d, want %d", meta.Name, c, off, prev)
		}
		size, err := chunk.FrameSize(buf[off:])
		if err != nil {
			return nil, index.Corrupt("raw index %q: chunk %d: %v", meta.Name, c, err)
		}
		prev = off + int64(size)
		if prev > int64(len(buf)) {
			return nil, index.Corrupt("raw index %q: chunk %d exceeds buffer", meta.Name, c)
		}
	}
	return f, nil
}

func (f *rawFile) offset(c int) int64 {
	return int64(binary.BigEndian.Uint64(f.buf[rawHeaderSize+c*8:]))
}

func (f *rawFile) rowsIn(c int) int {
	return min(f.docsPerChunk, f.numDocs-c*f.docsPerChunk)
}

// ChunkContext holds the most recently decompressed chunk of one raw reader.
// A context must not be shared between goroutines.
type ChunkContext struct {
	owner   *rawFile
	chunk   int
	data    []byte
	scratch []byte
}

// load returns the payload of chunk c, reusing the context when possible.
func (f *rawFile) load(ctx *ChunkContext, c int) ([]byte, error) {
	if ctx.owner == f && ctx.chunk == c {
		return ctx.data, nil
	}
	frame := f.buf[f.offset(c):]
	data, err := chunk.Decode(frame, f.compression, ctx.scratch)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk %d: %w", index.ErrCorrupt, c, err)
	}
	// Stored chunks alias the buffer and must never become scratch.
	if binary.BigEndian.Uint32(frame[4:]) != 0 {
		ctx.scratch = data[:0]
	}
	ctx.owner, ctx.chunk, ctx.data = f, c, data
	return data, nil
}

func (f *rawFile) newContext() *ChunkContext { return &ChunkContext{chunk: -1} }

// RawFixed reads a chunked raw column of INT, LONG, FLOAT or DOUBLE values.
type RawFixed struct {
	*rawFile
	dt    model.DataType
	width int
}

var _ index.ValueReader = (*RawFixed)(nil)

// NewRawFixed returns a reader over buf.
func NewRawFixed(buf []byte, meta *model.ColumnMetadata) (*RawFixed, error) {
	width, ok := meta.DataType.FixedWidth()
	if !ok {
		return nil, fmt.Errorf("%w: raw fixed index for %s", index.ErrUnsupportedType, meta.DataType)
	}
	f, err := parseRaw(buf, meta)
	if err != nil {
		return nil, err
	}
	if f.valueWidth != width {
		return nil, index.Corrupt("raw index %q: value width %d, want %d", meta.Name, f.valueWidth, width)
	}
	return &RawFixed{rawFile: f, dt: meta.DataType, width: width}, nil
}

// Kind implements index.ForwardIndex.
func (r *RawFixed) Kind() index.ForwardKind { return index.ForwardRawFixed }

// NumDocs implements index.ForwardIndex.
func (r *RawFixed) NumDocs() int { return r.numDocs }

// DataType implements index.ValueReader.
func (r *RawFixed) DataType() model.DataType { return r.dt }

// NewContext returns a decompression context for this reader.
func (r *RawFixed) NewContext() *ChunkContext { return r.newContext() }

// ValueAt implements index.ValueReader with a private context.
func (r *RawFixed) ValueAt(docID uint32) (model.Value, error) {
	return r.ValueAtContext(r.newContext(), docID)
}

// ValueAtContext returns the value of docID, decompressing through ctx.
func (r *RawFixed) ValueAtContext(ctx *ChunkContext, docID uint32) (model.Value, error) {
	c, row := int(docID)/r.docsPerChunk, int(docID)%r.docsPerChunk
	data, err := r.load(ctx, c)
	if err != nil {
		return model.Value{}, err
	}
	off := row * r.width
	if off+r.width > len(data) {
		return model.Value{}, index.Corrupt("raw index: chunk %d holds %d bytes, row %d needs %d", c, len(data), row, off+r.width)
	}
	return valuecodec.MustDecodeFixed(r.dt, data[off:off+r.width]), nil
}

// Close implements index.ForwardIndex.
func (r *RawFixed) Close() error { return nil }

// RawVar reads a chunked raw column of STRING or BYTES values.
type RawVar struct {
	*rawFile
	dt model.DataType
}

var _ index.ValueReader = (*RawVar)(nil)

// NewRawVar returns a reader over buf.
func NewRawVar(buf []byte, meta *model.ColumnMetadata) (*RawVar, error) {
	if !meta.DataType.IsVariableWidth() {
		return nil, fmt.Errorf("%w: raw var index for %s", index.ErrUnsupportedType, meta.DataType)
	}
	f, err := parseRaw(buf, meta)
	if err != nil {
		return nil, err
	}
	return &RawVar{rawFile: f, dt: meta.DataType}, nil
}

// Kind implements index.ForwardIndex.
func (r *RawVar) Kind() index.ForwardKind { return index.ForwardRawVar }

// NumDocs implements index.ForwardIndex.
func (r *RawVar) NumDocs() int { return r.numDocs }

// DataType implements index.ValueReader.
func (r *RawVar) DataType() model.DataType { return r.dt }

// MaxLength returns the longest value length recorded at write time.
func (r *RawVar) MaxLength() int { return r.valueWidth }

// NewContext returns a decompression context for this reader.
func (r *RawVar) NewContext() *ChunkContext { return r.newContext() }

// ValueAt implements index.ValueReader with a private context.
func (r *RawVar) ValueAt(docID uint32) (model.Value, error) {
	return r.ValueAtContext(r.newContext(), docID)
}

// ValueAtContext returns the value of docID, decompressing through ctx.
// The result never aliases the context.
func (r *RawVar) ValueAtContext(ctx *ChunkContext, docID uint32) (model.Value, error) {
	c, row := int(docID)/r.docsPerChunk, int(docID)%r.docsPerChunk
	data, err := r.load(ctx, c)
	if err != nil {
		return model.Value{}, err
	}
	if len(data) < r.rowsIn(c)*rowOffsetSize {
		return model.Value{}, index.Corrupt("raw index: chunk %d row table truncated", c)
	}
	off := int(binary.BigEndian.Uint32(data[row*rowOffsetSize:]))
	if off+4 > len(data) {
		return model.Value{}, index.Corrupt("raw index: chunk %d row %d at %d exceeds %d bytes", c, row, off, len(data))
	}
	n := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	if n > len(data)-off {
		return model.Value{}, index.Corrupt("raw index: chunk %d row %d length %d exceeds chunk", c, row, n)
	}
	b := data[off : off+n]
	if r.dt == model.TypeString {
		return model.String(string(b)), nil
	}
	return model.Bytes(append([]byte(nil), b...)), nil
}

// Close implements index.ForwardIndex.
func (r *RawVar) Close() error { return nil }
