package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/codec"
	"github.com/hupe1980/colseg/index/bloom"
	"github.com/hupe1980/colseg/index/dictionary"
	"github.com/hupe1980/colseg/index/forward"
	"github.com/hupe1980/colseg/index/inverted"
	"github.com/hupe1980/colseg/internal/chunk"
	"github.com/hupe1980/colseg/internal/hash"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/segdir"
)

// ColumnSpec describes a synthetic column.
type ColumnSpec struct {
	Name     string
	DataType model.DataType

	// Values holds one value per document of a single-value column.
	Values []model.Value
	// MultiValues holds the values of each document of a multi-value
	// column. Every document needs at least one value. It takes
	// precedence over Values.
	MultiValues [][]model.Value

	// Raw stores the column without dictionary. Only single-value columns
	// can be raw.
	Raw bool
	// Compression is the chunk codec of raw columns.
	Compression chunk.Compression
	// DocsPerChunk of raw columns. Zero selects forward.DefaultDocsPerChunk.
	DocsPerChunk int

	// Unsorted disables sorted encoding of single-value dictionary columns
	// whose ordinals happen to be non-decreasing.
	Unsorted bool
	// PaddingByte fills STRING/BYTES dictionary slots.
	PaddingByte byte
	// BloomFalsePositiveRate of the bloom filter. Zero selects
	// bloom.DefaultFalsePositiveRate.
	BloomFalsePositiveRate float64
}

func (c *ColumnSpec) numDocs() int {
	if c.MultiValues != nil {
		return len(c.MultiValues)
	}
	return len(c.Values)
}

// Segment holds the buffers and metadata produced by Build.
type Segment struct {
	Metadata model.SegmentMetadata
	// Buffers maps blob names (model.BufferName) to contents.
	Buffers map[string][]byte
}

// Build encodes columns into a segment. Dictionary-encoded columns get a
// dictionary, a bloom filter and, unless sorted, a bitmap inverted index.
// Sorted columns have no inverted index buffer.
func Build(name string, columns ...ColumnSpec) (*Segment, error) {
	seg := &Segment{
		Metadata: model.SegmentMetadata{Name: name, Version: model.FormatVersion, Checksums: map[string]uint32{}},
		Buffers:  map[string][]byte{},
	}
	for i := range columns {
		c := &columns[i]
		if i == 0 {
			seg.Metadata.TotalDocs = c.numDocs()
		}
		meta, bufs, err := buildColumn(c)
		if err != nil {
			return nil, fmt.Errorf("testutil: column %q: %w", c.Name, err)
		}
		seg.Metadata.Columns = append(seg.Metadata.Columns, meta)
		for kind, data := range bufs {
			bn := model.BufferName(c.Name, kind)
			seg.Buffers[bn] = data
			seg.Metadata.Checksums[bn] = hash.CRC32C(data)
		}
	}
	if err := seg.Metadata.Validate(); err != nil {
		return nil, err
	}
	return seg, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(name string, columns ...ColumnSpec) *Segment {
	seg, err := Build(name, columns...)
	if err != nil {
		panic(err)
	}
	return seg
}

// Column returns the metadata of the named column. It panics when absent.
func (s *Segment) Column(name string) *model.ColumnMetadata {
	c, ok := s.Metadata.Column(name)
	if !ok {
		panic(fmt.Sprintf("testutil: no column %q", name))
	}
	return c
}

// Directory returns an in-memory directory over the buffers.
func (s *Segment) Directory() *segdir.MapDirectory {
	d := segdir.NewMapDirectory()
	for i := range s.Metadata.Columns {
		col := s.Metadata.Columns[i].Name
		for _, kind := range model.IndexKinds {
			if data, ok := s.Buffers[model.BufferName(col, kind)]; ok {
				d.Put(col, kind, data)
			}
		}
	}
	return d
}

// WriteTo stores every buffer and the metadata blob in store using c
// (codec.Default when nil).
func (s *Segment) WriteTo(ctx context.Context, store blobstore.BlobStore, c codec.Codec) error {
	names := make([]string, 0, len(s.Buffers))
	for n := range s.Buffers {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		if err := store.Put(ctx, n, s.Buffers[n]); err != nil {
			return err
		}
	}
	data, err := codec.EncodeSegment(c, &s.Metadata)
	if err != nil {
		return err
	}
	return store.Put(ctx, model.MetadataFileName, data)
}

func buildColumn(c *ColumnSpec) (model.ColumnMetadata, map[model.IndexKind][]byte, error) {
	meta := model.ColumnMetadata{
		Name:        c.Name,
		DataType:    c.DataType,
		TotalDocs:   c.numDocs(),
		SingleValue: c.MultiValues == nil,
		PaddingByte: c.PaddingByte,
	}
	rows := c.MultiValues
	if rows == nil {
		rows = make([][]model.Value, len(c.Values))
		for i := range c.Values {
			rows[i] = c.Values[i : i+1]
		}
	}
	for d, r := range rows {
		if len(r) == 0 {
			return meta, nil, fmt.Errorf("doc %d has no values", d)
		}
		for _, v := range r {
			if v.Type() != c.DataType {
				return meta, nil, fmt.Errorf("doc %d: value of type %s", d, v.Type())
			}
		}
		meta.TotalEntries += len(r)
		for _, v := range r {
			meta.MaxLength = max(meta.MaxLength, valueLen(v))
		}
	}

	if c.Raw {
		if !meta.SingleValue {
			return meta, nil, errors.New("raw column must be single-valued")
		}
		fwd, err := forward.EncodeRaw(c.DataType, c.Values, c.DocsPerChunk, c.Compression)
		if err != nil {
			return meta, nil, err
		}
		if c.Compression != chunk.CompressionNone {
			meta.Compression = c.Compression.String()
		}
		return meta, map[model.IndexKind][]byte{model.ForwardIndex: fwd}, nil
	}
	return buildDictColumn(c, meta, rows)
}

func buildDictColumn(c *ColumnSpec, meta model.ColumnMetadata, rows [][]model.Value) (model.ColumnMetadata, map[model.IndexKind][]byte, error) {
	meta.HasDictionary = true
	meta.MaxLength = max(meta.MaxLength, 1)

	// BYTES entries are stored padded; ordering, ordinals and the bloom
	// filter all use that form.
	canonical := make([][]model.Value, len(rows))
	var values []model.Value
	for d, r := range rows {
		canonical[d] = make([]model.Value, len(r))
		for i, v := range r {
			canonical[d][i] = dictionary.CanonicalValue(&meta, v)
		}
		values = append(values, canonical[d]...)
	}
	rows = canonical
	dict := slices.Clone(values)
	slices.SortFunc(dict, model.Compare)
	dict = slices.CompactFunc(dict, func(a, b model.Value) bool { return model.Compare(a, b) == 0 })

	meta.Cardinality = len(dict)
	meta.BitsPerElement = model.BitsFor(len(dict))

	width := meta.MaxLength
	if w, ok := c.DataType.FixedWidth(); ok {
		width = w
	}
	dictBuf, err := dictionary.Encode(c.DataType, dict, width, c.PaddingByte)
	if err != nil {
		return meta, nil, err
	}

	ordinalRows := make([][]uint32, len(rows))
	for d, r := range rows {
		ordinalRows[d] = make([]uint32, len(r))
		for i, v := range r {
			ord, _ := slices.BinarySearchFunc(dict, v, model.Compare)
			ordinalRows[d][i] = uint32(ord)
		}
	}

	bf := bloom.NewBuilder(len(dict), c.BloomFalsePositiveRate)
	for _, v := range dict {
		bf.Add(v)
	}
	bufs := map[model.IndexKind][]byte{
		model.Dictionary:  dictBuf,
		model.BloomFilter: bf.Bytes(),
	}

	if !meta.SingleValue {
		fwd, err := forward.EncodeFixedBitMV(ordinalRows, meta.BitsPerElement)
		if err != nil {
			return meta, nil, err
		}
		inv, err := inverted.EncodeMultiOrdinals(ordinalRows, meta.Cardinality)
		if err != nil {
			return meta, nil, err
		}
		bufs[model.ForwardIndex], bufs[model.InvertedIndex] = fwd, inv
		return meta, bufs, nil
	}

	ordinals := make([]uint32, len(ordinalRows))
	for d, r := range ordinalRows {
		ordinals[d] = r[0]
	}
	if !c.Unsorted && slices.IsSorted(ordinals) {
		meta.Sorted = true
		fwd, err := forward.EncodeSorted(ordinals, meta.Cardinality)
		if err != nil {
			return meta, nil, err
		}
		bufs[model.ForwardIndex] = fwd
		return meta, bufs, nil
	}

	fwd, err := forward.EncodeFixedBitSV(ordinals, meta.BitsPerElement)
	if err != nil {
		return meta, nil, err
	}
	inv, err := inverted.EncodeOrdinals(ordinals, meta.Cardinality)
	if err != nil {
		return meta, nil, err
	}
	bufs[model.ForwardIndex], bufs[model.InvertedIndex] = fwd, inv
	return meta, bufs, nil
}

func valueLen(v model.Value) int {
	switch v.Type() {
	case model.TypeString:
		return len(v.StringValue())
	case model.TypeBytes:
		return len(v.BytesValue())
	default:
		return 0
	}
}
