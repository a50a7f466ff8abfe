package column

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/chunk"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/resource"
	"github.com/hupe1980/colseg/segdir"
	"github.com/hupe1980/colseg/testutil"
)

const numDocs = 500

// bytesPool holds variable-length BYTES values whose unpadded order differs
// from their order once padded with 0xff.
var bytesPool = [][]byte{{0x01}, {0x01, 0x02}, {0x03}, {0x00}, {0x02, 0x00}}

func bytesValues() []model.Value {
	out := make([]model.Value, numDocs)
	for d := range out {
		out[d] = model.Bytes(bytesPool[d%len(bytesPool)])
	}
	return out
}

func fixture(t *testing.T) *testutil.Segment {
	t.Helper()
	rng := testutil.NewRNG(42)

	sorted := make([]model.Value, numDocs)
	for d := range sorted {
		sorted[d] = model.Int(int32(d / 7))
	}
	doubles := rng.Values(model.TypeDouble, numDocs, numDocs)
	doubles[0] = model.Double(math.NaN())
	doubles[1] = model.Double(math.Inf(-1))
	doubles[2] = model.Double(math.MaxFloat64)

	seg, err := testutil.Build("fixture",
		testutil.ColumnSpec{Name: "sorted", DataType: model.TypeInt, Values: sorted},
		testutil.ColumnSpec{Name: "unsorted", DataType: model.TypeString, Values: rng.Values(model.TypeString, numDocs, 37), PaddingByte: '%'},
		testutil.ColumnSpec{Name: "mv", DataType: model.TypeLong, MultiValues: rng.MultiValues(model.TypeLong, numDocs, 20, 4)},
		testutil.ColumnSpec{Name: "rawfixed", DataType: model.TypeDouble, Values: doubles, Raw: true, DocsPerChunk: 64, Compression: chunk.CompressionZSTD},
		testutil.ColumnSpec{Name: "rawvar", DataType: model.TypeString, Values: rng.Values(model.TypeString, numDocs, 100), Raw: true, Compression: chunk.CompressionSnappy},
		testutil.ColumnSpec{Name: "bytes", DataType: model.TypeBytes, Values: bytesValues(), PaddingByte: 0xff},
	)
	require.NoError(t, err)
	return seg
}

// flagConfig returns the config enabling the load flags set in mask
// (bit 0 inverted, bit 1 on-heap, bit 2 bloom) for column.
func flagConfig(column string, mask int) *LoadConfig {
	var cfg LoadConfig
	if mask&1 != 0 {
		cfg.InvertedIndexColumns = NewColumnSet(column)
	}
	if mask&2 != 0 {
		cfg.OnHeapDictionaryColumns = NewColumnSet(column)
	}
	if mask&4 != 0 {
		cfg.BloomFilterColumns = NewColumnSet(column)
	}
	return &cfg
}

func TestLoad_DecisionTree(t *testing.T) {
	ctx := context.Background()
	seg := fixture(t)
	dir := seg.Directory()

	cases := []struct {
		column      string
		forward     index.ForwardKind
		dictionary  bool
		sortedInv   bool
		invFromFlag bool
	}{
		{"sorted", index.ForwardSorted, true, true, false},
		{"unsorted", index.ForwardFixedBitSV, true, false, true},
		{"mv", index.ForwardFixedBitMV, true, false, true},
		{"rawfixed", index.ForwardRawFixed, false, false, false},
		{"rawvar", index.ForwardRawVar, false, false, false},
		{"bytes", index.ForwardFixedBitSV, true, false, true},
	}
	for _, tc := range cases {
		for mask := range 8 {
			t.Run(fmt.Sprintf("%s/flags=%03b", tc.column, mask), func(t *testing.T) {
				rc := resource.NewController(resource.Config{})
				ix, err := Load(ctx, dir, seg.Column(tc.column), flagConfig(tc.column, mask), WithResourceController(rc))
				require.NoError(t, err)
				defer func() { require.NoError(t, ix.Close()) }()

				wantInverted := tc.sortedInv || (tc.invFromFlag && mask&1 != 0)
				wantBloom := tc.dictionary && mask&4 != 0
				wantOnHeap := tc.dictionary && mask&2 != 0

				require.NotNil(t, ix.Forward())
				assert.Equal(t, tc.forward, ix.Forward().Kind())
				assert.Equal(t, numDocs, ix.Forward().NumDocs())
				assert.Equal(t, tc.dictionary, ix.Dictionary() != nil)
				assert.Equal(t, wantInverted, ix.Inverted() != nil)
				assert.Equal(t, wantBloom, ix.BloomFilter() != nil)
				assert.Equal(t, wantOnHeap, ix.MemoryUsage() > 0)
				assert.Equal(t, ix.MemoryUsage(), rc.MemoryUsage())
				if tc.sortedInv {
					assert.Same(t, ix.Forward(), ix.Inverted())
					assert.Equal(t, mask&1 != 0, ix.Plan().InvertedIgnored)
				}
			})
		}
	}
}

func TestNewPlan(t *testing.T) {
	seg := fixture(t)
	all := &LoadConfig{
		InvertedIndexColumns:    NewColumnSet("sorted", "unsorted", "mv", "rawfixed"),
		OnHeapDictionaryColumns: NewColumnSet("unsorted", "rawvar"),
		BloomFilterColumns:      NewColumnSet("sorted", "rawfixed"),
	}

	p := NewPlan(seg.Column("sorted"), all)
	assert.Equal(t, Plan{Forward: index.ForwardSorted, Dictionary: true, SortedInverted: true, BloomFilter: true, InvertedIgnored: true}, p)
	assert.Equal(t, []model.IndexKind{model.Dictionary, model.BloomFilter, model.ForwardIndex}, p.Buffers())

	p = NewPlan(seg.Column("unsorted"), all)
	assert.Equal(t, Plan{Forward: index.ForwardFixedBitSV, Dictionary: true, OnHeapDictionary: true, Inverted: true}, p)
	assert.Equal(t, []model.IndexKind{model.Dictionary, model.ForwardIndex, model.InvertedIndex}, p.Buffers())

	p = NewPlan(seg.Column("rawfixed"), all)
	assert.Equal(t, Plan{Forward: index.ForwardRawFixed}, p)
	assert.Equal(t, []model.IndexKind{model.ForwardIndex}, p.Buffers())

	p = NewPlan(seg.Column("rawvar"), nil)
	assert.Equal(t, Plan{Forward: index.ForwardRawVar}, p)

	bad := *seg.Column("rawfixed")
	bad.DataType = model.TypeInvalid
	assert.Zero(t, NewPlan(&bad, nil).Forward)
}

func TestLoadConfig_NilSafe(t *testing.T) {
	var cfg *LoadConfig
	assert.False(t, cfg.InvertedIndex("a"))
	assert.False(t, cfg.OnHeapDictionary("a"))
	assert.False(t, cfg.BloomFilter("a"))

	var empty LoadConfig
	assert.False(t, empty.InvertedIndex("a"))
	assert.Equal(t, []string{"a", "b"}, NewColumnSet("b", "a", "b").Names())
}

func TestLoad_SortedProperties(t *testing.T) {
	seg := fixture(t)
	ix, err := Load(context.Background(), seg.Directory(), seg.Column("sorted"), nil)
	require.NoError(t, err)
	defer ix.Close()

	fwd := ix.Forward().(index.OrdinalReader)
	inv := ix.Inverted()
	covered := make([]int, numDocs)
	for ord := range inv.Cardinality() {
		set, err := inv.DocIDs(uint32(ord))
		require.NoError(t, err)
		set.ForEach(func(d uint32) bool {
			covered[d]++
			return true
		})
	}
	for d := range uint32(numDocs) {
		set, err := inv.DocIDs(fwd.OrdinalAt(d))
		require.NoError(t, err)
		require.True(t, set.Contains(d))
		require.Equal(t, 1, covered[d], "doc %d", d)
	}
}

func TestLoad_InvertedMatchesForward(t *testing.T) {
	seg := fixture(t)
	cfg := &LoadConfig{InvertedIndexColumns: NewColumnSet("unsorted", "mv")}

	t.Run("SingleValue", func(t *testing.T) {
		ix, err := Load(context.Background(), seg.Directory(), seg.Column("unsorted"), cfg)
		require.NoError(t, err)
		defer ix.Close()

		fwd := ix.Forward().(index.OrdinalReader)
		want := make(map[uint32][]uint32)
		for d := range uint32(numDocs) {
			o := fwd.OrdinalAt(d)
			want[o] = append(want[o], d)
		}
		for ord := range ix.Inverted().Cardinality() {
			set, err := ix.Inverted().DocIDs(uint32(ord))
			require.NoError(t, err)
			assert.Equal(t, want[uint32(ord)], set.ToArray(), "ordinal %d", ord)
		}
	})

	t.Run("MultiValue", func(t *testing.T) {
		ix, err := Load(context.Background(), seg.Directory(), seg.Column("mv"), cfg)
		require.NoError(t, err)
		defer ix.Close()

		fwd := ix.Forward().(index.MultiOrdinalReader)
		want := make(map[uint32][]uint32)
		total := 0
		var buf []uint32
		for d := range uint32(numDocs) {
			buf = fwd.OrdinalsAt(d, buf[:0])
			require.Len(t, buf, fwd.NumValues(d))
			total += len(buf)
			for _, o := range buf {
				want[o] = append(want[o], d)
			}
		}
		assert.Equal(t, seg.Column("mv").TotalEntries, total)
		for ord := range ix.Inverted().Cardinality() {
			set, err := ix.Inverted().DocIDs(uint32(ord))
			require.NoError(t, err)
			assert.Equal(t, want[uint32(ord)], set.ToArray(), "ordinal %d", ord)
		}
	})
}

func TestLoad_DictionaryStrategiesAgree(t *testing.T) {
	seg := fixture(t)
	for _, col := range []string{"sorted", "unsorted", "mv", "bytes"} {
		t.Run(col, func(t *testing.T) {
			view, err := Load(context.Background(), seg.Directory(), seg.Column(col), nil)
			require.NoError(t, err)
			defer view.Close()
			heap, err := Load(context.Background(), seg.Directory(), seg.Column(col), flagConfig(col, 0b110))
			require.NoError(t, err)
			defer heap.Close()

			vd, hd := view.Dictionary(), heap.Dictionary()
			require.Equal(t, vd.Len(), hd.Len())
			for ord := range uint32(vd.Len()) {
				v := vd.ValueAt(ord)
				require.True(t, v.Equal(hd.ValueAt(ord)), "ordinal %d", ord)
				got, ok := vd.IndexOf(v)
				require.True(t, ok)
				require.Equal(t, ord, got)
				require.True(t, heap.BloomFilter().MightContain(v))
			}
		})
	}
}

func TestLoad_BytesDictionary(t *testing.T) {
	seg := fixture(t)
	meta := seg.Column("bytes")
	require.Equal(t, 2, meta.MaxLength)
	require.Equal(t, len(bytesPool), meta.Cardinality)

	for _, mask := range []int{0b101, 0b111} {
		t.Run(fmt.Sprintf("flags=%03b", mask), func(t *testing.T) {
			ix, err := Load(context.Background(), seg.Directory(), meta, flagConfig("bytes", mask))
			require.NoError(t, err)
			defer ix.Close()

			dict, bf, inv := ix.Dictionary(), ix.BloomFilter(), ix.Inverted()
			for ord := range uint32(dict.Len()) {
				v := dict.ValueAt(ord)
				assert.Len(t, v.BytesValue(), meta.MaxLength)
				assert.True(t, bf.MightContain(v), "ordinal %d", ord)
				got, ok := dict.IndexOf(v)
				require.True(t, ok, "ordinal %d", ord)
				assert.Equal(t, ord, got)
				if ord > 0 {
					assert.Negative(t, model.Compare(dict.ValueAt(ord-1), v))
				}
			}

			fwd := ix.Forward().(index.OrdinalReader)
			for d, written := range bytesValues() {
				v := ix.CanonicalValue(written)
				assert.True(t, bf.MightContain(v), "doc %d", d)

				ord, ok := dict.IndexOf(written)
				require.True(t, ok, "doc %d", d)
				assert.Equal(t, fwd.OrdinalAt(uint32(d)), ord)
				got, ok := dict.IndexOf(v)
				require.True(t, ok)
				assert.Equal(t, ord, got)

				set, err := inv.DocIDs(ord)
				require.NoError(t, err)
				assert.True(t, set.Contains(uint32(d)))
			}

			_, ok := dict.IndexOf(model.Bytes([]byte{1, 2, 3}))
			assert.False(t, ok)
		})
	}
}

func TestLoad_RawValues(t *testing.T) {
	seg := fixture(t)
	ix, err := Load(context.Background(), seg.Directory(), seg.Column("rawfixed"), nil)
	require.NoError(t, err)
	defer ix.Close()

	r := ix.Forward().(index.ValueReader)
	assert.Equal(t, model.TypeDouble, r.DataType())
	v, err := r.ValueAt(0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Float64()))
	v, err = r.ValueAt(1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float64(), -1))
	v, err = r.ValueAt(2)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, v.Float64())
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	seg := fixture(t)

	dirWithout := func(drop string, replace []byte) *segdir.MapDirectory {
		d := segdir.NewMapDirectory()
		for i := range seg.Metadata.Columns {
			col := seg.Metadata.Columns[i].Name
			for _, kind := range model.IndexKinds {
				name := model.BufferName(col, kind)
				data, ok := seg.Buffers[name]
				if !ok {
					continue
				}
				if name == drop {
					if replace == nil {
						continue
					}
					data = replace
				}
				d.Put(col, kind, data)
			}
		}
		return d
	}

	t.Run("MissingInverted", func(t *testing.T) {
		rc := resource.NewController(resource.Config{})
		_, err := Load(ctx, dirWithout("unsorted.inv", nil), seg.Column("unsorted"), flagConfig("unsorted", 0b011), WithResourceController(rc))
		require.ErrorIs(t, err, ErrMissingBuffer)
		require.ErrorIs(t, err, segdir.ErrNotFound)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "unsorted", le.Column)
		assert.Equal(t, model.InvertedIndex, le.Kind)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("MissingBloom", func(t *testing.T) {
		_, err := Load(ctx, dirWithout("mv.bloom", nil), seg.Column("mv"), flagConfig("mv", 0b100))
		require.ErrorIs(t, err, ErrMissingBuffer)
	})

	t.Run("AbsentKindsNeverRequested", func(t *testing.T) {
		ix, err := Load(ctx, dirWithout("unsorted.bloom", nil), seg.Column("unsorted"), nil)
		require.NoError(t, err)
		require.NoError(t, ix.Close())
	})

	t.Run("TruncatedForward", func(t *testing.T) {
		for _, col := range []string{"sorted", "unsorted", "mv", "rawfixed", "rawvar"} {
			name := model.BufferName(col, model.ForwardIndex)
			_, err := Load(ctx, dirWithout(name, seg.Buffers[name][:3]), seg.Column(col), nil)
			require.ErrorIs(t, err, ErrMalformedSegment, col)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, model.ForwardIndex, le.Kind)
		}
	})

	t.Run("TruncatedDictionary", func(t *testing.T) {
		buf := seg.Buffers["unsorted.dict"]
		_, err := Load(ctx, dirWithout("unsorted.dict", buf[:len(buf)-1]), seg.Column("unsorted"), nil)
		require.ErrorIs(t, err, ErrMalformedSegment)
	})

	t.Run("CorruptBloom", func(t *testing.T) {
		_, err := Load(ctx, dirWithout("sorted.bloom", []byte{9}), seg.Column("sorted"), flagConfig("sorted", 0b100))
		require.ErrorIs(t, err, ErrMalformedSegment)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, model.BloomFilter, le.Kind)
	})

	t.Run("UnsupportedDataType", func(t *testing.T) {
		for col, kind := range map[string]model.IndexKind{
			"rawfixed": model.ForwardIndex,
			"unsorted": model.Dictionary,
			"mv":       model.Dictionary,
		} {
			meta := *seg.Column(col)
			meta.DataType = model.DataType(42)
			_, err := Load(ctx, seg.Directory(), &meta, flagConfig(col, 0b111))
			require.ErrorIs(t, err, ErrMalformedSegment, col)
			require.ErrorIs(t, err, index.ErrUnsupportedType, col)

			var le *LoadError
			require.ErrorAs(t, err, &le, col)
			assert.Equal(t, col, le.Column)
			assert.Equal(t, kind, le.Kind, col)
		}
	})

	t.Run("InvalidMetadata", func(t *testing.T) {
		for _, mutate := range []func(*model.ColumnMetadata){
			func(c *model.ColumnMetadata) { c.SingleValue = false; c.TotalEntries++ },
			func(c *model.ColumnMetadata) { c.HasDictionary = true },
		} {
			meta := *seg.Column("rawfixed")
			mutate(&meta)
			_, err := Load(ctx, seg.Directory(), &meta, nil)
			require.ErrorIs(t, err, ErrMalformedSegment)
			require.ErrorIs(t, err, model.ErrInvalidMetadata)
		}

		meta := *seg.Column("sorted")
		meta.SingleValue = false
		meta.TotalEntries++
		_, err := Load(ctx, seg.Directory(), &meta, nil)
		require.ErrorIs(t, err, ErrMalformedSegment)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 8})
		_, err := Load(ctx, seg.Directory(), seg.Column("unsorted"), flagConfig("unsorted", 0b010), WithResourceController(rc))
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.NotErrorIs(t, err, ErrMalformedSegment)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, model.Dictionary, le.Kind)
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Load(cctx, seg.Directory(), seg.Column("unsorted"), nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestIndexes_CloseIdempotent(t *testing.T) {
	seg := fixture(t)
	rc := resource.NewController(resource.Config{})
	ix, err := Load(context.Background(), seg.Directory(), seg.Column("sorted"), flagConfig("sorted", 0b111), WithResourceController(rc))
	require.NoError(t, err)
	assert.Positive(t, rc.MemoryUsage())
	assert.Equal(t, "sorted", ix.Column())
	assert.Equal(t, *seg.Column("sorted"), ix.Metadata())

	require.NoError(t, ix.Close())
	require.NoError(t, ix.Close())
	assert.Zero(t, rc.MemoryUsage())
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Column: "c", Kind: model.Dictionary, Err: ErrMissingBuffer}
	assert.Equal(t, `column "c": DICTIONARY: missing index buffer`, err.Error())
	assert.ErrorIs(t, err, ErrMissingBuffer)
}
