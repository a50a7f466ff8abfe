package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/codec"
	"github.com/hupe1980/colseg/model"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711).Values(model.TypeString, 100, 10)
	b := NewRNG(4711).Values(model.TypeString, 100, 10)
	assert.Equal(t, a, b)

	seen := map[string]bool{}
	for _, v := range a {
		seen[v.StringValue()] = true
	}
	assert.Len(t, seen, 10)

	rows := NewRNG(1).MultiValues(model.TypeInt, 50, 8, 3)
	for _, r := range rows {
		assert.NotEmpty(t, r)
		assert.LessOrEqual(t, len(r), 3)
	}
}

func TestSyntheticValue_Increasing(t *testing.T) {
	for _, dt := range []model.DataType{model.TypeInt, model.TypeLong, model.TypeFloat, model.TypeDouble, model.TypeString, model.TypeBytes} {
		for i := 1; i < 300; i++ {
			require.Negative(t, model.Compare(SyntheticValue(dt, i-1), SyntheticValue(dt, i)), "%s at %d", dt, i)
		}
	}
}

func TestBuild(t *testing.T) {
	seg, err := Build("s",
		ColumnSpec{Name: "sorted", DataType: model.TypeInt, Values: []model.Value{model.Int(1), model.Int(1), model.Int(5)}},
		ColumnSpec{Name: "unsorted", DataType: model.TypeString, Values: []model.Value{model.String("b"), model.String("a"), model.String("ccc")}},
		ColumnSpec{Name: "mv", DataType: model.TypeLong, MultiValues: [][]model.Value{{model.Long(1)}, {model.Long(2), model.Long(1)}, {model.Long(3)}}},
		ColumnSpec{Name: "raw", DataType: model.TypeDouble, Values: []model.Value{model.Double(1), model.Double(2), model.Double(3)}, Raw: true},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, seg.Metadata.TotalDocs)

	sorted := seg.Column("sorted")
	assert.True(t, sorted.Sorted)
	assert.Equal(t, 2, sorted.Cardinality)
	assert.NotContains(t, seg.Buffers, "sorted.inv")

	unsorted := seg.Column("unsorted")
	assert.False(t, unsorted.Sorted)
	assert.Equal(t, 3, unsorted.MaxLength)
	assert.Equal(t, 2, unsorted.BitsPerElement)
	assert.Contains(t, seg.Buffers, "unsorted.inv")
	assert.Contains(t, seg.Buffers, "unsorted.bloom")

	mv := seg.Column("mv")
	assert.False(t, mv.SingleValue)
	assert.Equal(t, 4, mv.TotalEntries)

	raw := seg.Column("raw")
	assert.False(t, raw.HasDictionary)
	assert.Equal(t, []string{"raw.fwd"}, keysWithPrefix(seg.Buffers, "raw."))

	assert.Len(t, seg.Metadata.Checksums, len(seg.Buffers))

	_, err = Build("bad", ColumnSpec{Name: "c", DataType: model.TypeInt, MultiValues: [][]model.Value{{}}})
	assert.Error(t, err)
	_, err = Build("bad", ColumnSpec{Name: "c", DataType: model.TypeInt, Values: []model.Value{model.Long(1)}})
	assert.Error(t, err)
}

func TestSegment_WriteTo(t *testing.T) {
	ctx := context.Background()
	seg := MustBuild("s", ColumnSpec{Name: "c", DataType: model.TypeInt, Values: []model.Value{model.Int(3), model.Int(1)}})
	store := blobstore.NewMemoryStore()
	require.NoError(t, seg.WriteTo(ctx, store, nil))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.bloom", "c.dict", "c.fwd", "c.inv", model.MetadataFileName}, names)

	b, err := store.Open(ctx, model.MetadataFileName)
	require.NoError(t, err)
	data, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	meta, err := codec.DecodeSegment(nil, data)
	require.NoError(t, err)
	assert.Equal(t, seg.Metadata, *meta)
}

func keysWithPrefix(m map[string][]byte, prefix string) []string {
	var out []string
	for k := range m {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k)
		}
	}
	return out
}
