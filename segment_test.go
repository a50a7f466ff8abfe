package colseg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/codec"
	"github.com/hupe1980/colseg/column"
	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/internal/chunk"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/resource"
	"github.com/hupe1980/colseg/segdir"
	"github.com/hupe1980/colseg/testutil"
)

const testDocs = 300

func buildSegment(t *testing.T) *testutil.Segment {
	t.Helper()
	rng := testutil.NewRNG(7)
	seg, err := testutil.Build("events_0",
		testutil.ColumnSpec{Name: "country", DataType: model.TypeString, Values: rng.Values(model.TypeString, testDocs, 12)},
		testutil.ColumnSpec{Name: "tags", DataType: model.TypeInt, MultiValues: rng.MultiValues(model.TypeInt, testDocs, 9, 3)},
		testutil.ColumnSpec{Name: "price", DataType: model.TypeDouble, Values: rng.Values(model.TypeDouble, testDocs, testDocs), Raw: true, Compression: chunk.CompressionLZ4},
		testutil.ColumnSpec{Name: "payload", DataType: model.TypeBytes, Values: rng.Values(model.TypeBytes, testDocs, 50), Raw: true},
	)
	require.NoError(t, err)
	return seg
}

func writeSegment(t *testing.T, seg *testutil.Segment, store blobstore.BlobStore) {
	t.Helper()
	require.NoError(t, seg.WriteTo(context.Background(), store, codec.JSON{}))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	fixture := buildSegment(t)
	store := blobstore.NewMemoryStore()
	writeSegment(t, fixture, store)

	cfg := &column.LoadConfig{
		InvertedIndexColumns:    column.NewColumnSet("country"),
		OnHeapDictionaryColumns: column.NewColumnSet("tags"),
		BloomFilterColumns:      column.NewColumnSet("country"),
	}
	metrics := &BasicMetricsCollector{}
	seg, err := Open(ctx, store, WithLoadConfig(cfg), WithMetricsCollector(metrics), WithLoadConcurrency(2))
	require.NoError(t, err)

	assert.Equal(t, "events_0", seg.Name())
	assert.Equal(t, testDocs, seg.NumDocs())
	assert.Equal(t, []string{"country", "tags", "price", "payload"}, seg.Columns())
	assert.Positive(t, seg.MemoryUsage())

	country, err := seg.Column("country")
	require.NoError(t, err)
	assert.Equal(t, index.ForwardFixedBitSV, country.Forward().Kind())
	require.NotNil(t, country.Inverted())
	require.NotNil(t, country.BloomFilter())
	ord := country.Forward().(index.OrdinalReader).OrdinalAt(5)
	assert.Equal(t, fixture.Column("country").Name, country.Column())
	assert.True(t, country.BloomFilter().MightContain(country.Dictionary().ValueAt(ord)))

	price, err := seg.Column("price")
	require.NoError(t, err)
	assert.Equal(t, index.ForwardRawFixed, price.Forward().Kind())
	assert.Nil(t, price.Dictionary())

	_, err = seg.Column("missing")
	var nf *ErrColumnNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Column)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SegmentOpenCount)
	assert.Equal(t, int64(4), stats.ColumnLoadCount)
	assert.Zero(t, stats.ColumnLoadErrors)

	require.NoError(t, seg.Close())
	require.NoError(t, seg.Close())
	assert.Equal(t, int64(1), metrics.GetStats().SegmentCloseCount)
	_, err = seg.Column("country")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fixture := buildSegment(t)
	writeSegment(t, fixture, blobstore.NewLocalStore(dir))

	rc := resource.NewController(resource.Config{MaxConcurrentLoads: 1})
	seg, err := OpenDir(ctx, dir, WithResourceController(rc), WithLoadConcurrency(8))
	require.NoError(t, err)
	defer seg.Close()

	payload, err := seg.Column("payload")
	require.NoError(t, err)
	r := payload.Forward().(index.ValueReader)
	for d := range uint32(testDocs) {
		v, err := r.ValueAt(d)
		require.NoError(t, err)
		require.Equal(t, model.TypeBytes, v.Type())
	}
	assert.Zero(t, rc.ActiveLoads())
	assert.Zero(t, rc.MemoryUsage())
}

func TestOpen_Checksums(t *testing.T) {
	ctx := context.Background()
	fixture := buildSegment(t)
	store := blobstore.NewMemoryStore()
	writeSegment(t, fixture, store)

	tampered := append([]byte(nil), fixture.Buffers["tags.dict"]...)
	tampered[len(tampered)-1] ^= 0x01
	require.NoError(t, store.Put(ctx, "tags.dict", tampered))

	_, err := Open(ctx, store)
	require.ErrorIs(t, err, segdir.ErrChecksumMismatch)
	require.ErrorIs(t, err, column.ErrMalformedSegment)
	var le *column.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "tags", le.Column)
	assert.Equal(t, model.Dictionary, le.Kind)

	seg, err := Open(ctx, store, WithChecksumVerification(false))
	require.NoError(t, err)
	require.NoError(t, seg.Close())
}

func TestOpen_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("NoMetadata", func(t *testing.T) {
		_, err := Open(ctx, blobstore.NewMemoryStore())
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("InvalidMetadata", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		require.NoError(t, store.Put(ctx, model.MetadataFileName, []byte(`{"segmentName":"x","version":7}`)))
		_, err := Open(ctx, store)
		assert.ErrorIs(t, err, model.ErrInvalidMetadata)
	})

	t.Run("MissingBufferReleasesEverything", func(t *testing.T) {
		fixture := buildSegment(t)
		store := blobstore.NewMemoryStore()
		writeSegment(t, fixture, store)
		require.NoError(t, store.Delete(ctx, "payload.fwd"))

		rc := resource.NewController(resource.Config{})
		metrics := &BasicMetricsCollector{}
		_, err := Open(ctx, store,
			WithResourceController(rc),
			WithMetricsCollector(metrics),
			WithLoadConfig(&column.LoadConfig{OnHeapDictionaryColumns: column.NewColumnSet("country", "tags")}),
			WithLoadConcurrency(1),
		)
		require.ErrorIs(t, err, column.ErrMissingBuffer)
		assert.Zero(t, rc.MemoryUsage())
		assert.Equal(t, int64(1), metrics.GetStats().SegmentOpenErrors)
		assert.Equal(t, int64(1), metrics.GetStats().ColumnLoadErrors)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		fixture := buildSegment(t)
		store := blobstore.NewMemoryStore()
		writeSegment(t, fixture, store)

		rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
		_, err := Open(ctx, store,
			WithResourceController(rc),
			WithLoadConfig(&column.LoadConfig{OnHeapDictionaryColumns: column.NewColumnSet("country")}),
		)
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestErrColumnNotFound(t *testing.T) {
	var err error = &ErrColumnNotFound{Segment: "s", Column: "c"}
	assert.Equal(t, `segment "s" has no column "c"`, err.Error())
	var nf *ErrColumnNotFound
	assert.True(t, errors.As(err, &nf))
}
