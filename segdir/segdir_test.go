package segdir

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/internal/hash"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/resource"
)

// copyingStore hides Mappable so buffers are read into memory.
type copyingStore struct {
	blobstore.BlobStore
	opens int
}

type copyingBlob struct{ inner blobstore.Blob }

func (b copyingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	return b.inner.ReadAt(ctx, p, off)
}
func (b copyingBlob) Size() int64  { return b.inner.Size() }
func (b copyingBlob) Close() error { return b.inner.Close() }

func (s *copyingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	s.opens++
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return copyingBlob{inner: b}, nil
}

func newStore(t *testing.T) *blobstore.MemoryStore {
	t.Helper()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "price.fwd", []byte("forward")))
	require.NoError(t, store.Put(context.Background(), "price.dict", []byte("dictionary")))
	return store
}

func TestMapDirectory(t *testing.T) {
	ctx := context.Background()
	d := NewMapDirectory()
	d.Put("country", model.Dictionary, []byte{1, 2, 3})

	buf, err := d.Buffer(ctx, "country", model.Dictionary)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	_, err = d.Buffer(ctx, "country", model.InvertedIndex)
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = d.Buffer(cancelled, "country", model.Dictionary)
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, d.Close())
}

func TestBlobDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("Mapped", func(t *testing.T) {
		rc := resource.NewController(resource.Config{})
		d := NewBlobDirectory(newStore(t), WithResourceController(rc))

		buf, err := d.Buffer(ctx, "price", model.ForwardIndex)
		require.NoError(t, err)
		assert.Equal(t, "forward", string(buf))
		assert.Zero(t, rc.MemoryUsage())
		require.NoError(t, d.Close())
	})

	t.Run("CopiedAndAccounted", func(t *testing.T) {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
		store := &copyingStore{BlobStore: newStore(t)}
		d := NewBlobDirectory(store, WithResourceController(rc))

		buf, err := d.Buffer(ctx, "price", model.Dictionary)
		require.NoError(t, err)
		assert.Equal(t, "dictionary", string(buf))
		assert.Equal(t, int64(len("dictionary")), rc.MemoryUsage())
		assert.Equal(t, int64(len("dictionary")), rc.IOBytes())

		again, err := d.Buffer(ctx, "price", model.Dictionary)
		require.NoError(t, err)
		assert.Equal(t, buf, again)
		assert.Equal(t, 1, store.opens)

		require.NoError(t, d.Close())
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 4})
		d := NewBlobDirectory(&copyingStore{BlobStore: newStore(t)}, WithResourceController(rc))

		_, err := d.Buffer(ctx, "price", model.Dictionary)
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Zero(t, rc.MemoryUsage())
		require.NoError(t, d.Close())
	})

	t.Run("NotFound", func(t *testing.T) {
		d := NewBlobDirectory(newStore(t))
		_, err := d.Buffer(ctx, "price", model.BloomFilter)
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, d.Close())
	})

	t.Run("Checksums", func(t *testing.T) {
		sums := map[string]uint32{
			"price.fwd":  hash.CRC32C([]byte("forward")),
			"price.dict": hash.CRC32C([]byte("tampered")),
		}
		d := NewBlobDirectory(newStore(t), WithChecksums(sums))

		_, err := d.Buffer(ctx, "price", model.ForwardIndex)
		require.NoError(t, err)
		_, err = d.Buffer(ctx, "price", model.Dictionary)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
		require.NoError(t, d.Close())
	})

	t.Run("Closed", func(t *testing.T) {
		d := NewBlobDirectory(newStore(t))
		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
		_, err := d.Buffer(ctx, "price", model.ForwardIndex)
		assert.ErrorIs(t, err, ErrClosed)
	})
}
