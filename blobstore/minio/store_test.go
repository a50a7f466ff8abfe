package minio

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/blobstore"
)

// TestStore_Integration requires a running MinIO instance.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Second)
	defer cancel()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-colseg"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("run-%d/", time.Now().UnixNano()))
	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "s1/a.fwd", data))

	b, err := store.Open(ctx, "s1/a.fwd")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), b.Size())

	got, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	part := make([]byte, 5)
	n, err := b.ReadAt(ctx, part, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part[:n]))
	require.NoError(t, b.Close())

	names, err := store.List(ctx, "s1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1/a.fwd"}, names)

	require.NoError(t, store.Delete(ctx, "s1/a.fwd"))
	_, err = store.Open(ctx, "s1/a.fwd")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "s1/a.fwd"))
}
