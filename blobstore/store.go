package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist. Implementations return
// an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// BlobStore reads and writes named immutable blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes remain.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the blob length in bytes.
	Size() int64
	// Close releases the handle.
	Close() error
}

// Mappable is implemented by blobs whose contents are addressable in memory.
type Mappable interface {
	// Bytes returns the contents, valid until the blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll returns the complete contents of b, without copying when b is Mappable.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}
	buf := make([]byte, b.Size())
	if len(buf) == 0 {
		return buf, nil
	}
	n, err := b.ReadAt(ctx, buf, 0)
	if err == io.EOF && n == len(buf) {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, fmt.Errorf("blobstore: short read %d of %d bytes", n, len(buf))
	}
	return buf, nil
}
