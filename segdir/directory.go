package segdir

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/colseg/model"
)

var (
	// ErrNotFound is returned when a column has no buffer of the requested kind.
	ErrNotFound = errors.New("segdir: buffer not found")
	// ErrChecksumMismatch is returned when a buffer fails CRC32-C verification.
	ErrChecksumMismatch = errors.New("segdir: checksum mismatch")
	// ErrClosed is returned by a closed directory.
	ErrClosed = errors.New("segdir: directory closed")
)

// Directory provides index buffers by column and kind.
type Directory interface {
	// Buffer returns the buffer of kind for column. Absent buffers fail with
	// an error satisfying errors.Is(err, ErrNotFound).
	Buffer(ctx context.Context, column string, kind model.IndexKind) ([]byte, error)
}

// MapDirectory is an in-memory Directory.
type MapDirectory struct {
	mu   sync.RWMutex
	bufs map[string][]byte
}

var _ Directory = (*MapDirectory)(nil)

// NewMapDirectory returns an empty directory.
func NewMapDirectory() *MapDirectory {
	return &MapDirectory{bufs: make(map[string][]byte)}
}

// Put stores data as the buffer of kind for column. Data is not copied.
func (d *MapDirectory) Put(column string, kind model.IndexKind, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bufs[model.BufferName(column, kind)] = data
}

// Buffer implements Directory.
func (d *MapDirectory) Buffer(ctx context.Context, column string, kind model.IndexKind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := model.BufferName(column, kind)

	d.mu.RLock()
	defer d.mu.RUnlock()
	data, ok := d.bufs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// Close implements io.Closer.
func (d *MapDirectory) Close() error { return nil }
