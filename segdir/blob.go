package segdir

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/internal/hash"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/resource"
)

type options struct {
	checksums map[string]uint32
	rc        *resource.Controller
	logger    *slog.Logger
}

// Option configures a BlobDirectory.
type Option func(*options)

// WithChecksums enables CRC32-C verification of the named buffers.
// Buffers without an entry are served unverified.
func WithChecksums(checksums map[string]uint32) Option {
	return func(o *options) { o.checksums = checksums }
}

// WithResourceController throttles and accounts buffers read into memory.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type openBuffer struct {
	blob blobstore.Blob
	data []byte
	// accounted is the heap size charged to the resource controller.
	accounted int64
}

// BlobDirectory is a Directory over a blob store. Each buffer is opened at
// most once and kept until Close.
type BlobDirectory struct {
	store blobstore.BlobStore
	opts  options

	mu     sync.Mutex
	open   map[string]*openBuffer
	closed bool
}

var _ Directory = (*BlobDirectory)(nil)

// NewBlobDirectory returns a directory reading from store.
func NewBlobDirectory(store blobstore.BlobStore, optFns ...Option) *BlobDirectory {
	opts := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &BlobDirectory{store: store, opts: opts, open: make(map[string]*openBuffer)}
}

// Buffer implements Directory. Concurrent first requests for the same buffer
// may both read it; one copy wins and the other is released.
func (d *BlobDirectory) Buffer(ctx context.Context, column string, kind model.IndexKind) ([]byte, error) {
	name := model.BufferName(column, kind)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	if ob, ok := d.open[name]; ok {
		d.mu.Unlock()
		return ob.data, nil
	}
	d.mu.Unlock()

	ob, err := d.load(ctx, name)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		_ = d.release(ob)
		return nil, ErrClosed
	}
	if existing, ok := d.open[name]; ok {
		_ = d.release(ob)
		return existing.data, nil
	}
	d.open[name] = ob
	return ob.data, nil
}

func (d *BlobDirectory) load(ctx context.Context, name string) (*openBuffer, error) {
	blob, err := d.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("segdir: open %s: %w", name, err)
	}
	ob := &openBuffer{blob: blob}

	if m, ok := blob.(blobstore.Mappable); ok {
		ob.data, err = m.Bytes()
	} else {
		err = d.readInto(ctx, ob)
	}
	if err == nil {
		err = d.verify(name, ob.data)
	}
	if err != nil {
		_ = d.release(ob)
		return nil, err
	}
	d.opts.logger.Debug("buffer opened", "name", name, "bytes", len(ob.data), "mapped", ob.accounted == 0)
	return ob, nil
}

func (d *BlobDirectory) readInto(ctx context.Context, ob *openBuffer) error {
	size := ob.blob.Size()
	if err := d.opts.rc.AcquireMemory(size); err != nil {
		return err
	}
	ob.accounted = size
	if err := d.opts.rc.AcquireIO(ctx, int(size)); err != nil {
		return err
	}
	data, err := blobstore.ReadAll(ctx, ob.blob)
	if err != nil {
		return err
	}
	ob.data = data
	return nil
}

func (d *BlobDirectory) verify(name string, data []byte) error {
	want, ok := d.opts.checksums[name]
	if !ok {
		return nil
	}
	if got := hash.CRC32C(data); got != want {
		return fmt.Errorf("%w: %s: crc32c %08x, want %08x", ErrChecksumMismatch, name, got, want)
	}
	return nil
}

func (d *BlobDirectory) release(ob *openBuffer) error {
	d.opts.rc.ReleaseMemory(ob.accounted)
	ob.accounted = 0
	ob.data = nil
	return ob.blob.Close()
}

// Close closes every opened blob. Buffers handed out become invalid.
func (d *BlobDirectory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for name, ob := range d.open {
		if err := d.release(ob); err != nil {
			errs = append(errs, fmt.Errorf("segdir: close %s: %w", name, err))
		}
	}
	d.open = nil
	return errors.Join(errs...)
}
