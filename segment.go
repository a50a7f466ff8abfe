package colseg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/codec"
	"github.com/hupe1980/colseg/column"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/segdir"
)

// Segment is a mounted segment with every column resolved.
type Segment struct {
	meta    *model.SegmentMetadata
	dir     *segdir.BlobDirectory
	columns map[string]*column.Indexes
	opts    options

	mu     sync.RWMutex
	closed bool
}

// OpenDir mounts the segment stored in a local directory. Buffers are
// memory mapped.
func OpenDir(ctx context.Context, path string, optFns ...Option) (*Segment, error) {
	return Open(ctx, blobstore.NewLocalStore(path), optFns...)
}

// Open reads the segment metadata from store and resolves every column.
// Either all columns load or none: on failure everything built so far is
// released and the first error is returned.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Segment, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	start := time.Now()
	seg, err := open(ctx, store, opts)
	opts.metricsCollector.RecordSegmentOpen(time.Since(start), err)
	if err != nil {
		opts.logger.LogSegmentOpen(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	seg.opts.logger.LogSegmentOpen(ctx, len(seg.columns), seg.meta.TotalDocs, time.Since(start), nil)
	return seg, nil
}

func open(ctx context.Context, store blobstore.BlobStore, opts options) (*Segment, error) {
	meta, err := readMetadata(ctx, store, opts.codec)
	if err != nil {
		return nil, err
	}
	opts.logger = opts.logger.WithSegment(meta.Name)

	dirOpts := []segdir.Option{
		segdir.WithResourceController(opts.rc),
		segdir.WithLogger(opts.logger.Logger),
	}
	if opts.verifyChecksums {
		dirOpts = append(dirOpts, segdir.WithChecksums(meta.Checksums))
	}
	seg := &Segment{
		meta:    meta,
		dir:     segdir.NewBlobDirectory(store, dirOpts...),
		columns: make(map[string]*column.Indexes, len(meta.Columns)),
		opts:    opts,
	}

	loaded := make([]*column.Indexes, len(meta.Columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.loadConcurrency)
	for i := range meta.Columns {
		g.Go(func() error {
			ix, err := seg.loadColumn(gctx, &meta.Columns[i])
			loaded[i] = ix
			return err
		})
	}
	err = g.Wait()

	for _, ix := range loaded {
		if ix != nil {
			seg.columns[ix.Column()] = ix
		}
	}
	if err != nil {
		if cerr := seg.release(); cerr != nil {
			opts.logger.WarnContext(ctx, "releasing partially opened segment", "error", cerr)
		}
		return nil, fmt.Errorf("colseg: open segment %q: %w", meta.Name, err)
	}
	return seg, nil
}

func (s *Segment) loadColumn(ctx context.Context, meta *model.ColumnMetadata) (*column.Indexes, error) {
	if err := s.opts.rc.AcquireLoad(ctx); err != nil {
		return nil, err
	}
	defer s.opts.rc.ReleaseLoad()

	start := time.Now()
	ix, err := column.Load(ctx, s.dir, meta, s.opts.loadConfig,
		column.WithLogger(s.opts.logger.Logger),
		column.WithResourceController(s.opts.rc),
	)
	kind := column.NewPlan(meta, s.opts.loadConfig).Forward
	s.opts.metricsCollector.RecordColumnLoad(kind, time.Since(start), err)
	s.opts.logger.LogColumnLoad(ctx, meta.Name, kind, time.Since(start), err)
	return ix, err
}

func readMetadata(ctx context.Context, store blobstore.BlobStore, c codec.Codec) (*model.SegmentMetadata, error) {
	blob, err := store.Open(ctx, model.MetadataFileName)
	if err != nil {
		return nil, fmt.Errorf("colseg: open %s: %w", model.MetadataFileName, err)
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("colseg: read %s: %w", model.MetadataFileName, err)
	}
	meta, err := codec.DecodeSegment(c, data)
	if err != nil {
		return nil, fmt.Errorf("colseg: %s: %w", model.MetadataFileName, err)
	}
	return meta, nil
}

// Name returns the segment name.
func (s *Segment) Name() string { return s.meta.Name }

// NumDocs returns the document count.
func (s *Segment) NumDocs() int { return s.meta.TotalDocs }

// Metadata returns the segment metadata. It must not be modified.
func (s *Segment) Metadata() *model.SegmentMetadata { return s.meta }

// Columns returns the column names in persisted order.
func (s *Segment) Columns() []string { return s.meta.ColumnNames() }

// Column returns the index bundle of the named column.
func (s *Segment) Column(name string) (*column.Indexes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	ix, ok := s.columns[name]
	if !ok {
		return nil, &ErrColumnNotFound{Segment: s.meta.Name, Column: name}
	}
	return ix, nil
}

// MemoryUsage returns the heap bytes held by materialized readers.
func (s *Segment) MemoryUsage() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, ix := range s.columns {
		total += ix.MemoryUsage()
	}
	return total
}

// Close releases every column, then the buffers behind them. Readers
// obtained from the segment must not be used afterwards. Close is idempotent.
func (s *Segment) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.release()
	s.opts.metricsCollector.RecordSegmentClose(err)
	s.opts.logger.LogSegmentClose(context.Background(), err)
	return err
}

func (s *Segment) release() error {
	var errs []error
	for name, ix := range s.columns {
		if err := ix.Close(); err != nil {
			errs = append(errs, fmt.Errorf("column %q: %w", name, err))
		}
	}
	errs = append(errs, s.dir.Close())
	return errors.Join(errs...)
}
