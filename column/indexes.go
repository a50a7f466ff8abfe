package column

import (
	"errors"
	"sync"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/dictionary"
	"github.com/hupe1980/colseg/model"
)

// Indexes is the reader bundle of one column.
type Indexes struct {
	meta model.ColumnMetadata
	plan Plan

	forward    index.ForwardIndex
	inverted   index.InvertedIndex
	dictionary index.Dictionary
	bloom      index.BloomFilter

	closeOnce sync.Once
	closeErr  error
}

// Column returns the column name.
func (ix *Indexes) Column() string { return ix.meta.Name }

// Metadata returns the metadata the bundle was built from.
func (ix *Indexes) Metadata() model.ColumnMetadata { return ix.meta }

// Plan returns the reader selection of the bundle.
func (ix *Indexes) Plan() Plan { return ix.plan }

// Forward returns the forward index. It is always present.
func (ix *Indexes) Forward() index.ForwardIndex { return ix.forward }

// Inverted returns the inverted index, or nil. For sorted columns it is the
// forward reader.
func (ix *Indexes) Inverted() index.InvertedIndex { return ix.inverted }

// Dictionary returns the dictionary, or nil for raw columns.
func (ix *Indexes) Dictionary() index.Dictionary { return ix.dictionary }

// BloomFilter returns the bloom filter, or nil.
func (ix *Indexes) BloomFilter() index.BloomFilter { return ix.bloom }

// CanonicalValue returns v in the form the column's dictionary and bloom
// filter hold it. Pass the result to BloomFilter and Dictionary lookups.
func (ix *Indexes) CanonicalValue(v model.Value) model.Value {
	return dictionary.CanonicalValue(&ix.meta, v)
}

// MemoryUsage returns the heap bytes held by materialized readers.
func (ix *Indexes) MemoryUsage() int64 {
	if m, ok := ix.dictionary.(interface{ MemoryUsage() int64 }); ok {
		return m.MemoryUsage()
	}
	return 0
}

// Close releases every reader. It is idempotent. Backing buffers are owned
// by the directory and stay mapped.
func (ix *Indexes) Close() error {
	ix.closeOnce.Do(func() {
		var errs []error
		if ix.forward != nil {
			errs = append(errs, ix.forward.Close())
		}
		if ix.inverted != nil && !ix.plan.SortedInverted {
			errs = append(errs, ix.inverted.Close())
		}
		if ix.dictionary != nil {
			errs = append(errs, ix.dictionary.Close())
		}
		if ix.bloom != nil {
			errs = append(errs, ix.bloom.Close())
		}
		ix.closeErr = errors.Join(errs...)
	})
	return ix.closeErr
}
