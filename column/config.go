package column

import (
	"maps"
	"slices"
)

// ColumnSet is a set of column names. The nil set is empty.
type ColumnSet map[string]struct{}

// NewColumnSet returns a set holding names.
func NewColumnSet(names ...string) ColumnSet {
	s := make(ColumnSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s ColumnSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in sorted order.
func (s ColumnSet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// LoadConfig selects the optional indexes loaded per column. The zero value
// and a nil *LoadConfig load no optional index and keep dictionaries
// view-backed.
type LoadConfig struct {
	// InvertedIndexColumns load a bitmap inverted index. Ignored for sorted
	// columns, whose forward reader already answers doc-id lookups.
	InvertedIndexColumns ColumnSet
	// OnHeapDictionaryColumns decode their dictionary onto the heap.
	OnHeapDictionaryColumns ColumnSet
	// BloomFilterColumns load a bloom filter.
	BloomFilterColumns ColumnSet
}

// InvertedIndex reports whether column requests a bitmap inverted index.
func (c *LoadConfig) InvertedIndex(column string) bool {
	return c != nil && c.InvertedIndexColumns.Contains(column)
}

// OnHeapDictionary reports whether column requests a materialized dictionary.
func (c *LoadConfig) OnHeapDictionary(column string) bool {
	return c != nil && c.OnHeapDictionaryColumns.Contains(column)
}

// BloomFilter reports whether column requests a bloom filter.
func (c *LoadConfig) BloomFilter(column string) bool {
	return c != nil && c.BloomFilterColumns.Contains(column)
}
