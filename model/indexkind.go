package model

import "fmt"

// IndexKind identifies one of the buffers a column may own in a segment.
type IndexKind uint8

const (
	// ForwardIndex maps document id to ordinal or value. Always present.
	ForwardIndex IndexKind = iota
	// Dictionary maps ordinal to value for dictionary-encoded columns.
	Dictionary
	// InvertedIndex maps ordinal to the documents holding it.
	InvertedIndex
	// BloomFilter is an approximate membership filter over dictionary values.
	BloomFilter
)

// IndexKinds lists every kind in persisted order.
var IndexKinds = []IndexKind{ForwardIndex, Dictionary, InvertedIndex, BloomFilter}

// String returns the canonical name of the kind.
func (k IndexKind) String() string {
	switch k {
	case ForwardIndex:
		return "FORWARD_INDEX"
	case Dictionary:
		return "DICTIONARY"
	case InvertedIndex:
		return "INVERTED_INDEX"
	case BloomFilter:
		return "BLOOM_FILTER"
	default:
		return fmt.Sprintf("IndexKind(%d)", uint8(k))
	}
}

// Suffix returns the file suffix used when a kind is stored as its own blob.
func (k IndexKind) Suffix() string {
	switch k {
	case ForwardIndex:
		return ".fwd"
	case Dictionary:
		return ".dict"
	case InvertedIndex:
		return ".inv"
	case BloomFilter:
		return ".bloom"
	default:
		return ".unknown"
	}
}

// BufferName returns the blob name of a column's buffer of kind k.
func BufferName(column string, k IndexKind) string {
	return column + k.Suffix()
}
