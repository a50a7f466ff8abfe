package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colseg/model"
)

var (
	// ErrCorrupt is returned when a buffer contradicts its declared layout.
	ErrCorrupt = errors.New("index: corrupt buffer")
	// ErrUnsupportedType is returned when a reader cannot be built for a data type.
	ErrUnsupportedType = errors.New("index: unsupported data type")
	// ErrOrdinalOutOfRange is returned for an ordinal outside [0, cardinality).
	ErrOrdinalOutOfRange = errors.New("index: ordinal out of range")
)

// Corrupt returns an ErrCorrupt annotated with a formatted message.
func Corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// ForwardKind tags the physical layout of a forward index.
type ForwardKind uint8

const (
	// ForwardSorted is a sorted single-value dictionary column (dual role).
	ForwardSorted ForwardKind = iota + 1
	// ForwardFixedBitSV is an unsorted single-value dictionary column.
	ForwardFixedBitSV
	// ForwardFixedBitMV is a multi-value dictionary column.
	ForwardFixedBitMV
	// ForwardRawFixed is a raw column of a fixed-width type.
	ForwardRawFixed
	// ForwardRawVar is a raw STRING or BYTES column.
	ForwardRawVar
)

// String returns the name of the kind.
func (k ForwardKind) String() string {
	switch k {
	case ForwardSorted:
		return "sorted"
	case ForwardFixedBitSV:
		return "fixed-bit-sv"
	case ForwardFixedBitMV:
		return "fixed-bit-mv"
	case ForwardRawFixed:
		return "raw-fixed"
	case ForwardRawVar:
		return "raw-var"
	default:
		return fmt.Sprintf("ForwardKind(%d)", uint8(k))
	}
}

// HasOrdinals reports whether readers of this kind produce dictionary ordinals.
func (k ForwardKind) HasOrdinals() bool {
	return k == ForwardSorted || k == ForwardFixedBitSV || k == ForwardFixedBitMV
}

// ForwardIndex is implemented by every forward index reader.
type ForwardIndex interface {
	// Kind returns the layout tag of the reader.
	Kind() ForwardKind
	// NumDocs returns the number of documents covered.
	NumDocs() int
	// Close drops references to the backing buffer.
	Close() error
}

// OrdinalReader is a single-value dictionary-encoded forward index.
type OrdinalReader interface {
	ForwardIndex
	// OrdinalAt returns the dictionary ordinal of docID.
	OrdinalAt(docID uint32) uint32
}

// MultiOrdinalReader is a multi-value dictionary-encoded forward index.
type MultiOrdinalReader interface {
	ForwardIndex
	// NumEntries returns the total entry count over all documents.
	NumEntries() int
	// NumValues returns the entry count of docID.
	NumValues(docID uint32) int
	// OrdinalsAt appends the ordinals of docID, in stored order, to dst.
	OrdinalsAt(docID uint32, dst []uint32) []uint32
}

// ValueReader is a raw (non-dictionary) forward index.
type ValueReader interface {
	ForwardIndex
	// DataType returns the type of the stored values.
	DataType() model.DataType
	// ValueAt returns the value of docID.
	ValueAt(docID uint32) (model.Value, error)
}

// InvertedIndex maps a dictionary ordinal to the documents holding it.
type InvertedIndex interface {
	// Cardinality returns the number of ordinals covered.
	Cardinality() int
	// DocIDs returns the documents whose forward ordinal equals ordinal.
	DocIDs(ordinal uint32) (DocIDSet, error)
	// Close drops references to the backing buffer.
	Close() error
}

// SortedIndex is the dual-role reader of a sorted column.
type SortedIndex interface {
	OrdinalReader
	InvertedIndex
	// DocIDRange returns the half-open document range [start, end) of ordinal.
	DocIDRange(ordinal uint32) (start, end uint32)
}

// Dictionary maps ordinals in [0, Len()) to values and back.
type Dictionary interface {
	// DataType returns the type of the values.
	DataType() model.DataType
	// Len returns the cardinality.
	Len() int
	// ValueAt returns the value of ordinal.
	ValueAt(ordinal uint32) model.Value
	// IndexOf returns the ordinal of v, if present.
	IndexOf(v model.Value) (uint32, bool)
	// Close releases materialized values.
	Close() error
}

// BloomFilter is an approximate membership test over dictionary values.
type BloomFilter interface {
	// MightContain reports false only if v was never added.
	MightContain(v model.Value) bool
	// FalsePositiveRate returns the bound configured at write time.
	FalsePositiveRate() float64
	// Close drops references to the backing buffer.
	Close() error
}

// TypedDictionary adds allocation-free typed accessors to Dictionary.
// INT widens to Int64At and FLOAT to Float64At. Accessors return the zero
// value when the dictionary holds an incompatible type.
type TypedDictionary interface {
	Dictionary
	Int32At(ordinal uint32) int32
	Int64At(ordinal uint32) int64
	Float32At(ordinal uint32) float32
	Float64At(ordinal uint32) float64
	StringAt(ordinal uint32) string
	BytesAt(ordinal uint32) []byte
}
