// Package index defines the capability contracts of a column's physical
// indexes and the document-id sets they return.
//
// Reader variants form one sum type per capability. A forward index reports
// its variant through Kind, and consumers narrow it with a type assertion to
// the capability they need:
//
//	switch fwd := idx.Forward().(type) {
//	case index.OrdinalReader:      // sorted or fixed-bit single-value
//	case index.MultiOrdinalReader: // fixed-bit multi-value
//	case index.ValueReader:        // raw, no dictionary
//	}
//
// The sorted reader implements both OrdinalReader and InvertedIndex over one
// backing buffer.
//
// Every reader is immutable after construction and safe for concurrent use
// without locking. Readers hold non-owning views over buffers whose lifetime
// is managed by the storage directory.
package index
