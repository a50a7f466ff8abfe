package mmap

import "errors"

// AccessPattern is the kernel read-ahead hint applied to a mapped buffer.
type AccessPattern int

const (
	// AccessDefault leaves read-ahead to the kernel.
	AccessDefault AccessPattern = iota
	// AccessSequential suits buffers scanned front to back, such as raw
	// forward index chunks read during a full column scan.
	AccessSequential
	// AccessRandom suits buffers probed by ordinal or document id:
	// dictionaries, bit-packed forward indexes and inverted index bitmaps.
	AccessRandom
)

var (
	// ErrClosed is returned by a Mapping after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files that cannot be mapped as one buffer.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for negative read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
