// Package mmap maps segment buffer files read-only into memory.
//
//	m, err := mmap.Open("country.fwd", mmap.AccessRandom)
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes() // valid until Close
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and ignores
// access hints.
package mmap
