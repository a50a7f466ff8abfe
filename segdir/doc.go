// Package segdir hands out the raw buffers of a segment's column indexes.
//
// A Directory resolves (column, index kind) to a read-only byte slice. The
// slice stays valid until the directory is closed; index readers keep
// non-owning views into it.
//
// BlobDirectory serves buffers from a blobstore.BlobStore, one blob per
// buffer named "<column><suffix>" (see model.BufferName). Mappable blobs are
// served without copying; other blobs are read fully, throttled and
// accounted by a resource controller. MapDirectory serves in-memory buffers.
package segdir
