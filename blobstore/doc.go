// Package blobstore abstracts the storage holding a segment's immutable
// buffer files.
//
// Implementations must be safe for concurrent use:
//
//   - LocalStore: a local directory; blobs are memory mapped
//   - MemoryStore: an in-memory map, for tests and embedding
//   - minio.Store: MinIO and S3-compatible endpoints
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//
// Blobs that implement Mappable expose their contents without copying.
// Others are read with ReadAt or ReadAll.
package blobstore
