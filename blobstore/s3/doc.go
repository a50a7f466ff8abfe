// Package s3 implements blobstore.BlobStore on Amazon S3.
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "segments/"
//	    o.Region = "eu-central-1"
//	})
//
//	seg, err := colseg.Open(ctx, store.Scoped("events_2024_01"))
//
// Blobs are read with ranged GETs. Puts below Options.MultipartThreshold are
// single PutObject calls carrying a CRC32-C checksum; larger ones go through
// the multipart upload manager.
package s3
