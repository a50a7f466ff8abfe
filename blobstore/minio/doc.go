// Package minio implements blobstore.BlobStore with the MinIO client, for
// MinIO and other S3-compatible endpoints (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := minioblob.NewStore(client, "segments", "events_2024_01")
//	seg, err := colseg.Open(ctx, store)
package minio
