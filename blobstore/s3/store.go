package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/colseg/blobstore"
	"github.com/hupe1980/colseg/internal/hash"
)

// Options configures a Store.
type Options struct {
	// Prefix is prepended to every blob name.
	Prefix string
	// Region overrides the region of the default AWS config (New only).
	Region string
	// PartSize is the multipart part size. Default 8 MiB.
	PartSize int64
	// Concurrency is the number of parts uploaded in parallel. Default 5.
	Concurrency int
	// MultipartThreshold is the size from which Put uses the upload manager.
	// Default 16 MiB.
	MultipartThreshold int
	// DisableChecksum turns off CRC32-C checksums on uploads.
	DisableChecksum bool
}

func defaultOptions() Options {
	return Options{
		PartSize:           8 << 20,
		Concurrency:        5,
		MultipartThreshold: 16 << 20,
	}
}

// Store is a blobstore.BlobStore backed by an S3 bucket.
type Store struct {
	client   Client
	bucket   string
	opts     Options
	uploader *manager.Uploader
}

var _ blobstore.BlobStore = (*Store)(nil)

// New loads the default AWS configuration and returns a store for bucket.
func New(ctx context.Context, bucket string, optFns ...func(*Options)) (*Store, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, optFns...), nil
}

// NewStore returns a store for bucket using client.
func NewStore(client Client, bucket string, optFns ...func(*Options)) *Store {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		client: client,
		bucket: bucket,
		opts:   opts,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = opts.PartSize
			u.Concurrency = opts.Concurrency
		}),
	}
}

// Scoped returns a store whose names are relative to prefix below this one.
func (s *Store) Scoped(prefix string) *Store {
	scoped := *s
	scoped.opts.Prefix = path.Join(s.opts.Prefix, prefix)
	return &scoped
}

func (s *Store) key(name string) string {
	return path.Join(s.opts.Prefix, name)
}

// Open implements blobstore.BlobStore.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3: %s: %w", key, blobstore.ErrNotFound)
		}
		return nil, err
	}
	return &blob{client: s.client, bucket: s.bucket, key: key, size: aws.ToInt64(head.ContentLength)}, nil
}

// Put implements blobstore.BlobStore.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(data),
	}
	if len(data) >= s.opts.MultipartThreshold {
		if !s.opts.DisableChecksum {
			input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
		}
		_, err := s.uploader.Upload(ctx, input)
		return err
	}
	input.ContentLength = aws.Int64(int64(len(data)))
	if !s.opts.DisableChecksum {
		input.ChecksumCRC32C = aws.String(checksumCRC32C(data))
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

// Delete implements blobstore.BlobStore.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

// List implements blobstore.BlobStore.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	root := strings.TrimSuffix(s.opts.Prefix, "/")
	full := s.key(prefix)
	if strings.HasSuffix(prefix, "/") {
		full += "/"
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(full),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := aws.ToString(obj.Key)
			if root != "" {
				name = strings.TrimPrefix(strings.TrimPrefix(name, root), "/")
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nsk)
}

// checksumCRC32C returns the base64 big-endian CRC32-C that S3 expects.
func checksumCRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], hash.CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}

type blob struct {
	client Client
	bucket string
	key    string
	size   int64
}

func (b *blob) Size() int64 { return b.size }

func (b *blob) Close() error { return nil }

// ReadAt issues one ranged GET.
func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= b.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	end := min(off+int64(len(p)), b.size) - 1

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	want := int(end - off + 1)
	n, err := io.ReadFull(resp.Body, p[:want])
	if err != nil {
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}
