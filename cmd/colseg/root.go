package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/hupe1980/colseg"
	"github.com/hupe1980/colseg/blobstore"
	miniostore "github.com/hupe1980/colseg/blobstore/minio"
	s3store "github.com/hupe1980/colseg/blobstore/s3"
	"github.com/hupe1980/colseg/column"
)

type segmentTool struct {
	source string
	dir    string

	bucket    string
	prefix    string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	insecure  bool

	inverted []string
	onHeap   []string
	bloom    []string

	noVerify bool
	verbose  bool

	seg *colseg.Segment
}

func newRootCommand() *cobra.Command {
	t := new(segmentTool)
	root := cobra.Command{
		Use:                "colseg [command]",
		Short:              "Columnar segment inspection tool",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPostRunE: t.closeSegment(),
	}

	f := root.PersistentFlags()
	f.StringVarP(&t.source, "source", "s", "local", "segment source: local, minio or s3")
	f.StringVarP(&t.dir, "dir", "d", ".", "segment directory (local source)")
	f.StringVar(&t.bucket, "bucket", "", "bucket name (minio and s3 sources)")
	f.StringVar(&t.prefix, "prefix", "", "object key prefix of the segment")
	f.StringVar(&t.region, "region", "", "AWS region (s3 source)")
	f.StringVar(&t.endpoint, "endpoint", "localhost:9000", "MinIO endpoint")
	f.StringVar(&t.accessKey, "access-key", os.Getenv("MINIO_ACCESS_KEY"), "MinIO access key")
	f.StringVar(&t.secretKey, "secret-key", os.Getenv("MINIO_SECRET_KEY"), "MinIO secret key")
	f.BoolVar(&t.insecure, "insecure", false, "use plain HTTP for MinIO")
	f.StringSliceVar(&t.inverted, "inverted", nil, "columns to load inverted indexes for")
	f.StringSliceVar(&t.onHeap, "on-heap", nil, "columns to materialize dictionaries for")
	f.StringSliceVar(&t.bloom, "bloom", nil, "columns to load bloom filters for")
	f.BoolVar(&t.noVerify, "no-verify", false, "skip buffer checksum verification")
	f.BoolVarP(&t.verbose, "verbose", "v", false, "log column loads")

	root.AddCommand(
		t.newInspectCommand(),
		t.newValuesCommand(),
		t.newLookupCommand(),
	)
	return &root
}

func (t *segmentTool) store(ctx context.Context) (blobstore.BlobStore, error) {
	switch strings.ToLower(t.source) {
	case "local":
		return blobstore.NewLocalStore(t.dir), nil
	case "minio":
		if t.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the minio source")
		}
		client, err := minio.New(t.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(t.accessKey, t.secretKey, ""),
			Secure: !t.insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, t.bucket, t.prefix), nil
	case "s3":
		if t.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the s3 source")
		}
		return s3store.New(ctx, t.bucket, func(o *s3store.Options) {
			o.Prefix = t.prefix
			o.Region = t.region
		})
	default:
		return nil, fmt.Errorf("unknown source %q", t.source)
	}
}

func (t *segmentTool) openSegment() func(cmd *cobra.Command, args []string) error {
	return func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, err := t.store(ctx)
		if err != nil {
			return err
		}

		logger := colseg.NoopLogger()
		if t.verbose {
			logger = colseg.NewLogger(slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		seg, err := colseg.Open(ctx, store,
			colseg.WithLogger(logger),
			colseg.WithChecksumVerification(!t.noVerify),
			colseg.WithLoadConfig(&column.LoadConfig{
				InvertedIndexColumns:    column.NewColumnSet(t.inverted...),
				OnHeapDictionaryColumns: column.NewColumnSet(t.onHeap...),
				BloomFilterColumns:      column.NewColumnSet(t.bloom...),
			}),
		)
		if err != nil {
			return err
		}
		t.seg = seg
		return nil
	}
}

func (t *segmentTool) closeSegment() func(cmd *cobra.Command, args []string) error {
	return func(c *cobra.Command, _ []string) error {
		if t.seg == nil {
			return nil
		}
		if err := t.seg.Close(); err != nil {
			return fmt.Errorf("closing segment: %w", err)
		}
		t.seg = nil
		return nil
	}
}
