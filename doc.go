// Package colseg mounts immutable columnar segments and resolves the
// physical indexes of every column.
//
// A segment is a set of blobs: one metadata document (metadata.json) and up
// to four index buffers per column (forward index, dictionary, inverted
// index, bloom filter). Encoding choice is derived from column metadata;
// readers never store an explicit encoding tag.
//
// # Quick Start
//
// Local directory (memory mapped):
//
//	ctx := context.Background()
//	seg, _ := colseg.OpenDir(ctx, "./segments/events_0")
//	defer seg.Close()
//
// Object storage:
//
//	store, _ := s3.New(ctx, "my-bucket", func(o *s3.Options) { o.Prefix = "segments/events_0/" })
//	seg, _ := colseg.Open(ctx, store,
//	    colseg.WithLoadConfig(&column.LoadConfig{
//	        InvertedIndexColumns: column.NewColumnSet("country"),
//	        BloomFilterColumns:   column.NewColumnSet("user_id"),
//	    }),
//	)
//
// # Reading a Column
//
//	ix, _ := seg.Column("country")
//	fwd := ix.Forward().(index.OrdinalReader)
//	ord := fwd.OrdinalAt(42)
//	value := ix.Dictionary().ValueAt(ord)
//	docs, _ := ix.Inverted().DocIDs(ord)
//
// Readers are immutable after Open and safe for concurrent use without
// locking. Close releases materialized dictionaries, then unmaps buffers;
// readers must not be used afterwards.
package colseg
