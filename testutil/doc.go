// Package testutil builds synthetic segments for tests and benchmarks.
//
// It is intended for use in tests only. Build turns rows of values into the
// buffers and metadata of a segment using the format encoders:
//
//	seg, err := testutil.Build("events_0",
//	    testutil.ColumnSpec{Name: "country", DataType: model.TypeString, Values: countries},
//	    testutil.ColumnSpec{Name: "price", DataType: model.TypeDouble, Values: prices, Raw: true},
//	)
//	dir := seg.Directory()            // in-memory segdir.Directory
//	err = seg.WriteTo(ctx, store, nil) // blobs plus metadata.json
//
// RNG generates deterministic column data.
package testutil
