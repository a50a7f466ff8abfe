package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colseg/model"
)

func testSegment() *model.SegmentMetadata {
	return &model.SegmentMetadata{
		Name:      "events_0",
		Version:   model.FormatVersion,
		TotalDocs: 3,
		Columns: []model.ColumnMetadata{
			{
				Name: "country", DataType: model.TypeString, Cardinality: 2,
				TotalDocs: 3, TotalEntries: 3, SingleValue: true, HasDictionary: true,
				BitsPerElement: 1, MaxLength: 2, PaddingByte: '%',
			},
			{
				Name: "price", DataType: model.TypeDouble, TotalDocs: 3, TotalEntries: 3,
				SingleValue: true, Compression: "zstd",
			},
		},
		Checksums: map[string]uint32{"country.dict": 0xdeadbeef},
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestSegmentRoundTrip(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		name := "default"
		if c != nil {
			name = c.Name()
		}
		t.Run(name, func(t *testing.T) {
			data, err := EncodeSegment(c, testSegment())
			require.NoError(t, err)
			assert.Contains(t, string(data), `"dataType":"DOUBLE"`)

			got, err := DecodeSegment(c, data)
			require.NoError(t, err)
			assert.Equal(t, testSegment(), got)
		})
	}
}

func TestCodecsInterchangeable(t *testing.T) {
	data, err := EncodeSegment(JSON{}, testSegment())
	require.NoError(t, err)
	got, err := DecodeSegment(GoJSON{}, data)
	require.NoError(t, err)
	assert.Equal(t, testSegment(), got)
}

func TestDecodeSegment_Invalid(t *testing.T) {
	_, err := DecodeSegment(nil, []byte("{not json"))
	assert.ErrorIs(t, err, model.ErrInvalidMetadata)

	_, err = DecodeSegment(nil, []byte(`{"segmentName":"s","version":99}`))
	assert.ErrorIs(t, err, model.ErrInvalidMetadata)

	_, err = DecodeSegment(nil, []byte(`{"segmentName":"s","version":1,"columns":[{"columnName":"c","dataType":"BOOLEAN"}]}`))
	assert.ErrorIs(t, err, model.ErrInvalidMetadata)

	bad := testSegment()
	bad.Columns[0].BitsPerElement = 0
	_, err = EncodeSegment(nil, bad)
	assert.ErrorIs(t, err, model.ErrInvalidMetadata)
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, []byte(`{"a":1}`), MustMarshal(nil, map[string]int{"a": 1}))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}

func BenchmarkDecodeSegment(b *testing.B) {
	data := MustMarshal(nil, testSegment())
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := DecodeSegment(c, data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
