package forward

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/internal/chunk"
	"github.com/hupe1980/colseg/internal/conv"
	"github.com/hupe1980/colseg/model"
)

// EncodeRaw serializes values of type dt into the chunked raw layout.
// A non-positive docsPerChunk selects DefaultDocsPerChunk.
func EncodeRaw(dt model.DataType, values []model.Value, docsPerChunk int, c chunk.Compression) ([]byte, error) {
	if docsPerChunk <= 0 {
		docsPerChunk = DefaultDocsPerChunk
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", chunk.ErrUnknownCompression, c)
	}
	width, fixed := dt.FixedWidth()
	if !fixed {
		if !dt.IsVariableWidth() {
			return nil, fmt.Errorf("forward: cannot encode %s", dt)
		}
		width = 0
	}

	var payloads [][]byte
	for start := 0; start < len(values); start += docsPerChunk {
		rows := values[start:min(start+docsPerChunk, len(values))]
		var payload []byte
		if fixed {
			for i, v := range rows {
				if v.Type() != dt {
					return nil, fmt.Errorf("%w: doc %d is %s", valuecodec.ErrTypeMismatch, start+i, v.Type())
				}
				payload, _ = valuecodec.AppendFixed(payload, v)
			}
		} else {
			payload = make([]byte, len(rows)*rowOffsetSize)
			for i, v := range rows {
				if v.Type() != dt {
					return nil, fmt.Errorf("%w: doc %d is %s", valuecodec.ErrTypeMismatch, start+i, v.Type())
				}
				raw, _ := valuecodec.RawBytes(v)
				width = max(width, len(raw))
				if err := conv.PutInt32(payload[i*rowOffsetSize:], len(payload)); err != nil {
					return nil, fmt.Errorf("forward: chunk at doc %d: %w", start, err)
				}
				payload = valuecodec.AppendLengthPrefixed(payload, raw)
			}
		}
		payloads = append(payloads, payload)
	}

	be := binary.BigEndian
	out := make([]byte, 0, rawHeaderSize+len(payloads)*8)
	var err error
	for _, field := range []int{RawVersion, len(payloads), docsPerChunk, width, int(c)} {
		if out, err = conv.AppendInt32(out, field); err != nil {
			return nil, fmt.Errorf("forward: raw header: %w", err)
		}
	}
	table := len(out)
	out = append(out, make([]byte, len(payloads)*8)...)
	for i, p := range payloads {
		be.PutUint64(out[table+i*8:], uint64(len(out)))
		if out, err = chunk.Encode(out, p, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
