package conv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToInt32 converts int to int32 safely.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d cannot be converted to int32", ErrOverflow, v)
	}
	return int32(v), nil
}

// AppendInt32 appends v as a big-endian int32 after a range check.
func AppendInt32(dst []byte, v int) ([]byte, error) {
	n, err := IntToInt32(v)
	if err != nil {
		return dst, err
	}
	return binary.BigEndian.AppendUint32(dst, uint32(n)), nil
}

// PutInt32 writes v as a big-endian int32 at b[0:4] after a range check.
func PutInt32(b []byte, v int) error {
	n, err := IntToInt32(v)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, uint32(n))
	return nil
}
