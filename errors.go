package colseg

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a closed segment is used.
var ErrClosed = errors.New("segment closed")

// ErrColumnNotFound indicates a column that the segment does not hold.
type ErrColumnNotFound struct {
	Segment string
	Column  string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("segment %q has no column %q", e.Segment, e.Column)
}
