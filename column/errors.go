package column

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/valuecodec"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/segdir"
)

var (
	// ErrMalformedSegment is returned when a buffer contradicts the column
	// metadata or the metadata itself is inconsistent.
	ErrMalformedSegment = errors.New("malformed segment")
	// ErrMissingBuffer is returned when a buffer the column layout requires
	// is absent from the directory.
	ErrMissingBuffer = errors.New("missing index buffer")
)

// LoadError reports a failure to build one index of a column.
type LoadError struct {
	Column string
	Kind   model.IndexKind
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("column %q: %s: %v", e.Column, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// classify tags err with the matching sentinel.
func classify(err error) error {
	switch {
	case errors.Is(err, segdir.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrMissingBuffer, err)
	case errors.Is(err, index.ErrCorrupt),
		errors.Is(err, index.ErrUnsupportedType),
		errors.Is(err, valuecodec.ErrShortBuffer),
		errors.Is(err, segdir.ErrChecksumMismatch):
		return fmt.Errorf("%w: %w", ErrMalformedSegment, err)
	default:
		return err
	}
}
