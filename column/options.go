package column

import (
	"log/slog"

	"github.com/hupe1980/colseg/resource"
)

type options struct {
	logger *slog.Logger
	rc     *resource.Controller
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResourceController accounts materialized dictionaries against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}
