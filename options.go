package colseg

import (
	"github.com/hupe1980/colseg/codec"
	"github.com/hupe1980/colseg/column"
	"github.com/hupe1980/colseg/resource"
)

type options struct {
	codec            codec.Codec
	logger           *Logger
	metricsCollector MetricsCollector
	loadConfig       *column.LoadConfig
	loadConcurrency  int
	rc               *resource.Controller
	verifyChecksums  bool
}

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		loadConcurrency:  4,
		verifyChecksums:  true,
	}
}

// Option configures Open.
type Option func(*options)

// WithCodec configures the codec used for decoding segment metadata.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. If nil is passed, metrics
// are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLoadConfig selects the optional indexes loaded per column.
// Without it only mandatory readers are built.
func WithLoadConfig(cfg *column.LoadConfig) Option {
	return func(o *options) {
		o.loadConfig = cfg
	}
}

// WithLoadConcurrency bounds the columns of one segment resolved at once.
// Values below 1 load columns sequentially.
func WithLoadConcurrency(n int) Option {
	return func(o *options) {
		o.loadConcurrency = max(n, 1)
	}
}

// WithResourceController shares memory, load slot and IO limits between
// segments. Without it, usage is unbounded and unaccounted.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithChecksumVerification toggles CRC32-C verification of buffers against
// the checksums recorded in segment metadata. Enabled by default.
func WithChecksumVerification(enabled bool) Option {
	return func(o *options) {
		o.verifyChecksums = enabled
	}
}
