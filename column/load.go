package column

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/index/bloom"
	"github.com/hupe1980/colseg/index/dictionary"
	"github.com/hupe1980/colseg/index/forward"
	"github.com/hupe1980/colseg/index/inverted"
	"github.com/hupe1980/colseg/model"
	"github.com/hupe1980/colseg/segdir"
)

// Load builds the index bundle of the column described by meta, reading its
// buffers from dir. Only buffers the column layout requires are requested.
func Load(ctx context.Context, dir segdir.Directory, meta *model.ColumnMetadata, cfg *LoadConfig, optFns ...Option) (*Indexes, error) {
	opts := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := meta.Validate(); err != nil {
		if !meta.DataType.Valid() {
			// The first reader built for the column rejects the type.
			kind := model.ForwardIndex
			if meta.HasDictionary {
				kind = model.Dictionary
			}
			return nil, &LoadError{Column: meta.Name, Kind: kind, Err: classify(fmt.Errorf("%w: %w", index.ErrUnsupportedType, err))}
		}
		return nil, fmt.Errorf("column %q: %w: %w", meta.Name, ErrMalformedSegment, err)
	}

	ix := &Indexes{meta: *meta, plan: NewPlan(meta, cfg)}
	l := loader{ctx: ctx, dir: dir, meta: &ix.meta, opts: opts}
	if err := l.build(ix); err != nil {
		if cerr := ix.Close(); cerr != nil {
			opts.logger.Warn("closing partial column bundle", "column", meta.Name, "error", cerr)
		}
		return nil, err
	}

	opts.logger.Debug("column loaded",
		"column", meta.Name,
		"forward", ix.plan.Forward,
		"dictionary", ix.plan.Dictionary,
		"onHeap", ix.plan.OnHeapDictionary,
		"inverted", ix.inverted != nil,
		"bloom", ix.plan.BloomFilter,
	)
	return ix, nil
}

type loader struct {
	ctx  context.Context
	dir  segdir.Directory
	meta *model.ColumnMetadata
	opts options
}

func (l *loader) fail(kind model.IndexKind, err error) error {
	return &LoadError{Column: l.meta.Name, Kind: kind, Err: classify(err)}
}

func (l *loader) buffer(kind model.IndexKind) ([]byte, error) {
	buf, err := l.dir.Buffer(l.ctx, l.meta.Name, kind)
	if err != nil {
		return nil, l.fail(kind, err)
	}
	return buf, nil
}

// build fills ix following its plan. On error ix holds the readers built so far.
func (l *loader) build(ix *Indexes) error {
	p := ix.plan
	if p.InvertedIgnored {
		l.opts.logger.Debug("inverted index request ignored for sorted column", "column", l.meta.Name)
	}

	if p.Dictionary {
		d, err := l.dictionary(p.OnHeapDictionary)
		if err != nil {
			return err
		}
		ix.dictionary = d

		if p.BloomFilter {
			buf, err := l.buffer(model.BloomFilter)
			if err != nil {
				return err
			}
			f, err := bloom.New(buf)
			if err != nil {
				return l.fail(model.BloomFilter, err)
			}
			ix.bloom = f
		}
	}

	buf, err := l.buffer(model.ForwardIndex)
	if err != nil {
		return err
	}
	switch p.Forward {
	case index.ForwardSorted:
		s, err := forward.NewSorted(buf, l.meta)
		if err != nil {
			return l.fail(model.ForwardIndex, err)
		}
		ix.forward, ix.inverted = s, s
	case index.ForwardFixedBitSV:
		f, err := forward.NewFixedBitSV(buf, l.meta)
		if err != nil {
			return l.fail(model.ForwardIndex, err)
		}
		ix.forward = f
	case index.ForwardFixedBitMV:
		f, err := forward.NewFixedBitMV(buf, l.meta)
		if err != nil {
			return l.fail(model.ForwardIndex, err)
		}
		ix.forward = f
	case index.ForwardRawFixed:
		r, err := forward.NewRawFixed(buf, l.meta)
		if err != nil {
			return l.fail(model.ForwardIndex, err)
		}
		ix.forward = r
	case index.ForwardRawVar:
		r, err := forward.NewRawVar(buf, l.meta)
		if err != nil {
			return l.fail(model.ForwardIndex, err)
		}
		ix.forward = r
	default:
		return l.fail(model.ForwardIndex, fmt.Errorf("%w: raw reader for %s", index.ErrUnsupportedType, l.meta.DataType))
	}

	if p.Inverted {
		buf, err := l.buffer(model.InvertedIndex)
		if err != nil {
			return err
		}
		r, err := inverted.New(buf, l.meta)
		if err != nil {
			return l.fail(model.InvertedIndex, err)
		}
		ix.inverted = r
	}
	return nil
}

func (l *loader) dictionary(onHeap bool) (index.Dictionary, error) {
	buf, err := l.buffer(model.Dictionary)
	if err != nil {
		return nil, err
	}
	if onHeap {
		d, err := dictionary.NewMaterialized(buf, l.meta, l.opts.rc)
		if err != nil {
			return nil, l.fail(model.Dictionary, err)
		}
		return d, nil
	}
	d, err := dictionary.NewView(buf, l.meta)
	if err != nil {
		return nil, l.fail(model.Dictionary, err)
	}
	return d, nil
}
