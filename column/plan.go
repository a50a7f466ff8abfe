package column

import (
	"github.com/hupe1980/colseg/index"
	"github.com/hupe1980/colseg/model"
)

// Plan is the reader selection for one column. It is derived from metadata
// and load configuration alone, before any buffer is touched.
type Plan struct {
	// Forward is the forward reader variant. It is zero when the data type
	// has no raw reader.
	Forward index.ForwardKind
	// Dictionary is set for dictionary-encoded columns.
	Dictionary bool
	// OnHeapDictionary materializes the dictionary.
	OnHeapDictionary bool
	// Inverted loads a bitmap inverted index.
	Inverted bool
	// SortedInverted marks the forward reader as the inverted index.
	SortedInverted bool
	// BloomFilter loads a bloom filter.
	BloomFilter bool
	// InvertedIgnored is set when an inverted index was requested for a
	// sorted column.
	InvertedIgnored bool
}

// NewPlan selects the readers for meta under cfg. A nil cfg loads no
// optional index.
func NewPlan(meta *model.ColumnMetadata, cfg *LoadConfig) Plan {
	if !meta.HasDictionary {
		var p Plan
		switch {
		case meta.DataType.IsVariableWidth():
			p.Forward = index.ForwardRawVar
		case meta.DataType.Valid():
			p.Forward = index.ForwardRawFixed
		}
		return p
	}

	p := Plan{
		Dictionary:       true,
		OnHeapDictionary: cfg.OnHeapDictionary(meta.Name),
		BloomFilter:      cfg.BloomFilter(meta.Name),
	}
	switch {
	case meta.SingleValue && meta.Sorted:
		p.Forward = index.ForwardSorted
		p.SortedInverted = true
		p.InvertedIgnored = cfg.InvertedIndex(meta.Name)
	case meta.SingleValue:
		p.Forward = index.ForwardFixedBitSV
		p.Inverted = cfg.InvertedIndex(meta.Name)
	default:
		p.Forward = index.ForwardFixedBitMV
		p.Inverted = cfg.InvertedIndex(meta.Name)
	}
	return p
}

// Buffers returns the buffer kinds the plan reads, in load order.
func (p Plan) Buffers() []model.IndexKind {
	var kinds []model.IndexKind
	if p.Dictionary {
		kinds = append(kinds, model.Dictionary)
	}
	if p.BloomFilter {
		kinds = append(kinds, model.BloomFilter)
	}
	kinds = append(kinds, model.ForwardIndex)
	if p.Inverted {
		kinds = append(kinds, model.InvertedIndex)
	}
	return kinds
}
