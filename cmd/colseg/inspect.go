package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/colseg"
	"github.com/hupe1980/colseg/column"
	"github.com/hupe1980/colseg/index"
)

func (t *segmentTool) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "inspect",
		Short:   "Print the segment layout and the readers of every column",
		Args:    cobra.NoArgs,
		PreRunE: t.openSegment(),
		RunE: func(c *cobra.Command, _ []string) error {
			return printSummary(c.OutOrStdout(), t.seg)
		},
	}
}

func printSummary(out io.Writer, seg *colseg.Segment) error {
	fmt.Fprintf(out, "segment %s: %d docs, %d columns\n\n", seg.Name(), seg.NumDocs(), len(seg.Columns()))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tFORWARD\tCARDINALITY\tENTRIES\tDICTIONARY\tINVERTED\tBLOOM")
	for _, name := range seg.Columns() {
		ix, err := seg.Column(name)
		if err != nil {
			return err
		}
		meta := ix.Metadata()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			name,
			meta.DataType,
			ix.Forward().Kind(),
			cardinality(ix),
			meta.TotalEntries,
			dictionaryKind(ix),
			invertedKind(ix),
			bloomSummary(ix),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nheap: %d bytes\n", seg.MemoryUsage())
	return nil
}

func cardinality(ix *column.Indexes) string {
	if d := ix.Dictionary(); d != nil {
		return strconv.Itoa(d.Len())
	}
	return "-"
}

func dictionaryKind(ix *column.Indexes) string {
	switch {
	case ix.Dictionary() == nil:
		return "-"
	case ix.Plan().OnHeapDictionary:
		return "on-heap"
	default:
		return "view"
	}
}

func invertedKind(ix *column.Indexes) string {
	switch {
	case ix.Inverted() == nil:
		return "-"
	case ix.Plan().SortedInverted:
		return "sorted"
	default:
		return "bitmap"
	}
}

func bloomSummary(ix *column.Indexes) string {
	b := ix.BloomFilter()
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("fpp=%g", b.FalsePositiveRate())
}

func (t *segmentTool) newValuesCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "values <column>",
		Short:   "Print the values of the first documents of a column",
		Args:    cobra.ExactArgs(1),
		PreRunE: t.openSegment(),
		RunE: func(c *cobra.Command, args []string) error {
			ix, err := t.seg.Column(args[0])
			if err != nil {
				return err
			}
			n := min(limit, ix.Forward().NumDocs())
			for d := range uint32(n) {
				vals, err := documentValues(ix, d)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "%d\t%s\n", d, strings.Join(vals, ","))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of documents")
	return cmd
}

// documentValues renders the value(s) of docID through the forward reader
// and, for dictionary columns, the dictionary.
func documentValues(ix *column.Indexes, docID uint32) ([]string, error) {
	switch r := ix.Forward().(type) {
	case index.OrdinalReader:
		return []string{ix.Dictionary().ValueAt(r.OrdinalAt(docID)).String()}, nil
	case index.MultiOrdinalReader:
		ords := r.OrdinalsAt(docID, nil)
		out := make([]string, len(ords))
		for i, o := range ords {
			out[i] = ix.Dictionary().ValueAt(o).String()
		}
		return out, nil
	case index.ValueReader:
		v, err := r.ValueAt(docID)
		if err != nil {
			return nil, err
		}
		return []string{v.String()}, nil
	default:
		return nil, fmt.Errorf("column %q: no value access for %s", ix.Column(), ix.Forward().Kind())
	}
}
