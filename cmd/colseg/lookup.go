package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/colseg/model"
)

func (t *segmentTool) newLookupCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "lookup <column> <value>",
		Short: "Find the documents holding a value",
		Long: "Resolves the value through the bloom filter (when loaded), the dictionary " +
			"and the inverted index. The column needs an inverted index: it is sorted, " +
			"or named in --inverted.",
		Args:    cobra.ExactArgs(2),
		PreRunE: t.openSegment(),
		RunE: func(c *cobra.Command, args []string) error {
			ix, err := t.seg.Column(args[0])
			if err != nil {
				return err
			}
			dict, inv := ix.Dictionary(), ix.Inverted()
			if dict == nil || inv == nil {
				return fmt.Errorf("column %q has no inverted index loaded", args[0])
			}
			v, err := model.ParseValue(dict.DataType(), args[1])
			if err != nil {
				return err
			}
			v = ix.CanonicalValue(v)

			out := c.OutOrStdout()
			if b := ix.BloomFilter(); b != nil && !b.MightContain(v) {
				fmt.Fprintln(out, "0 documents (bloom filter)")
				return nil
			}
			ord, ok := dict.IndexOf(v)
			if !ok {
				fmt.Fprintln(out, "0 documents")
				return nil
			}
			docs, err := inv.DocIDs(ord)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d documents (ordinal %d)\n", docs.Cardinality(), ord)
			printed := 0
			docs.ForEach(func(d uint32) bool {
				fmt.Fprintln(out, d)
				printed++
				return printed < limit
			})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum document ids to print")
	return cmd
}
