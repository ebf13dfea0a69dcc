package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-gsea/internal/gsea"
)

func newGenesetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesets",
		Short: "List supported organism / collection combinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORGANISM\tCOLLECTION\tLIBRARY")
			for _, c := range gsea.RegisteredGeneSets() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Organism, c.Collection, c.Library)
			}
			return tw.Flush()
		},
	}
}
