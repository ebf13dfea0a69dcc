package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/inodb/vibe-gsea/internal/detable"
)

// previewRows is how many data rows inspect prints.
const previewRows = 5

func newInspectCmd() *cobra.Command {
	var scoreCol string

	cmd := &cobra.Command{
		Use:   "inspect [flags] <de-results-file>",
		Short: "Preview a DE results table and summarize its score column",
		Long: `Preview the columns and first rows of a DE results table and summarize
the score column that a run would use. The score column should be numeric
and reflect the direction and strength of differential expression.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], scoreCol)
		},
	}

	cmd.Flags().StringVarP(&scoreCol, "score-column", "s", "", "Score column to summarize (default: guessed)")

	return cmd
}

func runInspect(path, scoreCol string) error {
	table, err := detable.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("Columns (%d): %s\n", len(table.Columns), strings.Join(table.Columns, ", "))
	fmt.Printf("Rows: %d\n\n", table.NumRows())

	fmt.Println(strings.Join(table.Columns, "\t"))
	for i := 0; i < table.NumRows() && i < previewRows; i++ {
		cells := make([]string, len(table.Columns))
		for j := range table.Columns {
			cells[j] = table.Cell(i, j)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	if table.NumRows() > previewRows {
		fmt.Printf("... (%d more rows)\n", table.NumRows()-previewRows)
	}
	fmt.Println()

	if scoreCol == "" {
		scoreCol = guessScoreColumn(table)
		if scoreCol == "" {
			fmt.Fprintln(os.Stderr, "No candidate score column found; a run will need --score-column.")
			return nil
		}
	}

	values, ok := table.Column(scoreCol)
	if !ok {
		return fmt.Errorf("score column %q not found", scoreCol)
	}

	var scores []float64
	missing := 0
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			missing++
			continue
		}
		scores = append(scores, f)
	}

	fmt.Printf("Score column %q: %d numeric, %d missing\n", scoreCol, len(scores), missing)
	if len(scores) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: the score column has no numeric values; a run would fail.")
		return nil
	}

	min, _ := stats.Min(scores)
	max, _ := stats.Max(scores)
	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	sd, _ := stats.StandardDeviation(scores)

	fmt.Printf("  min=%.4g max=%.4g mean=%.4g median=%.4g sd=%.4g\n", min, max, mean, median, sd)

	return nil
}
