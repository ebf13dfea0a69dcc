// Package output provides tidy enrichment result formatters.
package output

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/inodb/vibe-gsea/internal/gsea"
)

// TableWriter writes a tidy result as delimited text. NaN values are
// written as empty cells.
type TableWriter struct {
	cw *csv.Writer
	bw *bufio.Writer
}

// NewTSVWriter creates a tab-delimited writer.
func NewTSVWriter(w io.Writer) *TableWriter {
	return newTableWriter(w, '\t')
}

// NewCSVWriter creates a comma-delimited writer.
func NewCSVWriter(w io.Writer) *TableWriter {
	return newTableWriter(w, ',')
}

func newTableWriter(w io.Writer, sep rune) *TableWriter {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = sep
	return &TableWriter{cw: cw, bw: bw}
}

// WriteResult writes the header and all rows, then flushes.
func (tw *TableWriter) WriteResult(res *gsea.Result) error {
	if err := tw.cw.Write(res.Columns()); err != nil {
		return err
	}

	for _, row := range res.Rows {
		record := []string{
			row.Pathway,
			formatFloat(row.NES),
			formatFloat(row.FDR),
			row.Direction,
			formatFloat(row.GeneRatio),
			formatFloat(row.NumGenes),
			formatFloat(row.GenesetSize),
		}
		if res.HasLeadGenes {
			record = append(record, row.LeadGenes)
		}
		record = append(record, row.Extra...)

		if err := tw.cw.Write(record); err != nil {
			return err
		}
	}

	tw.cw.Flush()
	if err := tw.cw.Error(); err != nil {
		return err
	}
	return tw.bw.Flush()
}

// formatFloat renders a float compactly, with NaN as an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
