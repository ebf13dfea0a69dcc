package gsea

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Direction values derived from the sign of NES.
const (
	DirectionUpregulated   = "upregulated"
	DirectionDownregulated = "downregulated"
)

// Canonical column names of the tidy result.
const (
	ColPathway     = "pathway"
	ColNES         = "NES"
	ColFDR         = "fdr"
	ColDirection   = "direction"
	ColGeneRatio   = "gene_ratio"
	ColNumGenes    = "num_genes"
	ColGenesetSize = "geneset_size"
	ColLeadGenes   = "lead_genes"
)

// Column aliases used to harmonize raw results across engine versions.
// Resolution picks the first alias present.
var (
	termAliases = []string{"Term", "term"}
	nesAliases  = []string{"NES", "nes"}
	fdrAliases  = []string{"FDR q-val", "FDR_q-val", "fdr", "FDR"}
	tagAliases  = []string{"Tag %", "tag %", "tag_percent", "Tag_percent"}
	leadAliases = []string{"Lead_genes", "lead_genes"}
	nameAliases = []string{"Name", "name"}
	pvalAliases = []string{"NOM p-val", "pval", "Pval", "P-value"}
)

// Row is one tested gene set in the tidy result.
type Row struct {
	Pathway     string
	NES         float64
	FDR         float64 // NaN when neither an FDR nor a p-value column exists
	Direction   string
	GeneRatio   float64 // leading-edge hits / gene set size, NaN if unparseable
	NumGenes    float64 // leading-edge gene count
	GenesetSize float64 // total genes in the gene set
	LeadGenes   string  // separator-delimited leading-edge gene list
	Extra       []string
}

// Result is the tidy enrichment result: one Row per gene set, sorted by NES
// descending. ExtraColumns names the non-canonical raw columns carried
// through in their original relative order; Row.Extra is aligned with it.
type Result struct {
	HasLeadGenes bool
	ExtraColumns []string
	Rows         []Row
}

// Columns returns the output column order: the canonical prefix (only the
// columns actually present) followed by the carried-through raw columns.
func (r *Result) Columns() []string {
	cols := []string{ColPathway, ColNES, ColFDR, ColDirection, ColGeneRatio, ColNumGenes, ColGenesetSize}
	if r.HasLeadGenes {
		cols = append(cols, ColLeadGenes)
	}
	return append(cols, r.ExtraColumns...)
}

// Normalize converts a raw engine result into a tidy Result.
//
// Pathway name and NES are required; their absence is a SchemaError listing
// the raw columns found. The FDR column falls back to a nominal p-value
// column when missing, and to NaN when neither exists. The hit-fraction
// ("16/52") and leading-edge list parses are best-effort: failures degrade
// to NaN in the derived fields, never to an error.
func Normalize(raw *RawResult) (*Result, error) {
	termIdx := raw.columnIndex(termAliases...)
	nesIdx := raw.columnIndex(nesAliases...)
	if termIdx < 0 || nesIdx < 0 {
		return nil, &SchemaError{Column: "Term/NES", Found: raw.Columns}
	}

	fdrIdx := raw.columnIndex(fdrAliases...)
	if fdrIdx < 0 {
		fdrIdx = raw.columnIndex(pvalAliases...)
	}
	tagIdx := raw.columnIndex(tagAliases...)
	leadIdx := raw.columnIndex(leadAliases...)
	nameIdx := raw.columnIndex(nameAliases...)

	res := &Result{HasLeadGenes: leadIdx >= 0}

	// Raw columns not consumed by a canonical field are carried through in
	// their original order. The hit-fraction and comparison columns keep
	// their values but get stable names.
	var extraIdx []int
	for i, c := range raw.Columns {
		switch i {
		case termIdx, nesIdx, fdrIdx, leadIdx:
			continue
		case tagIdx:
			c = "Tag_fraction"
		case nameIdx:
			c = "comparison_name"
		}
		res.ExtraColumns = append(res.ExtraColumns, c)
		extraIdx = append(extraIdx, i)
	}

	for i := range raw.Rows {
		nes := parseFloatOrNaN(raw.cell(i, nesIdx))

		row := Row{
			Pathway:     raw.cell(i, termIdx),
			NES:         nes,
			FDR:         math.NaN(),
			Direction:   DirectionDownregulated,
			GeneRatio:   math.NaN(),
			NumGenes:    math.NaN(),
			GenesetSize: math.NaN(),
		}
		if nes > 0 {
			row.Direction = DirectionUpregulated
		}
		if fdrIdx >= 0 {
			row.FDR = parseFloatOrNaN(raw.cell(i, fdrIdx))
		}
		if tagIdx >= 0 {
			row.GeneRatio, row.NumGenes, row.GenesetSize = parseTagFraction(raw.cell(i, tagIdx))
		}
		if leadIdx >= 0 {
			// The leading-edge list count takes precedence over the
			// hit-fraction count, even when the two disagree.
			row.LeadGenes = raw.cell(i, leadIdx)
			row.NumGenes = float64(countLeadGenes(row.LeadGenes))
		}

		row.Extra = make([]string, len(extraIdx))
		for j, idx := range extraIdx {
			row.Extra[j] = raw.cell(i, idx)
		}

		res.Rows = append(res.Rows, row)
	}

	// NES descending, ties keep input order, NaN last.
	sort.SliceStable(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i].NES, res.Rows[j].NES
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})

	return res, nil
}

// parseTagFraction parses a hit-fraction value like "16/52" into
// (hits/set_size, hits, set_size). A zero set size keeps hits and size but
// yields a NaN ratio; any other parse failure yields NaN for all three.
func parseTagFraction(value string) (ratio, hits, size float64) {
	nan := math.NaN()
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return nan, nan, nan
	}
	hits, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nan, nan, nan
	}
	size, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nan, nan, nan
	}
	if size == 0 {
		return nan, hits, size
	}
	return hits / size, hits, size
}

// countLeadGenes counts entries in a leading-edge gene list delimited by
// semicolons or commas. Matches a split on either separator, so an empty
// list still counts as one entry.
func countLeadGenes(list string) int {
	return strings.Count(list, ";") + strings.Count(list, ",") + 1
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
