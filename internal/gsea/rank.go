package gsea

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gsea/internal/detable"
)

// RankedGene is one entry of a preranked gene list.
type RankedGene struct {
	Gene  string
	Score float64
}

// Ranking is an ordered gene -> score list. Invariants after Prepare: gene
// identifiers are uppercase and unique, every score is a valid number, and
// entries are sorted by score.
type Ranking []RankedGene

// Genes returns the gene identifiers in rank order.
func (r Ranking) Genes() []string {
	genes := make([]string, len(r))
	for i, e := range r {
		genes[i] = e.Gene
	}
	return genes
}

// Scores returns the scores in rank order.
func (r Ranking) Scores() []float64 {
	scores := make([]float64, len(r))
	for i, e := range r {
		scores[i] = e.Score
	}
	return scores
}

// Prepare converts a DE results table into a ranked gene list.
//
// Rows whose score is missing or not numeric are dropped; rows with a
// missing gene identifier are kept. Gene identifiers are uppercased
// (Enrichr / MSigDB libraries are indexed by uppercase symbols) and
// deduplicated keeping the first occurrence in table order. The result is
// sorted by score, highest first unless ascending is true.
func Prepare(t *detable.Table, geneCol, scoreCol string, ascending bool) (Ranking, error) {
	geneIdx := t.ColumnIndex(geneCol)
	if geneIdx < 0 {
		return nil, &SchemaError{Column: geneCol}
	}
	scoreIdx := t.ColumnIndex(scoreCol)
	if scoreIdx < 0 {
		return nil, &SchemaError{Column: scoreCol}
	}

	var rnk Ranking
	seen := make(map[string]bool)

	for i := range t.Rows {
		score, ok := parseScore(t.Cell(i, scoreIdx))
		if !ok {
			continue
		}

		gene := strings.ToUpper(strings.TrimSpace(t.Cell(i, geneIdx)))
		if seen[gene] {
			continue
		}
		seen[gene] = true

		rnk = append(rnk, RankedGene{Gene: gene, Score: score})
	}

	sort.SliceStable(rnk, func(i, j int) bool {
		if ascending {
			return rnk[i].Score < rnk[j].Score
		}
		return rnk[i].Score > rnk[j].Score
	})

	return rnk, nil
}

// parseScore interprets a table cell as a ranking score. Empty cells,
// non-numeric values (NA, null, ...) and explicit NaN all count as missing.
func parseScore(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
