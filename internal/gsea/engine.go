package gsea

import "context"

// Params are the enrichment parameters passed through to the engine.
type Params struct {
	MinSize        int
	MaxSize        int
	PermutationNum int
	Seed           int
}

// RawResult is the engine's summary table as produced, untouched. Column
// names vary across engine versions; Normalize harmonizes them.
type RawResult struct {
	Columns []string
	Rows    [][]string
}

// columnIndex returns the index of the first alias present, or -1.
func (r *RawResult) columnIndex(aliases ...string) int {
	for _, a := range aliases {
		for i, c := range r.Columns {
			if c == a {
				return i
			}
		}
	}
	return -1
}

// cell returns the value at row/col, tolerating short rows.
func (r *RawResult) cell(row, col int) string {
	if col < 0 || col >= len(r.Rows[row]) {
		return ""
	}
	return r.Rows[row][col]
}

// Engine runs preranked GSEA. Implementations must be deterministic for a
// fixed seed and must not write intermediate artifacts to disk. An
// implementation that depends on an external tool reports its absence with
// a DependencyMissingError at call time, not at construction.
type Engine interface {
	RunPrerank(ctx context.Context, rnk Ranking, geneSets string, p Params) (*RawResult, error)
}
