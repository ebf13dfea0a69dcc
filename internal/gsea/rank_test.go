package gsea

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gsea/internal/detable"
)

func deTable(columns []string, rows ...[]string) *detable.Table {
	return &detable.Table{Columns: columns, Rows: rows}
}

func TestPrepare_SortsAndUppercases(t *testing.T) {
	tbl := deTable(
		[]string{"gene", "stat"},
		[]string{"Cd24a", "1.5"},
		[]string{"Gapdh", "-0.2"},
		[]string{"Actb", "0.8"},
	)

	rnk, err := Prepare(tbl, "gene", "stat", false)
	require.NoError(t, err)

	assert.Equal(t, Ranking{
		{Gene: "CD24A", Score: 1.5},
		{Gene: "ACTB", Score: 0.8},
		{Gene: "GAPDH", Score: -0.2},
	}, rnk)
}

func TestPrepare_Ascending(t *testing.T) {
	tbl := deTable(
		[]string{"gene", "stat"},
		[]string{"Cd24a", "1.5"},
		[]string{"Gapdh", "-0.2"},
		[]string{"Actb", "0.8"},
	)

	rnk, err := Prepare(tbl, "gene", "stat", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"GAPDH", "ACTB", "CD24A"}, rnk.Genes())
	assert.Equal(t, []float64{-0.2, 0.8, 1.5}, rnk.Scores())
}

func TestPrepare_DropsMissingScoresOnly(t *testing.T) {
	tbl := deTable(
		[]string{"symbol", "log2FC", "padj"},
		[]string{"Trp53", "", "0.01"},     // missing score: dropped
		[]string{"Kras", "NA", "0.02"},    // pandas-style NA: dropped
		[]string{"Myc", "NaN", "0.03"},    // explicit NaN: dropped
		[]string{"", "2.0", "0.04"},       // missing gene: kept
		[]string{"Brca1", "1.0", "0.05"},
	)

	rnk, err := Prepare(tbl, "symbol", "log2FC", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "BRCA1"}, rnk.Genes())
}

func TestPrepare_DeduplicatesFirstOccurrence(t *testing.T) {
	// The first occurrence in table order wins, not the first by score.
	tbl := deTable(
		[]string{"gene", "stat"},
		[]string{"Kras", "0.5"},
		[]string{"KRAS", "3.0"},
		[]string{"kras", "-1.0"},
		[]string{"Myc", "1.0"},
	)

	rnk, err := Prepare(tbl, "gene", "stat", false)
	require.NoError(t, err)

	require.Len(t, rnk, 2)
	assert.Equal(t, RankedGene{Gene: "MYC", Score: 1.0}, rnk[0])
	assert.Equal(t, RankedGene{Gene: "KRAS", Score: 0.5}, rnk[1])
}

func TestPrepare_MissingColumns(t *testing.T) {
	tbl := deTable([]string{"gene", "stat"}, []string{"Myc", "1.0"})

	_, err := Prepare(tbl, "gene", "log2FoldChange", false)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "log2FoldChange", schemaErr.Column)
	assert.Contains(t, err.Error(), "log2FoldChange")

	_, err = Prepare(tbl, "symbol", "stat", false)
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "symbol", schemaErr.Column)
}

func TestPrepare_AllScoresMissing(t *testing.T) {
	tbl := deTable(
		[]string{"gene", "stat"},
		[]string{"Myc", "NA"},
		[]string{"Kras", ""},
	)

	rnk, err := Prepare(tbl, "gene", "stat", false)
	require.NoError(t, err)
	assert.Empty(t, rnk)
}
