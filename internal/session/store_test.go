package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gsea/internal/gsea"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *gsea.Result {
	return &gsea.Result{
		HasLeadGenes: true,
		ExtraColumns: []string{"ES"},
		Rows: []gsea.Row{
			{Pathway: "HALLMARK_MYC_TARGETS_V1", NES: 2.13, FDR: 0.004, Direction: gsea.DirectionUpregulated,
				GeneRatio: 0.31, NumGenes: 16, GenesetSize: 52, LeadGenes: "MYC;MAX", Extra: []string{"0.62"}},
			{Pathway: "HALLMARK_HYPOXIA", NES: 1.55, FDR: 0.08, Direction: gsea.DirectionUpregulated,
				GeneRatio: 0.15, NumGenes: 30, GenesetSize: 200, LeadGenes: "VEGFA", Extra: []string{"0.41"}},
			{Pathway: "HALLMARK_UNKNOWN", NES: 0.9, FDR: math.NaN(), Direction: gsea.DirectionUpregulated,
				GeneRatio: math.NaN(), NumGenes: math.NaN(), GenesetSize: math.NaN(), Extra: []string{"0.2"}},
			{Pathway: "HALLMARK_APOPTOSIS", NES: -1.10, FDR: 0.02, Direction: gsea.DirectionDownregulated,
				GeneRatio: 0.12, NumGenes: 20, GenesetSize: 161, LeadGenes: "CASP3", Extra: []string{"-0.31"}},
		},
	}
}

func TestStore_ReplaceAndLatest(t *testing.T) {
	s := openStore(t)
	assert.Nil(t, s.Latest())

	res := sampleResult()
	require.NoError(t, s.Replace(res))
	assert.Same(t, res, s.Latest())
}

func TestStore_LastWriteWins(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Replace(sampleResult()))

	second := &gsea.Result{Rows: []gsea.Row{{Pathway: "KEGG_GLYCOLYSIS", NES: 1.2, FDR: 0.01}}}
	require.NoError(t, s.Replace(second))

	assert.Same(t, second, s.Latest())

	top, err := s.Top(10)
	require.NoError(t, err)
	require.Len(t, top.Rows, 1)
	assert.Equal(t, "KEGG_GLYCOLYSIS", top.Rows[0].Pathway)
}

func TestStore_Significant(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Replace(sampleResult()))

	sig, err := s.Significant(0.05)
	require.NoError(t, err)

	// 0.08 is over the cutoff; the NaN FDR row never passes.
	require.Len(t, sig.Rows, 2)
	assert.Equal(t, "HALLMARK_MYC_TARGETS_V1", sig.Rows[0].Pathway)
	assert.Equal(t, "HALLMARK_APOPTOSIS", sig.Rows[1].Pathway)

	// Extra columns survive the projection.
	assert.Equal(t, []string{"ES"}, sig.ExtraColumns)
	assert.Equal(t, []string{"0.62"}, sig.Rows[0].Extra)
}

func TestStore_SignificantNoneMatch(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Replace(sampleResult()))

	sig, err := s.Significant(0.001)
	require.NoError(t, err)
	assert.Empty(t, sig.Rows)
}

func TestStore_Top(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Replace(sampleResult()))

	top, err := s.Top(2)
	require.NoError(t, err)
	require.Len(t, top.Rows, 2)
	assert.Equal(t, "HALLMARK_MYC_TARGETS_V1", top.Rows[0].Pathway)
	assert.Equal(t, "HALLMARK_HYPOXIA", top.Rows[1].Pathway)

	all, err := s.Top(0)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 4)
}

func TestStore_SignificantWithoutResult(t *testing.T) {
	s := openStore(t)
	_, err := s.Significant(0.05)
	assert.Error(t, err)
}
