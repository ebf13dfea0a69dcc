package gsea

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine records invocations and returns a canned raw result.
type stubEngine struct {
	calls    int
	rnk      Ranking
	geneSets string
	params   Params
	result   *RawResult
	err      error
}

func (s *stubEngine) RunPrerank(ctx context.Context, rnk Ranking, geneSets string, p Params) (*RawResult, error) {
	s.calls++
	s.rnk = rnk
	s.geneSets = geneSets
	s.params = p
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Organism = "Homo sapiens"
	cfg.GeneSetCollection = "HALLMARK"
	return cfg
}

func TestRunner_EndToEnd(t *testing.T) {
	engine := &stubEngine{result: gseapyRawResult()}
	runner := NewRunner(engine)

	tbl := deTable(
		[]string{"gene", "stat", "padj"},
		[]string{"Cd24a", "1.5", "0.01"},
		[]string{"Gapdh", "-0.2", "0.9"},
		[]string{"Actb", "0.8", "0.3"},
	)

	res, err := runner.Run(context.Background(), tbl, "gene", "stat", testConfig())
	require.NoError(t, err)

	// The engine saw the resolved library and the prepared ranking.
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, "MSigDB_Hallmark_2020", engine.geneSets)
	assert.Equal(t, []string{"CD24A", "ACTB", "GAPDH"}, engine.rnk.Genes())
	assert.Equal(t, Params{MinSize: 15, MaxSize: 500, PermutationNum: 100, Seed: 42}, engine.params)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, "HALLMARK_MYC_TARGETS_V1", res.Rows[0].Pathway)
}

func TestRunner_EmptyRankingNeverInvokesEngine(t *testing.T) {
	engine := &stubEngine{result: gseapyRawResult()}
	runner := NewRunner(engine)

	tbl := deTable(
		[]string{"gene", "stat"},
		[]string{"Cd24a", "NA"},
		[]string{"Actb", ""},
	)

	_, err := runner.Run(context.Background(), tbl, "gene", "stat", testConfig())
	require.Error(t, err)

	var dataErr *DataError
	assert.True(t, errors.As(err, &dataErr))
	assert.Equal(t, 0, engine.calls)
}

func TestRunner_UnsupportedCombination(t *testing.T) {
	engine := &stubEngine{result: gseapyRawResult()}
	runner := NewRunner(engine)

	cfg := testConfig()
	cfg.Organism = "Arabidopsis thaliana"

	tbl := deTable([]string{"gene", "stat"}, []string{"Actb", "0.8"})

	_, err := runner.Run(context.Background(), tbl, "gene", "stat", cfg)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, engine.calls)
}

func TestRunner_MissingScoreColumn(t *testing.T) {
	runner := NewRunner(&stubEngine{})

	tbl := deTable([]string{"gene", "stat"}, []string{"Actb", "0.8"})

	_, err := runner.Run(context.Background(), tbl, "gene", "log2FoldChange", testConfig())
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "log2FoldChange", schemaErr.Column)
}

func TestRunner_EngineErrorSurfaced(t *testing.T) {
	engineErr := &DependencyMissingError{Dependency: "gseapy"}
	runner := NewRunner(&stubEngine{err: engineErr})

	tbl := deTable([]string{"gene", "stat"}, []string{"Actb", "0.8"})

	_, err := runner.Run(context.Background(), tbl, "gene", "stat", testConfig())
	var depErr *DependencyMissingError
	require.True(t, errors.As(err, &depErr))
}

func TestRunner_EmptyEngineResultIsValid(t *testing.T) {
	engine := &stubEngine{result: &RawResult{Columns: []string{"Term", "NES"}}}
	runner := NewRunner(engine)

	tbl := deTable([]string{"gene", "stat"}, []string{"Actb", "0.8"})

	res, err := runner.Run(context.Background(), tbl, "gene", "stat", testConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}
