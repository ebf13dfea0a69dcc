package gsea

import (
	"context"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gsea/internal/detable"
)

// Runner composes the full pipeline: resolve gene sets, prepare the ranked
// list, invoke the enrichment engine, normalize the result. One attempt per
// call, no retries; every failure is surfaced to the caller.
type Runner struct {
	engine Engine
	logger *zap.Logger
}

// NewRunner creates a runner bound to the given enrichment engine.
func NewRunner(engine Engine) *Runner {
	return &Runner{
		engine: engine,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and diagnostic messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run executes one GSEA run over a DE results table and returns the tidy
// result. A result with zero rows is a valid outcome (the engine found no
// enriched pathways), distinct from an error.
//
// The engine is never invoked when the prepared ranking is empty; that case
// is a DataError.
func (r *Runner) Run(ctx context.Context, t *detable.Table, geneCol, scoreCol string, cfg Config) (*Result, error) {
	geneSets, err := cfg.GeneSets()
	if err != nil {
		return nil, err
	}

	rnk, err := Prepare(t, geneCol, scoreCol, false)
	if err != nil {
		return nil, err
	}
	if len(rnk) == 0 {
		return nil, &DataError{
			Message: "ranked list is empty after filtering; check that the score column is numeric and not all missing",
		}
	}

	r.logger.Debug("prepared ranked gene list",
		zap.Int("genes", len(rnk)),
		zap.String("gene_sets", geneSets))

	raw, err := r.engine.RunPrerank(ctx, rnk, geneSets, cfg.Params())
	if err != nil {
		return nil, err
	}

	res, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("normalized enrichment result",
		zap.Int("pathways", len(res.Rows)))

	return res, nil
}
