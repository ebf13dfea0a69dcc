package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gsea/internal/detable"
	"github.com/inodb/vibe-gsea/internal/engine/gseapy"
	"github.com/inodb/vibe-gsea/internal/gsea"
	"github.com/inodb/vibe-gsea/internal/output"
	"github.com/inodb/vibe-gsea/internal/session"
)

// scoreColumnCandidates are tried in order when --score-column is omitted.
var scoreColumnCandidates = []string{"log2FoldChange", "log2FC", "stat", "score"}

func newRunCmd(verbose *bool) *cobra.Command {
	var (
		geneCol      string
		scoreCol     string
		organism     string
		collection   string
		minSize      int
		maxSize      int
		permutations int
		seed         int
		fdrCutoff    float64
		topN         int
		outputFile   string
		format       string
		python       string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] <de-results-file>",
		Short: "Run preranked GSEA on a DE results table",
		Long: `Run preranked GSEA on a CSV or TSV differential expression results table.

The table needs a gene identifier column and a numeric score column (for
example log2FoldChange or the test statistic). Genes are ranked by score,
highest first, and tested against the chosen gene set collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for key, flag := range map[string]string{
				"organism":     "organism",
				"collection":   "collection",
				"min_size":     "min-size",
				"max_size":     "max-size",
				"permutations": "permutations",
				"seed":         "seed",
			} {
				viper.BindPFlag(key, cmd.Flags().Lookup(flag))
			}

			cfg := gsea.Config{
				Organism:          viper.GetString("organism"),
				GeneSetCollection: viper.GetString("collection"),
				MinSize:           viper.GetInt("min_size"),
				MaxSize:           viper.GetInt("max_size"),
				PermutationNum:    viper.GetInt("permutations"),
				Seed:              viper.GetInt("seed"),
			}

			opts := runOptions{
				input:      args[0],
				geneCol:    geneCol,
				scoreCol:   scoreCol,
				cfg:        cfg,
				filterFDR:  cmd.Flags().Changed("fdr"),
				fdrCutoff:  fdrCutoff,
				topN:       topN,
				outputFile: outputFile,
				format:     format,
				python:     python,
			}
			return runRun(cmd, opts, newLogger(*verbose))
		},
	}

	defaults := gsea.DefaultConfig()

	cmd.Flags().StringVarP(&geneCol, "gene-column", "g", "", "Gene identifier column (default: first column)")
	cmd.Flags().StringVarP(&scoreCol, "score-column", "s", "", "Ranking score column (default: guessed)")
	cmd.Flags().StringVar(&organism, "organism", "Homo sapiens", "Organism")
	cmd.Flags().StringVar(&collection, "collection", "HALLMARK", "Gene set collection")
	cmd.Flags().IntVar(&minSize, "min-size", defaults.MinSize, "Minimum gene set size")
	cmd.Flags().IntVar(&maxSize, "max-size", defaults.MaxSize, "Maximum gene set size")
	cmd.Flags().IntVar(&permutations, "permutations", defaults.PermutationNum, "Number of permutations")
	cmd.Flags().IntVar(&seed, "seed", defaults.Seed, "Random seed for reproducible runs")
	cmd.Flags().Float64Var(&fdrCutoff, "fdr", 0.05, "Only report pathways with FDR q-value at or below this cutoff")
	cmd.Flags().IntVar(&topN, "top", 0, "Limit output to the top N pathways by NES (0 = all)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "tsv", "Output format: tsv, csv")
	cmd.Flags().StringVar(&python, "python", "", "Python interpreter to run gseapy with (default: from PATH)")

	return cmd
}

type runOptions struct {
	input      string
	geneCol    string
	scoreCol   string
	cfg        gsea.Config
	filterFDR  bool
	fdrCutoff  float64
	topN       int
	outputFile string
	format     string
	python     string
}

func runRun(cmd *cobra.Command, opts runOptions, logger *zap.Logger) error {
	defer logger.Sync()

	table, err := detable.ReadFile(opts.input)
	if err != nil {
		return err
	}
	if table.NumRows() == 0 {
		return fmt.Errorf("the DE results file has no data rows")
	}

	geneCol := opts.geneCol
	if geneCol == "" {
		geneCol = table.Columns[0]
	}
	scoreCol := opts.scoreCol
	if scoreCol == "" {
		scoreCol = guessScoreColumn(table)
		if scoreCol == "" {
			return fmt.Errorf("could not guess a score column (tried %s); use --score-column",
				strings.Join(scoreColumnCandidates, ", "))
		}
		logger.Info("guessed score column", zap.String("column", scoreCol))
	}

	engine := gseapy.New()
	engine.SetLogger(logger)
	if opts.python != "" {
		engine.SetPython(opts.python)
	}

	runner := gsea.NewRunner(engine)
	runner.SetLogger(logger)

	logger.Info("running GSEA",
		zap.String("organism", opts.cfg.Organism),
		zap.String("collection", opts.cfg.GeneSetCollection),
		zap.String("gene_column", geneCol),
		zap.String("score_column", scoreCol))

	res, err := runner.Run(cmd.Context(), table, geneCol, scoreCol, opts.cfg)
	if err != nil {
		printHint(err)
		return err
	}

	if len(res.Rows) == 0 {
		logger.Warn("GSEA completed, but no pathways were returned; try relaxing the parameters")
	}

	store, err := session.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Replace(res); err != nil {
		return err
	}

	out := store.Latest()
	if opts.filterFDR {
		sig, err := store.Significant(opts.fdrCutoff)
		if err != nil {
			return err
		}
		if len(sig.Rows) == 0 && len(res.Rows) > 0 {
			logger.Warn("no pathways passed the FDR cutoff; showing full results",
				zap.Float64("fdr_cutoff", opts.fdrCutoff))
		} else {
			out = sig
		}
	}
	if opts.topN > 0 {
		if out == store.Latest() {
			if out, err = store.Top(opts.topN); err != nil {
				return err
			}
		} else if len(out.Rows) > opts.topN {
			out.Rows = out.Rows[:opts.topN]
		}
	}

	dest := os.Stdout
	if opts.outputFile != "" {
		dest, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer dest.Close()
	}

	var writer *output.TableWriter
	switch opts.format {
	case "tsv":
		writer = output.NewTSVWriter(dest)
	case "csv":
		writer = output.NewCSVWriter(dest)
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	if err := writer.WriteResult(out); err != nil {
		return err
	}

	logger.Info("GSEA completed",
		zap.Int("pathways_tested", len(res.Rows)),
		zap.Int("pathways_reported", len(out.Rows)))

	return nil
}

// guessScoreColumn returns the first candidate score column present in the
// table, or "".
func guessScoreColumn(t *detable.Table) string {
	for _, candidate := range scoreColumnCandidates {
		if t.ColumnIndex(candidate) >= 0 {
			return candidate
		}
	}
	return ""
}

// printHint writes an actionable follow-up for well-known failure kinds.
func printHint(err error) {
	var (
		cfgErr    *gsea.ConfigurationError
		schemaErr *gsea.SchemaError
		depErr    *gsea.DependencyMissingError
	)
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintln(os.Stderr, "Hint: run 'vibe-gsea genesets' to list supported organism/collection combinations")
	case errors.As(err, &schemaErr):
		fmt.Fprintln(os.Stderr, "Hint: run 'vibe-gsea inspect <file>' to list the table's columns")
	case errors.As(err, &depErr):
		fmt.Fprintln(os.Stderr, "Hint: vibe-gsea needs a Python interpreter with the gseapy package on PATH")
	}
}
