// Package main provides the vibe-gsea command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vibe-gsea",
		Short: "Preranked GSEA over differential expression results",
		Long: `vibe-gsea runs preranked Gene Set Enrichment Analysis (GSEA) on a
differential expression results table and reports enriched pathways as a
tidy table.

The enrichment statistics are computed by the gseapy Python package, which
must be available on PATH together with a Python interpreter.`,
		Example: `  # Run GSEA on DESeq2 results, ranking by the Wald statistic
  vibe-gsea run --gene-column gene --score-column stat de_results.csv

  # Mouse KEGG pathways, FDR <= 0.05 only, written as TSV
  vibe-gsea run --organism "Mus musculus" --collection KEGG --fdr 0.05 \
      -o pathways.tsv de_results.tsv

  # Preview a table before running
  vibe-gsea inspect de_results.csv`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd(&verbose))
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newGenesetsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.vibe-gsea.yaml if it exists.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	cfgFile := filepath.Join(home, ".vibe-gsea.yaml")
	if _, err := os.Stat(cfgFile); err != nil {
		return nil
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

// newLogger builds a console logger; warnings only unless verbose.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
