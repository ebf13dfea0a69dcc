// Package gsea implements preranked Gene Set Enrichment Analysis as a
// pipeline: prepare a ranked gene list from a DE results table, run the
// enrichment engine, and normalize the engine output into a tidy result.
package gsea

import (
	"fmt"
	"sort"
)

type genesetKey struct {
	organism   string
	collection string
}

// genesetLibraries maps (organism, collection) to the engine's gene set
// library name. Keys are matched exactly (case-sensitive).
var genesetLibraries = map[genesetKey]string{
	{"Homo sapiens", "HALLMARK"}: "MSigDB_Hallmark_2020",
	{"Homo sapiens", "KEGG"}:     "KEGG_2016",
	{"Mus musculus", "HALLMARK"}: "MSigDB_Hallmark_2020", // via orthologs; OK for demo
	{"Mus musculus", "KEGG"}:     "KEGG_2019_Mouse",
}

// GeneSetCombination is a supported (organism, collection) pair and the
// gene set library it resolves to.
type GeneSetCombination struct {
	Organism   string
	Collection string
	Library    string
}

// RegisteredGeneSets returns all supported combinations sorted by organism,
// then collection.
func RegisteredGeneSets() []GeneSetCombination {
	combos := make([]GeneSetCombination, 0, len(genesetLibraries))
	for k, lib := range genesetLibraries {
		combos = append(combos, GeneSetCombination{
			Organism:   k.organism,
			Collection: k.collection,
			Library:    lib,
		})
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Organism != combos[j].Organism {
			return combos[i].Organism < combos[j].Organism
		}
		return combos[i].Collection < combos[j].Collection
	})
	return combos
}

// ResolveGeneSets maps (organism, collection) to the engine's gene set
// library name. Returns a ConfigurationError listing all supported
// combinations if the pair is not registered.
func ResolveGeneSets(organism, collection string) (string, error) {
	lib, ok := genesetLibraries[genesetKey{organism, collection}]
	if !ok {
		var available []string
		for _, c := range RegisteredGeneSets() {
			available = append(available, fmt.Sprintf("%s / %s", c.Organism, c.Collection))
		}
		return "", &ConfigurationError{
			Organism:   organism,
			Collection: collection,
			Available:  available,
		}
	}
	return lib, nil
}

// Config holds the parameters for a single GSEA run.
type Config struct {
	Organism          string
	GeneSetCollection string
	MinSize           int
	MaxSize           int
	PermutationNum    int
	Seed              int
}

// DefaultConfig returns a Config with the standard defaults.
func DefaultConfig() Config {
	return Config{
		MinSize:        15,
		MaxSize:        500,
		PermutationNum: 100,
		Seed:           42,
	}
}

// GeneSets resolves the configured organism/collection to a gene set
// library name.
func (c Config) GeneSets() (string, error) {
	return ResolveGeneSets(c.Organism, c.GeneSetCollection)
}

// Params returns the engine parameters for this configuration.
func (c Config) Params() Params {
	return Params{
		MinSize:        c.MinSize,
		MaxSize:        c.MaxSize,
		PermutationNum: c.PermutationNum,
		Seed:           c.Seed,
	}
}
