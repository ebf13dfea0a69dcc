package gsea

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates an unsupported organism/collection combination.
// Available lists every registered "organism / collection" pair.
type ConfigurationError struct {
	Organism   string
	Collection string
	Available  []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no gene set mapping for organism %q, collection %q. Available combinations: %s",
		e.Organism, e.Collection, strings.Join(e.Available, ", "))
}

// SchemaError indicates a required column is absent from an input table or
// from the raw engine output. Found holds the columns actually present when
// that helps diagnose the mismatch.
type SchemaError struct {
	Column string
	Found  []string
}

func (e *SchemaError) Error() string {
	if len(e.Found) > 0 {
		return fmt.Sprintf("column %q not found (columns present: %s)", e.Column, strings.Join(e.Found, ", "))
	}
	return fmt.Sprintf("column %q not found", e.Column)
}

// DataError indicates structurally valid input that yields no usable data,
// e.g. a ranking that is empty after filtering.
type DataError struct {
	Message string
}

func (e *DataError) Error() string {
	return e.Message
}

// DependencyMissingError indicates the external enrichment engine is
// unavailable at call time.
type DependencyMissingError struct {
	Dependency string
	Hint       string
}

func (e *DependencyMissingError) Error() string {
	msg := fmt.Sprintf("%s is required to run GSEA but is not available", e.Dependency)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}
