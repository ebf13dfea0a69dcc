// Package session holds the most recent enrichment result for one
// interactive session. Results live in an in-memory DuckDB database so the
// collaborator layer can slice them (FDR cutoff, top N) with SQL; a new run
// replaces the previous result wholesale.
package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-gsea/internal/gsea"
)

// Store manages the single-slot result cache.
type Store struct {
	db     *sql.DB
	latest *gsea.Result
}

// Open creates an in-memory session store.
func Open() (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the result table. idx is the row's position in the
// tidy result, which is already sorted by NES.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS result_rows (
		idx INTEGER,
		pathway VARCHAR,
		nes DOUBLE,
		fdr DOUBLE,
		direction VARCHAR,
		gene_ratio DOUBLE,
		num_genes DOUBLE,
		geneset_size DOUBLE,
		lead_genes VARCHAR,
		PRIMARY KEY (idx)
	)`)
	return err
}

// Replace installs res as the session's result, discarding any previous one
// (last-write-wins). Rows are batch-inserted with the DuckDB Appender API.
func (s *Store) Replace(res *gsea.Result) error {
	if _, err := s.db.Exec("DELETE FROM result_rows"); err != nil {
		return fmt.Errorf("clear result rows: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "result_rows")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, row := range res.Rows {
		if err := appender.AppendRow(
			int32(i), row.Pathway, row.NES, row.FDR, row.Direction,
			row.GeneRatio, row.NumGenes, row.GenesetSize, row.LeadGenes,
		); err != nil {
			return fmt.Errorf("append result row: %w", err)
		}
	}

	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush result rows: %w", err)
	}

	s.latest = res
	return nil
}

// Latest returns the session's current result, or nil if no run has
// completed yet.
func (s *Store) Latest() *gsea.Result {
	return s.latest
}

// Significant returns the rows of the latest result whose FDR is at or
// below the cutoff, in result order. Rows with an unavailable (NaN) FDR are
// excluded, matching the filter semantics of the original app.
func (s *Store) Significant(maxFDR float64) (*gsea.Result, error) {
	return s.subset("SELECT idx FROM result_rows WHERE fdr <= ? ORDER BY idx", maxFDR)
}

// Top returns the first n rows of the latest result (which is sorted by NES
// descending). n <= 0 returns all rows.
func (s *Store) Top(n int) (*gsea.Result, error) {
	if n <= 0 {
		return s.latest, nil
	}
	return s.subset("SELECT idx FROM result_rows ORDER BY idx LIMIT ?", n)
}

// subset runs an idx-returning query and projects the latest result onto
// those rows, preserving extra columns.
func (s *Store) subset(query string, args ...any) (*gsea.Result, error) {
	if s.latest == nil {
		return nil, fmt.Errorf("no result in session")
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query result rows: %w", err)
	}
	defer rows.Close()

	out := &gsea.Result{
		HasLeadGenes: s.latest.HasLeadGenes,
		ExtraColumns: s.latest.ExtraColumns,
	}
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		out.Rows = append(out.Rows, s.latest.Rows[idx])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return out, nil
}
