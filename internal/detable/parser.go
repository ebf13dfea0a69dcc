package detable

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError represents an error during DE table parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("de table parse error at line %d: %s", e.Line, e.Message)
}

// ReadFile reads a DE results table from path. Use "-" for stdin.
// Gzipped input is detected from magic bytes; the field separator is chosen
// from the file extension (.tsv/.txt are tab-separated, everything else
// comma) with a content sniff fallback for stdin and unknown extensions.
func ReadFile(path string) (*Table, error) {
	if path == "-" {
		return Read(os.Stdin, 0)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open de table: %w", err)
	}
	defer file.Close()

	return Read(file, DetectSep(path))
}

// DetectSep returns the field separator implied by the file extension, or 0
// if the extension is not recognized (callers then sniff the content).
func DetectSep(path string) rune {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")

	switch {
	case strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		return '\t'
	case strings.HasSuffix(lower, ".csv"):
		return ','
	}
	return 0
}

// Read reads a DE results table from r using the given separator. A zero
// separator means sniff: tab if the header line contains a tab, comma
// otherwise. Gzipped content is handled transparently.
func Read(r io.Reader, sep rune) (*Table, error) {
	br := bufio.NewReader(r)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		br = bufio.NewReader(gz)
	}

	if sep == 0 {
		sep = sniffSep(br)
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var t Table
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line + 1, Message: err.Error()}
		}
		line++

		// Skip blank lines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if t.Columns == nil {
			t.Columns = record
			continue
		}
		if len(record) > len(t.Columns) {
			return nil, &ParseError{
				Line:    line,
				Message: fmt.Sprintf("expected at most %d columns, found %d", len(t.Columns), len(record)),
			}
		}
		t.Rows = append(t.Rows, record)
	}

	if t.Columns == nil {
		return nil, &ParseError{Line: line, Message: "no header line found"}
	}

	return &t, nil
}

// sniffSep inspects the buffered start of the input and picks tab if the
// first line contains one, comma otherwise.
func sniffSep(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.ContainsRune(peek, '\t') {
		return '\t'
	}
	return ','
}
