// Package gseapy binds the enrichment engine interface to the gseapy Python
// package, invoked as a subprocess. The ranked list is streamed over stdin
// and the result table comes back as JSON over stdout, so nothing is staged
// to disk.
package gseapy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gsea/internal/gsea"
)

// exit code the helper script uses when gseapy (or pandas) cannot be imported
const exitMissingDependency = 3

// prerankScript runs gseapy.prerank over a gene\tscore list on stdin and
// prints the res2d summary table as JSON. argv: gene_sets min_size max_size
// permutation_num seed.
const prerankScript = `
import json, sys
try:
    import gseapy
    import pandas as pd
except ImportError as exc:
    sys.stderr.write("missing dependency: %s\n" % exc)
    sys.exit(3)

rnk = pd.read_csv(sys.stdin, sep="\t", header=None, index_col=0).squeeze("columns")
res = gseapy.prerank(
    rnk=rnk,
    gene_sets=sys.argv[1],
    outdir=None,
    min_size=int(sys.argv[2]),
    max_size=int(sys.argv[3]),
    permutation_num=int(sys.argv[4]),
    seed=int(sys.argv[5]),
    verbose=False,
)
df = res.res2d.reset_index(drop=True)
out = {
    "columns": [str(c) for c in df.columns],
    "rows": [["" if v is None else str(v) for v in row] for row in df.itertuples(index=False)],
}
sys.stdout.write(json.dumps(out))
`

// Engine runs preranked GSEA through gseapy.
type Engine struct {
	python string
	logger *zap.Logger
}

// New creates a gseapy engine that locates a Python interpreter on PATH.
func New() *Engine {
	return &Engine{logger: zap.NewNop()}
}

// SetPython overrides the interpreter used to run gseapy.
func (e *Engine) SetPython(path string) {
	e.python = path
}

// SetLogger sets the logger for diagnostic messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// RunPrerank invokes gseapy.prerank with the given ranking and parameters.
// Interpreter or gseapy absence is reported as a DependencyMissingError;
// availability is checked here, at call time, so the rest of the pipeline
// stays usable without Python installed.
func (e *Engine) RunPrerank(ctx context.Context, rnk gsea.Ranking, geneSets string, p gsea.Params) (*gsea.RawResult, error) {
	python, err := e.findPython()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, python, "-c", prerankScript,
		geneSets,
		strconv.Itoa(p.MinSize),
		strconv.Itoa(p.MaxSize),
		strconv.Itoa(p.PermutationNum),
		strconv.Itoa(p.Seed),
	)
	cmd.Stdin = bytes.NewReader(marshalRanking(rnk))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("invoking gseapy prerank",
		zap.String("python", python),
		zap.String("gene_sets", geneSets),
		zap.Int("genes", len(rnk)))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitMissingDependency {
			return nil, &gsea.DependencyMissingError{
				Dependency: "gseapy",
				Hint:       "make the gseapy package available to the Python interpreter on PATH",
			}
		}
		return nil, fmt.Errorf("gseapy prerank failed: %w (%s)", err, firstLine(stderr.String()))
	}

	return decodeResult(stdout.Bytes())
}

// findPython locates the interpreter, preferring an explicit override.
func (e *Engine) findPython() (string, error) {
	if e.python != "" {
		if _, err := exec.LookPath(e.python); err != nil {
			return "", &gsea.DependencyMissingError{
				Dependency: "python",
				Hint:       fmt.Sprintf("interpreter %q is not executable", e.python),
			}
		}
		return e.python, nil
	}
	for _, candidate := range []string{"python3", "python"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", &gsea.DependencyMissingError{
		Dependency: "python",
		Hint:       "a Python interpreter with the gseapy package must be on PATH",
	}
}

// marshalRanking serializes a ranking as gene\tscore lines.
func marshalRanking(rnk gsea.Ranking) []byte {
	var buf bytes.Buffer
	for _, e := range rnk {
		buf.WriteString(e.Gene)
		buf.WriteByte('\t')
		buf.WriteString(strconv.FormatFloat(e.Score, 'g', -1, 64))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// decodeResult parses the helper script's JSON output into a RawResult.
func decodeResult(data []byte) (*gsea.RawResult, error) {
	var payload struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode gseapy result: %w", err)
	}
	return &gsea.RawResult{Columns: payload.Columns, Rows: payload.Rows}, nil
}

// firstLine returns the first non-empty line of s, for compact error text.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no error output"
}
