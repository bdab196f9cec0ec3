// Package emit renders DDL for a set of built tables and delivers it either
// to one .sql file per table or to a single writer. Rendering each table is
// independent, so the work fans out over a bounded errgroup; results are
// collected by index, which keeps the output order identical to the
// declaration order regardless of scheduling.
package emit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/config"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/ddl"
)

// DefaultWorkers bounds rendering concurrency when Options.Workers is unset.
const DefaultWorkers = 4

// Options controls rendering and delivery.
type Options struct {
	// OutDir, when non-empty, selects file delivery: one <table>.sql per
	// table, created with 0o644. When empty, WriteTo streams everything
	// to a single writer in declaration order.
	OutDir string

	// Workers bounds concurrent rendering; values < 1 fall back to
	// DefaultWorkers.
	Workers int

	// Fingerprint appends a "-- fingerprint: <hex>" trailer to each
	// statement so deploy tooling can detect drift without re-rendering.
	Fingerprint bool
}

// Rendered is the DDL produced for one table.
type Rendered struct {
	// Name is the bare table name (used for file naming).
	Name string

	// SQL is the complete CREATE TABLE statement.
	SQL string

	// Fingerprint is the statement fingerprint, set only when requested.
	Fingerprint string
}

// RenderAll renders every built table, preserving declaration order in the
// returned slice. The context cancels outstanding work on first error.
func RenderAll(ctx context.Context, tables []config.BuiltTable, opts Options) ([]Rendered, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	out := make([]Rendered, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, bt := range tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sql, err := ddl.BuildCreateTableSQL(bt.Table, bt.Engine)
			if err != nil {
				return err
			}
			r := Rendered{Name: bt.Table.Name, SQL: sql}
			if opts.Fingerprint {
				r.Fingerprint = ddl.Fingerprint(sql)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteFiles renders all tables and writes one file per table under
// opts.OutDir, creating the directory if needed.
func WriteFiles(ctx context.Context, tables []config.BuiltTable, opts Options) error {
	if opts.OutDir == "" {
		return fmt.Errorf("emit: out dir must not be empty")
	}
	rendered, err := RenderAll(ctx, tables, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("emit: create out dir: %w", err)
	}
	for _, r := range rendered {
		path := filepath.Join(opts.OutDir, r.Name+".sql")
		if err := os.WriteFile(path, []byte(statementText(r)), 0o644); err != nil {
			return fmt.Errorf("emit: write %s: %w", path, err)
		}
	}
	return nil
}

// WriteTo renders all tables and streams the statements to w in declaration
// order, separated by blank lines.
func WriteTo(ctx context.Context, w io.Writer, tables []config.BuiltTable, opts Options) error {
	rendered, err := RenderAll(ctx, tables, opts)
	if err != nil {
		return err
	}
	for i, r := range rendered {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, statementText(r)); err != nil {
			return err
		}
	}
	return nil
}

// statementText joins the statement with its optional fingerprint trailer.
func statementText(r Rendered) string {
	var sb strings.Builder
	sb.WriteString(r.SQL)
	sb.WriteString("\n")
	if r.Fingerprint != "" {
		sb.WriteString("-- fingerprint: ")
		sb.WriteString(r.Fingerprint)
		sb.WriteString("\n")
	}
	return sb.String()
}
