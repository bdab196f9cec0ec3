package emit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/config"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/ddl"
)

/*
Unit tests for the batch emitter.

Rendering fans out over a bounded worker pool, so the tests use more tables
than workers and assert that output order still matches declaration order.
*/

// builtTables assembles a set of n Memory-engine tables named t0..t(n-1).
func builtTables(t *testing.T, n int) []config.BuiltTable {
	t.Helper()
	f := config.File{Database: "analytics"}
	for i := 0; i < n; i++ {
		f.Tables = append(f.Tables, config.TableDecl{
			Name:    "t" + string(rune('0'+i)),
			Columns: []config.ColumnDecl{{Name: "x", Type: "UInt8"}},
			Engine:  config.EngineDecl{Kind: "memory"},
		})
	}
	built, err := config.Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return built
}

// TestRenderAllPreservesOrder validates declaration-order results under
// concurrency.
func TestRenderAllPreservesOrder(t *testing.T) {
	t.Parallel()

	tables := builtTables(t, 8)
	rendered, err := RenderAll(context.Background(), tables, Options{Workers: 3})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(rendered) != 8 {
		t.Fatalf("rendered %d; want 8", len(rendered))
	}
	for i, r := range rendered {
		wantName := "t" + string(rune('0'+i))
		if r.Name != wantName {
			t.Fatalf("slot %d name = %q; want %q", i, r.Name, wantName)
		}
		if !strings.Contains(r.SQL, "`analytics`.`"+wantName+"`") {
			t.Fatalf("slot %d SQL does not target %s:\n%s", i, wantName, r.SQL)
		}
		if r.Fingerprint != "" {
			t.Fatalf("fingerprint set without being requested")
		}
	}
}

// TestRenderAllFingerprint validates the opt-in fingerprint field.
func TestRenderAllFingerprint(t *testing.T) {
	t.Parallel()

	tables := builtTables(t, 2)
	rendered, err := RenderAll(context.Background(), tables, Options{Fingerprint: true})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	for _, r := range rendered {
		if r.Fingerprint != ddl.Fingerprint(r.SQL) {
			t.Fatalf("fingerprint mismatch for %s", r.Name)
		}
	}
}

// TestWriteFiles validates one file per table with the expected content.
func TestWriteFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tables := builtTables(t, 3)
	opts := Options{OutDir: filepath.Join(dir, "ddl"), Fingerprint: true}
	if err := WriteFiles(context.Background(), tables, opts); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}

	for i := 0; i < 3; i++ {
		name := "t" + string(rune('0'+i))
		b, err := os.ReadFile(filepath.Join(opts.OutDir, name+".sql"))
		if err != nil {
			t.Fatalf("read %s.sql: %v", name, err)
		}
		content := string(b)
		if !strings.HasPrefix(content, "CREATE TABLE IF NOT EXISTS") {
			t.Fatalf("%s.sql does not start with CREATE TABLE:\n%s", name, content)
		}
		if !strings.Contains(content, "-- fingerprint: ") {
			t.Fatalf("%s.sql lacks fingerprint trailer:\n%s", name, content)
		}
		if !strings.HasSuffix(content, "\n") {
			t.Fatalf("%s.sql lacks trailing newline", name)
		}
	}
}

// TestWriteTo validates the single-stream form: statements in declaration
// order, separated by blank lines.
func TestWriteTo(t *testing.T) {
	t.Parallel()

	tables := builtTables(t, 3)
	var sb strings.Builder
	if err := WriteTo(context.Background(), &sb, tables, Options{}); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := sb.String()

	last := -1
	for i := 0; i < 3; i++ {
		name := "`t" + string(rune('0'+i)) + "`"
		idx := strings.Index(out, name)
		if idx < 0 {
			t.Fatalf("output lacks table %s:\n%s", name, out)
		}
		if idx < last {
			t.Fatalf("table %s out of declaration order", name)
		}
		last = idx
	}
	if got := strings.Count(out, "CREATE TABLE"); got != 3 {
		t.Fatalf("statement count = %d; want 3", got)
	}
}

// TestWriteFilesRequiresOutDir validates the guard on file delivery.
func TestWriteFilesRequiresOutDir(t *testing.T) {
	t.Parallel()

	err := WriteFiles(context.Background(), nil, Options{})
	if err == nil || !strings.Contains(err.Error(), "out dir") {
		t.Fatalf("WriteFiles = %v; want out dir error", err)
	}
}
