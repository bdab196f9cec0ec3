package schema

import (
	"errors"
	"strings"
	"testing"
)

/*
Unit tests for ColumnRef and the declare-then-attach protocol.

These tests use table-driven cases to validate:
  - declaration from names and column handles
  - resolution against the attached table
  - the error taxonomy: unknown columns, pre-attach access, double attach

No third-party dependencies are used.
*/

// testTable builds the fixture table used across this package's tests.
func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("analytics", "events",
		&Column{Name: "event_date", Type: "Date"},
		&Column{Name: "user_id", Type: "UInt32"},
		&Column{Name: "sign", Type: "Int8"},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

// TestColumnRefResolve validates resolution from both reference shapes.
func TestColumnRefResolve(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	handle, _ := tbl.Column("user_id")
	cases := []struct {
		name string
		ref  any
		want string
	}{
		{name: "by_name", ref: "event_date", want: "event_date"},
		{name: "by_handle", ref: handle, want: "user_id"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r, err := NewColumnRef(c.ref)
			if err != nil {
				t.Fatalf("NewColumnRef: %v", err)
			}
			if err := r.Attach(tbl); err != nil {
				t.Fatalf("Attach: %v", err)
			}
			col, err := r.Column()
			if err != nil {
				t.Fatalf("Column: %v", err)
			}
			if col.Name != c.want {
				t.Fatalf("resolved %q; want %q", col.Name, c.want)
			}
			if got, _ := tbl.Column(c.want); got != col {
				t.Fatalf("resolved column is not the table's column object")
			}
		})
	}
}

// TestColumnRefErrors validates the protocol error taxonomy.
func TestColumnRefErrors(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	t.Run("column_before_attach", func(t *testing.T) {
		t.Parallel()
		r, _ := NewColumnRef("event_date")
		if _, err := r.Column(); !errors.Is(err, ErrNotAttached) {
			t.Fatalf("Column before attach = %v; want ErrNotAttached", err)
		}
	})

	t.Run("unknown_column", func(t *testing.T) {
		t.Parallel()
		r, _ := NewColumnRef("missing")
		err := r.Attach(tbl)
		var uc *UnknownColumnError
		if !errors.As(err, &uc) {
			t.Fatalf("Attach = %v; want *UnknownColumnError", err)
		}
		if uc.Column != "missing" || uc.Table != "events" {
			t.Fatalf("error context = %+v; want column missing, table events", uc)
		}
		// A failed attach leaves the reference unbound.
		if _, err := r.Column(); !errors.Is(err, ErrNotAttached) {
			t.Fatalf("Column after failed attach = %v; want ErrNotAttached", err)
		}
	})

	t.Run("double_attach", func(t *testing.T) {
		t.Parallel()
		r, _ := NewColumnRef("user_id")
		if err := r.Attach(tbl); err != nil {
			t.Fatalf("first Attach: %v", err)
		}
		if err := r.Attach(tbl); !errors.Is(err, ErrAlreadyAttached) {
			t.Fatalf("second Attach = %v; want ErrAlreadyAttached", err)
		}
	})

	t.Run("bad_declaration", func(t *testing.T) {
		t.Parallel()
		for _, ref := range []any{"", (*Column)(nil), 42} {
			_, err := NewColumnRef(ref)
			var ic *InvalidConfigurationError
			if !errors.As(err, &ic) {
				t.Fatalf("NewColumnRef(%v) = %v; want *InvalidConfigurationError", ref, err)
			}
		}
	})
}

// TestTableColumns validates the table model itself: ordering, lookup, and
// duplicate rejection.
func TestTableColumns(t *testing.T) {
	t.Parallel()

	tbl := testTable(t)
	var names []string
	for _, c := range tbl.Columns() {
		names = append(names, c.Name)
	}
	if got, want := strings.Join(names, ","), "event_date,user_id,sign"; got != want {
		t.Fatalf("column order = %s; want %s", got, want)
	}
	if tbl.FQN() != "analytics.events" {
		t.Fatalf("FQN = %q; want analytics.events", tbl.FQN())
	}

	if err := tbl.AddColumn(&Column{Name: "user_id", Type: "UInt64"}); err == nil {
		t.Fatalf("expected duplicate column error")
	}
	if err := tbl.AddColumn(&Column{}); err == nil {
		t.Fatalf("expected empty column name error")
	}

	bare, err := NewTable("", "local", &Column{Name: "x", Type: "String"})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if bare.FQN() != "local" {
		t.Fatalf("bare FQN = %q; want local", bare.FQN())
	}
}
