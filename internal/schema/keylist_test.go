package schema

import (
	"errors"
	"testing"
)

/*
Unit tests for KeyList.

The central property is the round-trip: for any ordered mix of expressions
and column references, Rendered() has one slot per input, expressions occupy
their original positions unchanged, and column positions hold the resolved
column object. Resolution is all-or-nothing.
*/

// TestKeyListRoundTrip validates position-preserving rendering for mixed
// input shapes.
func TestKeyListRoundTrip(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	handle, _ := tbl.Column("sign")

	l, err := NewKeyList(
		Expr("intHash32(user_id)"),
		"user_id",
		Expr("toStartOfHour(ts)"),
		"event_date",
		handle,
	)
	if err != nil {
		t.Fatalf("NewKeyList: %v", err)
	}
	if l.Len() != 5 {
		t.Fatalf("Len = %d; want 5", l.Len())
	}
	if err := l.Attach(tbl); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	items, err := l.Rendered()
	if err != nil {
		t.Fatalf("Rendered: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("Rendered length = %d; want 5", len(items))
	}

	wantSQL := []string{"intHash32(user_id)", "user_id", "toStartOfHour(ts)", "event_date", "sign"}
	wantExpr := []bool{true, false, true, false, false}
	for i, it := range items {
		if it.IsExpr() != wantExpr[i] {
			t.Fatalf("slot %d: IsExpr = %v; want %v", i, it.IsExpr(), wantExpr[i])
		}
		if it.SQL() != wantSQL[i] {
			t.Fatalf("slot %d: SQL = %q; want %q", i, it.SQL(), wantSQL[i])
		}
	}
	// Column slots hold the table's actual column objects.
	if col, _ := tbl.Column("user_id"); items[1].Col != col {
		t.Fatalf("slot 1 does not hold the table's user_id column")
	}
	if items[4].Col != handle {
		t.Fatalf("slot 4 does not hold the declared handle's column")
	}
}

// TestKeyListAttachErrors validates all-or-nothing resolution and the
// protocol errors.
func TestKeyListAttachErrors(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	t.Run("unknown_column_is_all_or_nothing", func(t *testing.T) {
		t.Parallel()
		local := testTable(t)
		l, _ := NewKeyList("user_id", "missing", "event_date")
		err := l.Attach(local)
		var uc *UnknownColumnError
		if !errors.As(err, &uc) || uc.Column != "missing" {
			t.Fatalf("Attach = %v; want *UnknownColumnError for missing", err)
		}
		if _, err := l.Rendered(); !errors.Is(err, ErrNotAttached) {
			t.Fatalf("Rendered after failed attach = %v; want ErrNotAttached", err)
		}
		// The failed attach left no binding; a retry against a table
		// that has the column succeeds.
		if err := local.AddColumn(&Column{Name: "missing", Type: "UInt8"}); err != nil {
			t.Fatalf("AddColumn: %v", err)
		}
		if err := l.Attach(local); err != nil {
			t.Fatalf("re-attach after fix: %v", err)
		}
	})

	t.Run("rendered_before_attach", func(t *testing.T) {
		t.Parallel()
		l, _ := NewKeyList("user_id")
		if _, err := l.Rendered(); !errors.Is(err, ErrNotAttached) {
			t.Fatalf("Rendered = %v; want ErrNotAttached", err)
		}
	})

	t.Run("double_attach", func(t *testing.T) {
		t.Parallel()
		l, _ := NewKeyList("user_id")
		if err := l.Attach(tbl); err != nil {
			t.Fatalf("first Attach: %v", err)
		}
		if err := l.Attach(tbl); !errors.Is(err, ErrAlreadyAttached) {
			t.Fatalf("second Attach = %v; want ErrAlreadyAttached", err)
		}
	})

	t.Run("bad_declarations", func(t *testing.T) {
		t.Parallel()
		for _, in := range []any{"", (*Column)(nil), 3.14} {
			_, err := NewKeyList("user_id", in)
			var ic *InvalidConfigurationError
			if !errors.As(err, &ic) {
				t.Fatalf("NewKeyList(..., %v) = %v; want *InvalidConfigurationError", in, err)
			}
		}
	})
}
