package schema

import "fmt"

// ColumnRef is a symbolic reference to a single table column. It is declared
// from either a bare column name or a column handle, and resolved exactly
// once when the owning engine descriptor is attached to its table.
//
// Before Attach, Column fails with ErrNotAttached. After a successful
// Attach, the resolved column is immutable.
type ColumnRef struct {
	name     string
	resolved *Column
}

// NewColumnRef builds a reference from a column name (string) or a column
// handle (*Column). Any other input type is a declaration error.
//
// A handle is still resolved at attach time by name, which verifies the
// column actually belongs to the attached table.
func NewColumnRef(ref any) (*ColumnRef, error) {
	switch v := ref.(type) {
	case string:
		if v == "" {
			return nil, &InvalidConfigurationError{Field: "column reference", Reason: "empty column name"}
		}
		return &ColumnRef{name: v}, nil
	case *Column:
		if v == nil || v.Name == "" {
			return nil, &InvalidConfigurationError{Field: "column reference", Reason: "nil column handle"}
		}
		return &ColumnRef{name: v.Name}, nil
	default:
		return nil, &InvalidConfigurationError{
			Field:  "column reference",
			Reason: fmt.Sprintf("unsupported reference type %T", ref),
		}
	}
}

// Attach resolves the reference against t's column collection. It fails with
// *UnknownColumnError when no matching column exists, and with
// ErrAlreadyAttached when called twice.
func (r *ColumnRef) Attach(t *Table) error {
	if r.resolved != nil {
		return ErrAlreadyAttached
	}
	c, ok := t.Column(r.name)
	if !ok {
		return &UnknownColumnError{Table: t.Name, Column: r.name}
	}
	r.resolved = c
	return nil
}

// Column returns the resolved column, or ErrNotAttached before Attach.
func (r *ColumnRef) Column() (*Column, error) {
	if r.resolved == nil {
		return nil, fmt.Errorf("column %q: %w", r.name, ErrNotAttached)
	}
	return r.resolved, nil
}
