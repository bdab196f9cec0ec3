// Package schema defines the declarative table model used by engine clauses
// and the DDL renderer: tables, columns, opaque SQL expressions, and the
// two-phase symbolic references that bind against a table once its column set
// is final.
//
// The central idea is the declare-then-attach protocol. A schema author
// declares engine configuration with symbolic column names (or column
// handles) before the table exists; the table-construction process later
// calls Attach exactly once, which resolves every symbol against the real
// column collection. Accessors called before Attach fail with ErrNotAttached
// rather than silently returning nothing, so protocol violations surface
// immediately.
package schema

import "fmt"

// Column is a single table column. Type is an opaque ClickHouse type string
// (e.g., "Date", "UInt32", "String"); this package never interprets it.
type Column struct {
	Name string
	Type string
}

// Table is an ordered column collection with name lookup. Columns are added
// in declaration order, which is the order DDL renderers emit them in.
type Table struct {
	// Database is the database the table belongs to; may be empty for
	// single-database deployments where DDL uses bare table names.
	Database string

	// Name is the table name (unquoted; quoting happens at render time).
	Name string

	cols   []*Column
	byName map[string]*Column
}

// NewTable builds a Table from an ordered column list. Column names must be
// unique; a duplicate is a declaration error, not something to resolve later.
func NewTable(database, name string, cols ...*Column) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("schema: table name must not be empty")
	}
	t := &Table{
		Database: database,
		Name:     name,
		byName:   make(map[string]*Column, len(cols)),
	}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column to the table. It fails on empty or duplicate
// column names.
func (t *Table) AddColumn(c *Column) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("schema: table %s: column name must not be empty", t.Name)
	}
	if _, dup := t.byName[c.Name]; dup {
		return fmt.Errorf("schema: table %s: duplicate column %q", t.Name, c.Name)
	}
	t.cols = append(t.cols, c)
	t.byName[c.Name] = c
	return nil
}

// Column returns the column with the given name, if present.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Columns returns the table's columns in declaration order. The returned
// slice is shared; callers must not modify it.
func (t *Table) Columns() []*Column {
	return t.cols
}

// FQN returns the dotted database-qualified table name, or the bare table
// name when Database is empty.
func (t *Table) FQN() string {
	if t.Database == "" {
		return t.Name
	}
	return t.Database + "." + t.Name
}
