// Package engine models the storage-engine clause of a ClickHouse CREATE
// TABLE statement: the engine name plus an ordered, positional parameter
// list (columns, composite key tuples, numeric tuning values, replication
// coordinates).
//
// Engines follow the declare-then-attach protocol from internal/schema: a
// descriptor is constructed with symbolic column/expression inputs, attached
// exactly once when the table's column set is final, and only then asked for
// its parameter list. Params is deterministic and side-effect-free, so the
// DDL renderer may call it any number of times.
//
// The engine set is closed: MergeTree and its Collapsing/Summing variants,
// plus Buffer, Memory, and Merge. Nothing here validates parameters against
// ClickHouse's actual grammar; that is the server's job.
package engine

import (
	"strconv"
	"strings"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/schema"
)

// Engine is a storage-engine descriptor. Implementations are the closed set
// of variants in this package.
//
// Attach must be called exactly once, by the table-construction process,
// after the table's final column collection is known; a second call fails
// with schema.ErrAlreadyAttached. Name is determined at construction and
// may be called at any time. Params requires a prior Attach for variants
// that resolve column references.
type Engine interface {
	// Name returns the engine's DDL identifier (e.g., "MergeTree",
	// "ReplicatedMergeTree", "Memory").
	Name() string

	// Attach binds the descriptor and all owned column references to t.
	Attach(t *schema.Table) error

	// Params returns the ordered positional parameter list for the
	// engine clause.
	Params() ([]Param, error)
}

// Param is one positional value in an engine clause. The set of
// implementations is closed: Literal, Int, ColumnParam, ExprParam, Tuple.
type Param interface {
	// SQL returns the DDL text for the parameter.
	SQL() string

	param()
}

// Literal is a raw SQL fragment emitted verbatim. Escaped string literals
// (already quoted by sqlescape) and structural identifiers such as database
// names are carried as Literal.
type Literal string

func (p Literal) SQL() string { return string(p) }
func (Literal) param()        {}

// Int is an integer parameter (e.g., index granularity, Buffer tuning).
type Int int

func (p Int) SQL() string { return strconv.Itoa(int(p)) }
func (Int) param()        {}

// ColumnParam is a resolved column emitted as its bare name.
type ColumnParam struct {
	Col *schema.Column
}

func (p ColumnParam) SQL() string { return p.Col.Name }
func (ColumnParam) param()        {}

// ExprParam is a pass-through SQL expression.
type ExprParam schema.Expr

func (p ExprParam) SQL() string { return schema.Expr(p).SQL() }
func (ExprParam) param()        {}

// Tuple is a grouped positional value rendered as a parenthesized,
// comma-joined sub-list (composite keys, summing column sets).
type Tuple []Param

func (p Tuple) SQL() string {
	parts := make([]string, len(p))
	for i, in := range p {
		parts[i] = in.SQL()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Tuple) param() {}

// keyItemParam converts a rendered key slot into its parameter form.
func keyItemParam(it schema.KeyItem) Param {
	if it.IsExpr() {
		return ExprParam(it.Expr)
	}
	return ColumnParam{Col: it.Col}
}

// keyItemParams converts a rendered key tuple into one grouped parameter.
func keyItemParams(items []schema.KeyItem) Tuple {
	t := make(Tuple, len(items))
	for i, it := range items {
		t[i] = keyItemParam(it)
	}
	return t
}
