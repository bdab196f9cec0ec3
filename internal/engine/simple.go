package engine

import (
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/schema"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/sqlescape"
)

// The engines in this file carry no column references, so Attach performs
// no resolution; it only records the table and enforces the single-attach
// contract. Their parameter lists are available as soon as the descriptor
// is constructed.

// Buffer default tuning values, applied field-by-field when the spec leaves
// a knob nil.
const (
	DefaultBufferNumLayers = 16
	DefaultBufferMinTime   = 10
	DefaultBufferMaxTime   = 100
	DefaultBufferMinRows   = 10000
	DefaultBufferMaxRows   = 1000000
	DefaultBufferMinBytes  = 10000000
	DefaultBufferMaxBytes  = 100000000
)

// BufferSpec overrides Buffer tuning values; nil fields keep the defaults.
type BufferSpec struct {
	NumLayers *int
	MinTime   *int
	MaxTime   *int
	MinRows   *int
	MaxRows   *int
	MinBytes  *int
	MaxBytes  *int
}

// Buffer buffers writes in memory and flushes them to a destination table.
// Its nine parameters are structural identifiers and numbers, emitted
// unescaped in declaration order.
type Buffer struct {
	database  string
	tableName string
	numLayers int
	minTime   int
	maxTime   int
	minRows   int
	maxRows   int
	minBytes  int
	maxBytes  int
	table     *schema.Table
}

// NewBuffer builds a Buffer descriptor targeting database.tableName.
func NewBuffer(database, tableName string, spec BufferSpec) *Buffer {
	return &Buffer{
		database:  database,
		tableName: tableName,
		numLayers: intOr(spec.NumLayers, DefaultBufferNumLayers),
		minTime:   intOr(spec.MinTime, DefaultBufferMinTime),
		maxTime:   intOr(spec.MaxTime, DefaultBufferMaxTime),
		minRows:   intOr(spec.MinRows, DefaultBufferMinRows),
		maxRows:   intOr(spec.MaxRows, DefaultBufferMaxRows),
		minBytes:  intOr(spec.MinBytes, DefaultBufferMinBytes),
		maxBytes:  intOr(spec.MaxBytes, DefaultBufferMaxBytes),
	}
}

func (e *Buffer) Name() string { return "Buffer" }

func (e *Buffer) Attach(t *schema.Table) error {
	if e.table != nil {
		return schema.ErrAlreadyAttached
	}
	e.table = t
	return nil
}

func (e *Buffer) Params() ([]Param, error) {
	return []Param{
		Literal(e.database),
		Literal(e.tableName),
		Int(e.numLayers),
		Int(e.minTime),
		Int(e.maxTime),
		Int(e.minRows),
		Int(e.maxRows),
		Int(e.minBytes),
		Int(e.maxBytes),
	}, nil
}

// Memory keeps the table in RAM; the engine clause takes no parameters.
type Memory struct {
	table *schema.Table
}

// NewMemory builds a Memory descriptor.
func NewMemory() *Memory { return &Memory{} }

func (e *Memory) Name() string { return "Memory" }

func (e *Memory) Attach(t *schema.Table) error {
	if e.table != nil {
		return schema.ErrAlreadyAttached
	}
	e.table = t
	return nil
}

func (e *Memory) Params() ([]Param, error) { return []Param{}, nil }

// Merge reads from every table in db whose name matches a regular
// expression. The database is a structural identifier and stays unescaped;
// the pattern is a free-form user string and is escaped.
type Merge struct {
	db     string
	regexp string
	table  *schema.Table
}

// NewMerge builds a Merge descriptor over db with the given name pattern.
func NewMerge(db, regexp string) *Merge {
	return &Merge{db: db, regexp: regexp}
}

func (e *Merge) Name() string { return "Merge" }

func (e *Merge) Attach(t *schema.Table) error {
	if e.table != nil {
		return schema.ErrAlreadyAttached
	}
	e.table = t
	return nil
}

func (e *Merge) Params() ([]Param, error) {
	return []Param{
		Literal(e.db),
		Literal(sqlescape.String(e.regexp)),
	}, nil
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
