package engine

import (
	"fmt"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/schema"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/sqlescape"
)

// DefaultIndexGranularity is the MergeTree index granularity applied when
// the declaration omits one.
const DefaultIndexGranularity = 8192

// MergeTreeSpec declares a MergeTree-family engine. Column inputs are
// symbolic: names (string), column handles (*schema.Column), or — where
// noted — raw expressions (schema.Expr). They resolve at attach time.
type MergeTreeSpec struct {
	// DateColumn is the engine's date column: a name or a column handle.
	DateColumn any

	// Key is the composite key: an ordered mix of names, column handles,
	// and expressions, rendered as one parenthesized tuple.
	Key []any

	// Sampling optionally declares a single sampling expression or column.
	// nil means no sampling clause.
	Sampling any

	// IndexGranularity overrides the default of 8192 when non-nil. The
	// value passes through as given, including zero and negatives; range
	// checking belongs to the server.
	IndexGranularity *int

	// ReplicaName and ReplicaTablePath are the replication coordinates.
	// Both must be set, or both empty; a partial pair is rejected at
	// construction.
	ReplicaName      string
	ReplicaTablePath string
}

// mergeTreeCore carries the fields shared by every MergeTree variant. The
// variants embed it by composition; the engine hierarchy is shallow and
// closed, so there is no open-ended subclassing.
type mergeTreeCore struct {
	base        string // variant tag, e.g. "MergeTree"
	date        *schema.ColumnRef
	key         *schema.KeyList
	sampling    *schema.KeyList // nil when the spec declares none
	granularity int
	replicaName string
	replicaPath string
	table       *schema.Table // set once, at attach
}

func newMergeTreeCore(base string, spec MergeTreeSpec) (mergeTreeCore, error) {
	// Catch partial replication coordinates before anything resolves.
	if (spec.ReplicaName == "") != (spec.ReplicaTablePath == "") {
		return mergeTreeCore{}, &schema.InvalidConfigurationError{
			Field:  base + " replication",
			Reason: "replica_name and replica_table_path must both be set or both be empty",
		}
	}
	date, err := schema.NewColumnRef(spec.DateColumn)
	if err != nil {
		return mergeTreeCore{}, fmt.Errorf("%s date column: %w", base, err)
	}
	if len(spec.Key) == 0 {
		return mergeTreeCore{}, &schema.InvalidConfigurationError{
			Field:  base + " key",
			Reason: "composite key must declare at least one item",
		}
	}
	key, err := schema.NewKeyList(spec.Key...)
	if err != nil {
		return mergeTreeCore{}, fmt.Errorf("%s key: %w", base, err)
	}
	var sampling *schema.KeyList
	if spec.Sampling != nil {
		sampling, err = schema.NewKeyList(spec.Sampling)
		if err != nil {
			return mergeTreeCore{}, fmt.Errorf("%s sampling: %w", base, err)
		}
	}
	granularity := DefaultIndexGranularity
	if spec.IndexGranularity != nil {
		granularity = *spec.IndexGranularity
	}
	return mergeTreeCore{
		base:        base,
		date:        date,
		key:         key,
		sampling:    sampling,
		granularity: granularity,
		replicaName: spec.ReplicaName,
		replicaPath: spec.ReplicaTablePath,
	}, nil
}

func (c *mergeTreeCore) replicated() bool { return c.replicaName != "" }

func (c *mergeTreeCore) name() string {
	if c.replicated() {
		return "Replicated" + c.base
	}
	return c.base
}

// attach binds the date column, then the key, then the sampling expression,
// in that fixed order.
func (c *mergeTreeCore) attach(t *schema.Table) error {
	if c.table != nil {
		return schema.ErrAlreadyAttached
	}
	if err := c.date.Attach(t); err != nil {
		return err
	}
	if err := c.key.Attach(t); err != nil {
		return err
	}
	if c.sampling != nil {
		if err := c.sampling.Attach(t); err != nil {
			return err
		}
	}
	c.table = t
	return nil
}

// params assembles the shared positional list. Order is fixed by the DDL
// syntax: replication coordinates, date column, optional sampling item, the
// key tuple, index granularity. Variants append their extras after.
func (c *mergeTreeCore) params() ([]Param, error) {
	if c.table == nil {
		return nil, fmt.Errorf("%s params: %w", c.base, schema.ErrNotAttached)
	}
	var ps []Param
	if c.replicated() {
		ps = append(ps,
			Literal(sqlescape.String(c.replicaPath)),
			Literal(sqlescape.String(c.replicaName)),
		)
	}
	date, err := c.date.Column()
	if err != nil {
		return nil, err
	}
	ps = append(ps, ColumnParam{Col: date})
	if c.sampling != nil {
		items, err := c.sampling.Rendered()
		if err != nil {
			return nil, err
		}
		ps = append(ps, keyItemParam(items[0]))
	}
	items, err := c.key.Rendered()
	if err != nil {
		return nil, err
	}
	ps = append(ps, keyItemParams(items))
	ps = append(ps, Int(c.granularity))
	return ps, nil
}

// MergeTree is the base variant of the primary engine family.
type MergeTree struct {
	core mergeTreeCore
}

// NewMergeTree builds a MergeTree descriptor from spec. A partial
// replication pair fails with *schema.InvalidConfigurationError.
func NewMergeTree(spec MergeTreeSpec) (*MergeTree, error) {
	core, err := newMergeTreeCore("MergeTree", spec)
	if err != nil {
		return nil, err
	}
	return &MergeTree{core: core}, nil
}

func (e *MergeTree) Name() string { return e.core.name() }

func (e *MergeTree) Attach(t *schema.Table) error { return e.core.attach(t) }

func (e *MergeTree) Params() ([]Param, error) { return e.core.params() }

// CollapsingMergeTree extends MergeTree with a sign column, appended as the
// last positional parameter.
type CollapsingMergeTree struct {
	core mergeTreeCore
	sign *schema.ColumnRef
}

// NewCollapsingMergeTree builds a CollapsingMergeTree descriptor. signColumn
// is a column name or handle.
func NewCollapsingMergeTree(spec MergeTreeSpec, signColumn any) (*CollapsingMergeTree, error) {
	core, err := newMergeTreeCore("CollapsingMergeTree", spec)
	if err != nil {
		return nil, err
	}
	sign, err := schema.NewColumnRef(signColumn)
	if err != nil {
		return nil, fmt.Errorf("CollapsingMergeTree sign column: %w", err)
	}
	return &CollapsingMergeTree{core: core, sign: sign}, nil
}

func (e *CollapsingMergeTree) Name() string { return e.core.name() }

func (e *CollapsingMergeTree) Attach(t *schema.Table) error {
	if err := e.core.attach(t); err != nil {
		return err
	}
	return e.sign.Attach(t)
}

func (e *CollapsingMergeTree) Params() ([]Param, error) {
	ps, err := e.core.params()
	if err != nil {
		return nil, err
	}
	sign, err := e.sign.Column()
	if err != nil {
		return nil, err
	}
	return append(ps, ColumnParam{Col: sign}), nil
}

// SummingMergeTree extends MergeTree with an optional set of summing
// columns; when declared, the rendered tuple is appended as the last
// positional parameter, otherwise the parameter list matches the base.
type SummingMergeTree struct {
	core    mergeTreeCore
	summing *schema.KeyList // nil when no summing columns are declared
}

// NewSummingMergeTree builds a SummingMergeTree descriptor. summingColumns
// is an ordered mix of names, column handles, and expressions; an empty
// list means no summing parameter.
func NewSummingMergeTree(spec MergeTreeSpec, summingColumns ...any) (*SummingMergeTree, error) {
	core, err := newMergeTreeCore("SummingMergeTree", spec)
	if err != nil {
		return nil, err
	}
	var summing *schema.KeyList
	if len(summingColumns) > 0 {
		summing, err = schema.NewKeyList(summingColumns...)
		if err != nil {
			return nil, fmt.Errorf("SummingMergeTree summing columns: %w", err)
		}
	}
	return &SummingMergeTree{core: core, summing: summing}, nil
}

func (e *SummingMergeTree) Name() string { return e.core.name() }

func (e *SummingMergeTree) Attach(t *schema.Table) error {
	if err := e.core.attach(t); err != nil {
		return err
	}
	if e.summing != nil {
		return e.summing.Attach(t)
	}
	return nil
}

func (e *SummingMergeTree) Params() ([]Param, error) {
	ps, err := e.core.params()
	if err != nil {
		return nil, err
	}
	if e.summing == nil {
		return ps, nil
	}
	items, err := e.summing.Rendered()
	if err != nil {
		return nil, err
	}
	return append(ps, keyItemParams(items)), nil
}
