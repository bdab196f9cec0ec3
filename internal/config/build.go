package config

import (
	"fmt"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/engine"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/schema"
)

// BuiltTable pairs an assembled table with its attached engine, ready for
// DDL rendering.
type BuiltTable struct {
	Table  *schema.Table
	Engine engine.Engine
}

// Build assembles every declared table: it constructs the column
// collection, constructs the declared engine with symbolic references, and
// runs the attach step against the finished table. The returned slice
// preserves file order.
//
// Construction failures (e.g., partial replication coordinates) and attach
// failures (unknown columns) abort the build for the whole file; a
// declaration file is applied all-or-nothing.
func Build(f File) ([]BuiltTable, error) {
	built := make([]BuiltTable, 0, len(f.Tables))
	for _, decl := range f.Tables {
		t, e, err := buildTable(f.Database, decl)
		if err != nil {
			return nil, fmt.Errorf("config: table %s: %w", decl.Name, err)
		}
		built = append(built, BuiltTable{Table: t, Engine: e})
	}
	return built, nil
}

// buildTable assembles one table and attaches its engine.
func buildTable(database string, decl TableDecl) (*schema.Table, engine.Engine, error) {
	cols := make([]*schema.Column, len(decl.Columns))
	for i, c := range decl.Columns {
		cols[i] = &schema.Column{Name: c.Name, Type: c.Type}
	}
	t, err := schema.NewTable(database, decl.Name, cols...)
	if err != nil {
		return nil, nil, err
	}
	e, err := buildEngine(decl.Engine)
	if err != nil {
		return nil, nil, err
	}
	if err := e.Attach(t); err != nil {
		return nil, nil, err
	}
	return t, e, nil
}

// buildEngine constructs the declared engine variant with symbolic inputs;
// nothing is resolved until the caller attaches it.
func buildEngine(e EngineDecl) (engine.Engine, error) {
	switch e.Kind {
	case "merge_tree":
		return engine.NewMergeTree(mergeTreeSpec(e))
	case "collapsing_merge_tree":
		return engine.NewCollapsingMergeTree(mergeTreeSpec(e), e.SignColumn)
	case "summing_merge_tree":
		return engine.NewSummingMergeTree(mergeTreeSpec(e), keyInputs(e.SummingColumns)...)
	case "buffer":
		if e.Buffer == nil {
			return nil, &schema.InvalidConfigurationError{Field: "buffer engine", Reason: "missing buffer block"}
		}
		return engine.NewBuffer(e.Buffer.Database, e.Buffer.Table, engine.BufferSpec{
			NumLayers: e.Buffer.NumLayers,
			MinTime:   e.Buffer.MinTime,
			MaxTime:   e.Buffer.MaxTime,
			MinRows:   e.Buffer.MinRows,
			MaxRows:   e.Buffer.MaxRows,
			MinBytes:  e.Buffer.MinBytes,
			MaxBytes:  e.Buffer.MaxBytes,
		}), nil
	case "memory":
		return engine.NewMemory(), nil
	case "merge":
		if e.Merge == nil {
			return nil, &schema.InvalidConfigurationError{Field: "merge engine", Reason: "missing merge block"}
		}
		return engine.NewMerge(e.Merge.Database, e.Merge.Regexp), nil
	default:
		return nil, &schema.InvalidConfigurationError{
			Field:  "engine kind",
			Reason: fmt.Sprintf("unknown engine kind %q", e.Kind),
		}
	}
}

// mergeTreeSpec translates the shared merge_tree declaration fields into an
// engine spec.
func mergeTreeSpec(e EngineDecl) engine.MergeTreeSpec {
	spec := engine.MergeTreeSpec{
		DateColumn:       e.DateColumn,
		Key:              keyInputs(e.Key),
		IndexGranularity: e.IndexGranularity,
	}
	if e.Sampling != nil {
		spec.Sampling = keyInput(*e.Sampling)
	}
	if e.Replica != nil {
		spec.ReplicaName = e.Replica.Name
		spec.ReplicaTablePath = e.Replica.TablePath
	}
	return spec
}

// keyInput converts a key slot declaration into the symbolic input the
// schema layer classifies at construction.
func keyInput(k KeyDecl) any {
	if k.Expr != "" {
		return schema.Expr(k.Expr)
	}
	return k.Column
}

func keyInputs(ks []KeyDecl) []any {
	if len(ks) == 0 {
		return nil
	}
	in := make([]any, len(ks))
	for i, k := range ks {
		in[i] = keyInput(k)
	}
	return in
}
