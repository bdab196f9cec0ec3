// Package config defines the canonical, JSON-serializable declaration model
// for table schemas and their storage engines. It is intentionally small,
// explicit, and dependency-light so that declarations can be loaded from
// disk (or other sources) and passed through the program without additional
// glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in
//     declaration files.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library. Identifier fields are NFC-normalized on load so
//     that visually identical names compare equal during resolution.
//
// Example (trimmed):
//
//	{
//	  "database": "analytics",
//	  "tables": [
//	    {
//	      "name": "events",
//	      "columns": [
//	        { "name": "event_date", "type": "Date" },
//	        { "name": "user_id",    "type": "UInt32" }
//	      ],
//	      "engine": {
//	        "kind": "merge_tree",
//	        "date_column": "event_date",
//	        "key": [ { "column": "user_id" }, { "expr": "intHash32(user_id)" } ],
//	        "sampling": { "expr": "intHash32(user_id)" },
//	        "replica": { "name": "r1", "table_path": "/clickhouse/tables/01/events" }
//	      }
//	    }
//	  ]
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
)

// File is the top-level object decoded from a declaration file.
type File struct {
	// Database is the default database for every declared table.
	Database string `json:"database"`

	// Tables lists the declared tables in file order.
	Tables []TableDecl `json:"tables"`
}

// TableDecl declares one table: its columns in order and its engine.
type TableDecl struct {
	// Name is the unquoted table name.
	Name string `json:"name"`

	// Columns enumerates the table's columns in declaration order, which
	// is also the order the DDL emits them in.
	Columns []ColumnDecl `json:"columns"`

	// Engine declares the storage engine clause.
	Engine EngineDecl `json:"engine"`
}

// ColumnDecl declares a single column.
type ColumnDecl struct {
	// Name is the unquoted column name.
	Name string `json:"name"`

	// Type is the ClickHouse type string, passed through verbatim
	// (e.g., "Date", "UInt32", "String").
	Type string `json:"type"`
}

// EngineDecl declares the storage engine. Kind selects the variant; the
// remaining fields apply only to the kinds noted on each.
type EngineDecl struct {
	// Kind selects the engine variant: "merge_tree",
	// "collapsing_merge_tree", "summing_merge_tree", "buffer", "memory",
	// or "merge". The set is closed.
	Kind string `json:"kind"`

	// DateColumn names the engine's date column (merge_tree family).
	DateColumn string `json:"date_column"`

	// Key is the composite key (merge_tree family): an ordered mix of
	// column references and raw expressions.
	Key []KeyDecl `json:"key"`

	// Sampling optionally declares the sampling expression (merge_tree
	// family).
	Sampling *KeyDecl `json:"sampling"`

	// IndexGranularity overrides the default of 8192 when present
	// (merge_tree family). Explicit values pass through as given.
	IndexGranularity *int `json:"index_granularity"`

	// Replica carries the replication coordinates (merge_tree family).
	// When present, both fields are required.
	Replica *ReplicaDecl `json:"replica"`

	// SignColumn names the sign column (collapsing_merge_tree only).
	SignColumn string `json:"sign_column"`

	// SummingColumns optionally lists the summed columns
	// (summing_merge_tree only).
	SummingColumns []KeyDecl `json:"summing_columns"`

	// Buffer carries the Buffer engine's destination and tuning
	// ("buffer" only).
	Buffer *BufferDecl `json:"buffer"`

	// Merge carries the Merge engine's source database and table pattern
	// ("merge" only).
	Merge *MergeDecl `json:"merge"`
}

// KeyDecl is one slot of a composite key or sampling declaration. Exactly
// one of Column or Expr must be set: Column references a declared column by
// name, Expr passes raw SQL through unchanged.
type KeyDecl struct {
	Column string `json:"column,omitempty"`
	Expr   string `json:"expr,omitempty"`
}

// ReplicaDecl is the (coordination path, replica name) pair identifying a
// replicated table's location.
type ReplicaDecl struct {
	// Name is the replica's name within the shard (e.g., "r1").
	Name string `json:"name"`

	// TablePath is the table's path in the coordination namespace
	// (e.g., "/clickhouse/tables/{shard}/events").
	TablePath string `json:"table_path"`
}

// BufferDecl configures the Buffer engine. Nil tuning fields keep the
// engine defaults.
type BufferDecl struct {
	// Database and Table identify the destination the buffer flushes to.
	Database string `json:"database"`
	Table    string `json:"table"`

	NumLayers *int `json:"num_layers,omitempty"`
	MinTime   *int `json:"min_time,omitempty"`
	MaxTime   *int `json:"max_time,omitempty"`
	MinRows   *int `json:"min_rows,omitempty"`
	MaxRows   *int `json:"max_rows,omitempty"`
	MinBytes  *int `json:"min_bytes,omitempty"`
	MaxBytes  *int `json:"max_bytes,omitempty"`
}

// MergeDecl configures the Merge engine.
type MergeDecl struct {
	// Database is the source database, emitted as a structural
	// identifier.
	Database string `json:"database"`

	// Regexp is the table-name pattern, escaped at render time because it
	// is a free-form user string.
	Regexp string `json:"regexp"`
}

// Load reads and decodes a declaration file from path, then normalizes
// identifier fields.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var file File
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return File{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	Normalize(&file)
	return file, nil
}

// Normalize NFC-normalizes every identifier in the file in place, so that
// names that render identically also compare equal when column references
// resolve. Expression and type strings pass through untouched.
func Normalize(f *File) {
	f.Database = norm.NFC.String(f.Database)
	for i := range f.Tables {
		t := &f.Tables[i]
		t.Name = norm.NFC.String(t.Name)
		for j := range t.Columns {
			t.Columns[j].Name = norm.NFC.String(t.Columns[j].Name)
		}
		e := &t.Engine
		e.DateColumn = norm.NFC.String(e.DateColumn)
		e.SignColumn = norm.NFC.String(e.SignColumn)
		for j := range e.Key {
			e.Key[j].Column = norm.NFC.String(e.Key[j].Column)
		}
		if e.Sampling != nil {
			e.Sampling.Column = norm.NFC.String(e.Sampling.Column)
		}
		for j := range e.SummingColumns {
			e.SummingColumns[j].Column = norm.NFC.String(e.SummingColumns[j].Column)
		}
		if e.Buffer != nil {
			e.Buffer.Database = norm.NFC.String(e.Buffer.Database)
			e.Buffer.Table = norm.NFC.String(e.Buffer.Table)
		}
		if e.Merge != nil {
			e.Merge.Database = norm.NFC.String(e.Merge.Database)
		}
	}
}
