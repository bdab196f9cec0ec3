// Package config provides the declaration model and helpers for table
// schemas.
//
// This file adds a lightweight linter/validator for File values. It
// performs static checks over a decoded File and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests. The
// checks here catch declaration mistakes before any engine is constructed;
// construction and attach still enforce their own invariants.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a declaration error that should block
	// rendering.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to
	// users but does not necessarily block rendering.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a File.
//
// Path is a dotted path into the declaration (e.g. "tables[0].engine.kind").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// engineKinds is the closed set of supported engine kinds.
var engineKinds = map[string]struct{}{
	"merge_tree":            {},
	"collapsing_merge_tree": {},
	"summing_merge_tree":    {},
	"buffer":                {},
	"memory":                {},
	"merge":                 {},
}

// Validate performs static validation / linting of a File.
//
// It does not mutate the file. Instead it returns a slice of Issue values;
// callers decide whether to treat warnings as fatal.
func Validate(f File) []Issue {
	var issues []Issue

	if strings.TrimSpace(f.Database) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "database",
			Message:  "database is empty; DDL will use bare table names",
		})
	}
	if len(f.Tables) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "tables",
			Message:  "at least one table must be declared",
		})
	}
	seen := map[string]struct{}{}
	for i, t := range f.Tables {
		path := fmt.Sprintf("tables[%d]", i)
		if strings.TrimSpace(t.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  "table name must not be empty",
			})
		} else if _, dup := seen[t.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  fmt.Sprintf("duplicate table name %q", t.Name),
			})
		} else {
			seen[t.Name] = struct{}{}
		}
		issues = append(issues, validateColumns(path, t.Columns)...)
		issues = append(issues, validateEngine(path+".engine", t)...)
	}
	return issues
}

// validateColumns checks the column list for emptiness and duplicates.
func validateColumns(path string, cols []ColumnDecl) []Issue {
	var issues []Issue
	if len(cols) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".columns",
			Message:  "at least one column must be declared",
		})
		return issues
	}
	seen := map[string]struct{}{}
	for i, c := range cols {
		cp := fmt.Sprintf("%s.columns[%d]", path, i)
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     cp + ".name",
				Message:  "column name must not be empty",
			})
			continue
		}
		if _, dup := seen[c.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     cp + ".name",
				Message:  fmt.Sprintf("duplicate column name %q", c.Name),
			})
		}
		seen[c.Name] = struct{}{}
		if strings.TrimSpace(c.Type) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     cp + ".type",
				Message:  fmt.Sprintf("column %q must declare a type", c.Name),
			})
		}
	}
	return issues
}

// validateEngine checks the engine declaration against its kind. The engine
// set is closed, so unknown kinds are errors rather than forward-compatible
// warnings.
func validateEngine(path string, t TableDecl) []Issue {
	var issues []Issue
	e := t.Engine

	kind := strings.TrimSpace(e.Kind)
	if kind == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  "engine.kind must not be empty",
		})
	}
	if _, ok := engineKinds[kind]; !ok {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unknown engine kind %q; supported kinds are merge_tree, collapsing_merge_tree, summing_merge_tree, buffer, memory, merge", kind),
		})
	}

	switch kind {
	case "merge_tree", "collapsing_merge_tree", "summing_merge_tree":
		issues = append(issues, validateMergeTree(path, t)...)
	case "buffer":
		if e.Buffer == nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".buffer",
				Message:  "buffer engines require a buffer block with database and table",
			})
		} else {
			if strings.TrimSpace(e.Buffer.Database) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".buffer.database",
					Message:  "destination database must not be empty",
				})
			}
			if strings.TrimSpace(e.Buffer.Table) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".buffer.table",
					Message:  "destination table must not be empty",
				})
			}
		}
	case "merge":
		if e.Merge == nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".merge",
				Message:  "merge engines require a merge block with database and regexp",
			})
		} else {
			if strings.TrimSpace(e.Merge.Database) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".merge.database",
					Message:  "source database must not be empty",
				})
			}
			if strings.TrimSpace(e.Merge.Regexp) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".merge.regexp",
					Message:  "table-name pattern must not be empty",
				})
			}
		}
	case "memory":
		// No parameters to check.
	}
	return issues
}

// validateMergeTree checks the fields shared by the merge_tree family, plus
// the per-variant extras. Column references are checked against the
// declared column list here so that typos surface with a config path; the
// attach step remains the authority.
func validateMergeTree(path string, t TableDecl) []Issue {
	var issues []Issue
	e := t.Engine

	declared := map[string]struct{}{}
	for _, c := range t.Columns {
		declared[c.Name] = struct{}{}
	}
	checkRef := func(p, name string) {
		if _, ok := declared[name]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     p,
				Message:  fmt.Sprintf("column %q is not declared in this table", name),
			})
		}
	}

	if strings.TrimSpace(e.DateColumn) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".date_column",
			Message:  "merge_tree engines require a date column",
		})
	} else {
		checkRef(path+".date_column", e.DateColumn)
	}

	if len(e.Key) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".key",
			Message:  "merge_tree engines require at least one key item",
		})
	}
	for i, k := range e.Key {
		kp := fmt.Sprintf("%s.key[%d]", path, i)
		issues = append(issues, validateKeyDecl(kp, k, checkRef)...)
	}
	if e.Sampling != nil {
		issues = append(issues, validateKeyDecl(path+".sampling", *e.Sampling, checkRef)...)
	}

	if e.Replica != nil {
		// Partial coordinates are also rejected at engine construction;
		// flagging them here gives the user a config path.
		if (strings.TrimSpace(e.Replica.Name) == "") != (strings.TrimSpace(e.Replica.TablePath) == "") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".replica",
				Message:  "replica.name and replica.table_path must both be set or the block omitted",
			})
		}
	}

	switch e.Kind {
	case "collapsing_merge_tree":
		if strings.TrimSpace(e.SignColumn) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".sign_column",
				Message:  "collapsing_merge_tree engines require a sign column",
			})
		} else {
			checkRef(path+".sign_column", e.SignColumn)
		}
	case "summing_merge_tree":
		for i, k := range e.SummingColumns {
			kp := fmt.Sprintf("%s.summing_columns[%d]", path, i)
			issues = append(issues, validateKeyDecl(kp, k, checkRef)...)
		}
	}

	if e.SignColumn != "" && e.Kind != "collapsing_merge_tree" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     path + ".sign_column",
			Message:  fmt.Sprintf("sign_column is ignored by engine kind %q", e.Kind),
		})
	}
	if len(e.SummingColumns) > 0 && e.Kind != "summing_merge_tree" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     path + ".summing_columns",
			Message:  fmt.Sprintf("summing_columns is ignored by engine kind %q", e.Kind),
		})
	}
	return issues
}

// validateKeyDecl enforces the exactly-one-of rule for a key slot and
// checks column references against the declared columns.
func validateKeyDecl(path string, k KeyDecl, checkRef func(p, name string)) []Issue {
	hasCol := strings.TrimSpace(k.Column) != ""
	hasExpr := strings.TrimSpace(k.Expr) != ""
	switch {
	case hasCol && hasExpr:
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  "a key item is either a column or an expr, not both",
		}}
	case !hasCol && !hasExpr:
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  "a key item must set column or expr",
		}}
	case hasCol:
		checkRef(path+".column", k.Column)
	}
	return nil
}
