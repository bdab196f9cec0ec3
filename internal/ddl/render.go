// Package ddl renders CREATE TABLE statements for ClickHouse from the
// declarative schema and engine model. The functions here are pure and
// deterministic, which makes them straightforward to test and reuse: given
// the same attached descriptor they always produce the same text.
//
// Responsibilities are deliberately narrow. The package:
//
//   - Renders the engine clause from an Engine's name and positional
//     parameter list; grouped values (composite keys, summing sets) become
//     parenthesized sub-lists.
//   - Quotes identifiers with backticks, escaping embedded backticks and
//     backslashes. Engine parameters are emitted as the engine produced
//     them; string escaping happened when the parameter list was built.
//   - Does not parse SQL and does not validate parameters against the
//     server's grammar.
package ddl

import (
	"fmt"
	"strings"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/engine"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/schema"
)

// EngineClause renders the "ENGINE = Name(params...)" fragment for an
// attached engine. Engines without parameters render as a bare name, which
// is the conventional ClickHouse spelling (e.g., "ENGINE = Memory").
func EngineClause(e engine.Engine) (string, error) {
	ps, err := e.Params()
	if err != nil {
		return "", fmt.Errorf("ddl: engine %s: %w", e.Name(), err)
	}
	if len(ps) == 0 {
		return "ENGINE = " + e.Name(), nil
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.SQL()
	}
	return fmt.Sprintf("ENGINE = %s(%s)", e.Name(), strings.Join(parts, ", ")), nil
}

// BuildCreateTableSQL renders a full CREATE TABLE IF NOT EXISTS statement
// for t with its engine clause.
//
// Rules:
//
//   - t must have at least one column; each column needs a non-empty name
//     and type.
//
//   - A column is rendered as `name` Type, one per line.
//
//   - The engine must already be attached; rendering never attaches.
//
// The resulting statement has the form:
//
//	CREATE TABLE IF NOT EXISTS `db`.`tbl` (
//	  `col1` Type1,
//	  `col2` Type2
//	) ENGINE = Name(params...);
func BuildCreateTableSQL(t *schema.Table, e engine.Engine) (string, error) {
	cols := t.Columns()
	if len(cols) == 0 {
		return "", fmt.Errorf("ddl: table %s: at least one column is required", t.FQN())
	}
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		if strings.TrimSpace(c.Type) == "" {
			return "", fmt.Errorf("ddl: table %s: column %s missing type", t.FQN(), c.Name)
		}
		defs = append(defs, quoteIdent(c.Name)+" "+c.Type)
	}
	clause, err := EngineClause(e)
	if err != nil {
		return "", fmt.Errorf("ddl: table %s: %w", t.FQN(), err)
	}
	name := quoteIdent(t.Name)
	if t.Database != "" {
		name = quoteIdent(t.Database) + "." + name
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n) %s;",
		name,
		strings.Join(defs, ",\n  "),
		clause,
	), nil
}

// quoteIdent wraps an identifier in backticks, escaping embedded backslashes
// and backticks with a backslash.
func quoteIdent(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	return "`" + s + "`"
}
