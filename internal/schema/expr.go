package schema

// Expr is an opaque SQL expression supplied by the schema author, passed
// through to DDL text unchanged (e.g., a computed bucket expression such as
// "intHash32(user_id)"). It deliberately carries no structure: this library
// does not parse SQL.
type Expr string

// SQL returns the raw expression text.
func (e Expr) SQL() string { return string(e) }

// KeyItem is one rendered slot of a KeyList. Exactly one of the two fields
// is set, decided once when the owning KeyList is constructed:
//
//   - an expression slot carries the original Expr and a nil Col;
//   - a column slot carries the resolved *Column and an empty Expr.
type KeyItem struct {
	Expr Expr
	Col  *Column
}

// IsExpr reports whether the slot is a pass-through expression.
func (it KeyItem) IsExpr() bool { return it.Col == nil }

// SQL returns the DDL text for the slot: the expression verbatim, or the
// bare column name.
func (it KeyItem) SQL() string {
	if it.Col != nil {
		return it.Col.Name
	}
	return it.Expr.SQL()
}
