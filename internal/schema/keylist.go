package schema

import "fmt"

// keySlot is one declared position of a KeyList. Each slot is classified
// exactly once at construction: expression slots pass through unchanged,
// column slots record the name to resolve at attach time.
type keySlot struct {
	expr   Expr
	name   string
	isExpr bool
}

// KeyList is an ordered sequence of mixed key inputs: raw SQL expressions,
// bare column names, and column handles. Composite keys in the MergeTree
// engine family mix literal SQL with plain column references in one ordered
// tuple, and the two must merge back into their original positions for
// correct DDL — so the list preserves declaration order through attach and
// rendering.
//
// Lifecycle mirrors ColumnRef: declared, attached once, read-only after.
type KeyList struct {
	slots    []keySlot
	resolved []*Column // parallel to slots; nil entries for expression slots
}

// NewKeyList classifies each input at construction:
//
//   - Expr          -> expression slot, passed through unchanged
//   - string        -> column slot, resolved by name at attach
//   - *Column       -> column slot, resolved by the handle's name at attach
//
// Any other input type is a declaration error.
func NewKeyList(inputs ...any) (*KeyList, error) {
	l := &KeyList{slots: make([]keySlot, 0, len(inputs))}
	for i, in := range inputs {
		switch v := in.(type) {
		case Expr:
			l.slots = append(l.slots, keySlot{expr: v, isExpr: true})
		case string:
			if v == "" {
				return nil, &InvalidConfigurationError{
					Field:  fmt.Sprintf("key item %d", i),
					Reason: "empty column name",
				}
			}
			l.slots = append(l.slots, keySlot{name: v})
		case *Column:
			if v == nil || v.Name == "" {
				return nil, &InvalidConfigurationError{
					Field:  fmt.Sprintf("key item %d", i),
					Reason: "nil column handle",
				}
			}
			l.slots = append(l.slots, keySlot{name: v.Name})
		default:
			return nil, &InvalidConfigurationError{
				Field:  fmt.Sprintf("key item %d", i),
				Reason: fmt.Sprintf("unsupported input type %T", in),
			}
		}
	}
	return l, nil
}

// Len returns the number of declared slots.
func (l *KeyList) Len() int { return len(l.slots) }

// Attach resolves every column slot against t, in declaration order.
// Resolution is all-or-nothing: on any miss the list is left unbound, so a
// failed attach leaves no partial binding observable.
func (l *KeyList) Attach(t *Table) error {
	if l.resolved != nil {
		return ErrAlreadyAttached
	}
	resolved := make([]*Column, len(l.slots))
	for i, s := range l.slots {
		if s.isExpr {
			continue
		}
		c, ok := t.Column(s.name)
		if !ok {
			return &UnknownColumnError{Table: t.Name, Column: s.name}
		}
		resolved[i] = c
	}
	l.resolved = resolved
	return nil
}

// Rendered returns the ordered sequence of slots, one per declared input:
// expression slots hold the original expression, column slots hold the
// resolved column. It fails with ErrNotAttached before Attach.
func (l *KeyList) Rendered() ([]KeyItem, error) {
	if l.resolved == nil {
		return nil, fmt.Errorf("key list: %w", ErrNotAttached)
	}
	items := make([]KeyItem, len(l.slots))
	for i, s := range l.slots {
		if s.isExpr {
			items[i] = KeyItem{Expr: s.expr}
		} else {
			items[i] = KeyItem{Col: l.resolved[i]}
		}
	}
	return items, nil
}
