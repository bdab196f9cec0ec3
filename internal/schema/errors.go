package schema

import (
	"errors"
	"fmt"
)

// ErrNotAttached is returned when a resolved value is requested from a
// reference or descriptor that has not been attached to a table yet. It
// indicates the caller violated the declare-then-attach protocol.
var ErrNotAttached = errors.New("schema: not attached to a table")

// ErrAlreadyAttached is returned when Attach is called a second time.
// Attach is a one-time initialization step; rebinding to another table is a
// programming error and fails fast.
var ErrAlreadyAttached = errors.New("schema: already attached to a table")

// UnknownColumnError reports a symbolic column reference that could not be
// resolved against the attached table's column collection. It is fatal to
// the attach call; the declaration or the table's columns must change.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("schema: unknown column %q in table %s", e.Column, e.Table)
}

// InvalidConfigurationError reports a structurally invalid combination of
// declaration fields, caught at construction time so misconfiguration
// surfaces as early as possible (before any attach is attempted).
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("schema: invalid configuration for %s: %s", e.Field, e.Reason)
}
