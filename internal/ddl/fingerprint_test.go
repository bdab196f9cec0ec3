package ddl

import (
	"strings"
	"testing"
)

// TestFingerprint validates stability, sensitivity, and output shape.
// Exact hash values are not pinned; the contract is "same in, same out" and
// "different in, different out" for realistic statement edits.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	sql := "CREATE TABLE IF NOT EXISTS `t` (\n  `x` UInt8\n) ENGINE = Memory;"

	a := Fingerprint(sql)
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d; want 16 hex digits", len(a))
	}
	if strings.ToLower(a) != a || strings.Trim(a, "0123456789abcdef") != "" {
		t.Fatalf("fingerprint %q is not lowercase hex", a)
	}
	if b := Fingerprint(sql); b != a {
		t.Fatalf("fingerprint not stable: %s vs %s", a, b)
	}

	// Byte-exact: even whitespace changes the value.
	if c := Fingerprint(sql + " "); c == a {
		t.Fatalf("trailing space did not change the fingerprint")
	}
	if d := Fingerprint(strings.Replace(sql, "UInt8", "UInt16", 1)); d == a {
		t.Fatalf("type change did not change the fingerprint")
	}
}
