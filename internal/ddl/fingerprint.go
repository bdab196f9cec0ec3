package ddl

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable 16-hex-digit fingerprint of rendered DDL
// text. It is byte-exact: any change to the statement, including
// whitespace, produces a different value. Deploy tooling uses it to detect
// schema drift between a declaration file and what was last applied.
func Fingerprint(sql string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(sql))
}
