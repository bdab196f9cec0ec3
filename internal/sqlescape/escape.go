// Package sqlescape turns raw strings into SQL string literals safe to
// splice into ClickHouse DDL text. It is the single point of control for
// string escaping; callers apply it to user-controlled strings (replication
// coordinates, Merge table patterns) and to nothing else.
package sqlescape

import "strings"

var replacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// String returns s as a single-quoted literal with backslashes, quotes, and
// control characters escaped.
func String(s string) string {
	return "'" + replacer.Replace(s) + "'"
}
