// Package pathmatch turns user-authored exclusion strings into anchored,
// case-insensitive match rules for relative paths. An exclusion names one
// path segment (or segment chain) to exclude; a compiled rule matches a
// candidate path only when the candidate equals the exclusion or sits
// underneath it. User input is always treated as a literal; the package
// deliberately has no pattern language.
package pathmatch

import "strings"

// Normalize canonicalizes a raw exclusion or candidate path for matching:
// every leading and trailing `\` or `/` is stripped, every remaining `/`
// becomes `\`, and the result is lowercased with Unicode simple case
// mapping, which does not depend on the process locale. Normalize never
// fails and is idempotent; normalizing "" yields "".
//
// Each string is normalized independently: siblings are not deduplicated
// and conflicts between forms like "temp" and "Temp/" are not detected.
// Both normalize to the same value and compile to rules that match the
// same set of paths.
func Normalize(raw string) string {
	s := strings.Trim(raw, `\/`)
	s = strings.ReplaceAll(s, "/", `\`)
	return strings.ToLower(s)
}
