package pathmatch

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrEmptyPattern reports an exclusion that is empty after normalization
// (empty input, or input consisting only of path separators). Such a string
// cannot anchor a rule.
var ErrEmptyPattern = errors.New("exclusion is empty after normalization")

// MatchRule is an anchored, case-insensitive matcher compiled from one
// normalized exclusion. It matches a candidate path iff the candidate
// equals the exclusion exactly, or starts with the exclusion immediately
// followed by a `\` separator. It never matches mid-segment: a rule for
// "log" matches "log" and `log\sub` but not "logging" or "mylog".
type MatchRule struct {
	normalized string
}

// Compile builds a MatchRule from a normalized exclusion string. Every
// character of the input is matched literally; only the implicit anchor and
// the trailing separator-or-end alternation are structural. Compile fails
// only for input that is empty after normalization.
func Compile(normalized string) (MatchRule, error) {
	if normalized == "" {
		return MatchRule{}, ErrEmptyPattern
	}
	return MatchRule{normalized: normalized}, nil
}

// Pattern returns the normalized exclusion this rule was compiled from.
func (r MatchRule) Pattern() string {
	return r.normalized
}

// Matches reports whether candidate is covered by this rule. The candidate
// must already be canonicalized with Normalize; matching is a plain string
// comparison, so an unnormalized candidate will silently fail to match.
func (r MatchRule) Matches(candidate string) bool {
	if candidate == r.normalized {
		return true
	}
	return len(candidate) > len(r.normalized) &&
		strings.HasPrefix(candidate, r.normalized) &&
		candidate[len(r.normalized)] == '\\'
}

// AnyMatches reports whether any rule in the set matches the candidate.
// The candidate must already be canonicalized with Normalize.
func AnyMatches(rules []MatchRule, candidate string) bool {
	for _, r := range rules {
		if r.Matches(candidate) {
			return true
		}
	}
	return false
}
