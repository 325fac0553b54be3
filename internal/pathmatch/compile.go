package pathmatch

import "fmt"

// CompileError describes a single exclusion string that could not be
// compiled. It is non-fatal: the caller logs it, drops the compiled form,
// and keeps both the raw string and the rest of the batch.
type CompileError struct {
	Raw string // the exclusion exactly as authored
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("exclusion %q: %v", e.Raw, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompileResult is the outcome of compiling a batch of raw exclusions.
// Total counts every input; len(Rules) is the success count; Failures
// carries one entry per input that did not compile.
type CompileResult struct {
	Rules    []MatchRule
	Total    int
	Failures []*CompileError
}

// Compiled returns the number of exclusions that compiled successfully.
func (r CompileResult) Compiled() int {
	return len(r.Rules)
}

// CompileAll normalizes and compiles each raw exclusion in order.
// Compilation is best effort: a failing entry is recorded in Failures and
// skipped, and never aborts the batch. The input slice is not modified:
// raw strings are only ever dropped from the derived rule set, never from
// the configuration they came from. CompileAll holds no state between
// calls; every invocation recompiles from scratch.
func CompileAll(raws []string) CompileResult {
	res := CompileResult{Total: len(raws)}
	for _, raw := range raws {
		rule, err := Compile(Normalize(raw))
		if err != nil {
			res.Failures = append(res.Failures, &CompileError{Raw: raw, Err: err})
			continue
		}
		res.Rules = append(res.Rules, rule)
	}
	return res
}
