package pathmatch

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// MatchRule tests
// ---------------------------------------------------------------------------

func TestMatchRuleAnchoring(t *testing.T) {
	rule, err := Compile("log")
	if err != nil {
		t.Fatalf("Compile(\"log\") returned error: %v", err)
	}

	cases := []struct {
		candidate string
		want      bool
	}{
		{"log", true},
		{`log\sub`, true},
		{`log\sub\deep.txt`, true},
		{"logging", false},
		{`logging\x`, false},
		{"mylog", false},
		{`my\log`, false},
		{"lo", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := rule.Matches(tc.candidate); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestMatchRuleMultiSegment(t *testing.T) {
	rule, err := Compile(Normalize("Temp/Files"))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if rule.Pattern() != `temp\files` {
		t.Fatalf("Pattern() = %q, want %q", rule.Pattern(), `temp\files`)
	}

	cases := []struct {
		candidate string
		want      bool
	}{
		{`temp\files`, true},
		{`temp\files\a.txt`, true},
		{`temp\files2`, false},
		{`temp\file`, false},
		{"temp", false},
	}

	for _, tc := range cases {
		if got := rule.Matches(tc.candidate); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestMatchRuleCaseInsensitiveViaNormalize(t *testing.T) {
	rule, err := Compile(Normalize("CACHE"))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	// Candidates go through the same Normalize before matching.
	if !rule.Matches(Normalize(`Cache\entry.dat`)) {
		t.Error("expected rule from \"CACHE\" to match normalized \"Cache\\entry.dat\"")
	}
	if rule.Matches(Normalize("CacheBackup")) {
		t.Error("expected rule from \"CACHE\" not to match \"CacheBackup\"")
	}
}

func TestCompileEmpty(t *testing.T) {
	for _, raw := range []string{"", "/", `\`, `\/\/`} {
		_, err := Compile(Normalize(raw))
		if !errors.Is(err, ErrEmptyPattern) {
			t.Errorf("Compile(Normalize(%q)) error = %v, want ErrEmptyPattern", raw, err)
		}
	}
}

// ---------------------------------------------------------------------------
// CompileAll tests
// ---------------------------------------------------------------------------

func TestCompileAllPartialFailure(t *testing.T) {
	raws := []string{"temp", "", "cache"}
	res := CompileAll(raws)

	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if res.Compiled() != 2 {
		t.Errorf("Compiled() = %d, want 2", res.Compiled())
	}
	if len(res.Failures) != 1 {
		t.Fatalf("len(Failures) = %d, want 1", len(res.Failures))
	}
	if res.Failures[0].Raw != "" {
		t.Errorf("Failures[0].Raw = %q, want \"\"", res.Failures[0].Raw)
	}
	if !errors.Is(res.Failures[0], ErrEmptyPattern) {
		t.Errorf("Failures[0] = %v, want wrapped ErrEmptyPattern", res.Failures[0])
	}

	// Survivors keep input order.
	want := []string{"temp", "cache"}
	for i, rule := range res.Rules {
		if rule.Pattern() != want[i] {
			t.Errorf("Rules[%d].Pattern() = %q, want %q", i, rule.Pattern(), want[i])
		}
	}

	// Input slice is untouched.
	if raws[0] != "temp" || raws[1] != "" || raws[2] != "cache" {
		t.Errorf("input slice modified: %q", raws)
	}
}

func TestCompileAllAllValid(t *testing.T) {
	res := CompileAll([]string{"Temp/", "LOGS", `cache\`})

	if res.Total != 3 || res.Compiled() != 3 || len(res.Failures) != 0 {
		t.Fatalf("got total=%d compiled=%d failures=%d, want 3/3/0",
			res.Total, res.Compiled(), len(res.Failures))
	}
}

func TestCompileAllEmptyInput(t *testing.T) {
	res := CompileAll(nil)
	if res.Total != 0 || res.Compiled() != 0 || len(res.Failures) != 0 {
		t.Errorf("CompileAll(nil) = %+v, want empty result", res)
	}
}

func TestCompileAllDuplicatesKept(t *testing.T) {
	// "temp" and "Temp/" normalize identically; both rules are kept, which
	// is harmless since they match the same set of paths.
	res := CompileAll([]string{"temp", "Temp/"})
	if res.Compiled() != 2 {
		t.Fatalf("Compiled() = %d, want 2", res.Compiled())
	}
	if res.Rules[0].Pattern() != res.Rules[1].Pattern() {
		t.Errorf("duplicate exclusions compiled to different patterns: %q vs %q",
			res.Rules[0].Pattern(), res.Rules[1].Pattern())
	}
}

// ---------------------------------------------------------------------------
// AnyMatches tests
// ---------------------------------------------------------------------------

func TestAnyMatches(t *testing.T) {
	res := CompileAll([]string{"Temp/", "LOGS"})
	if res.Compiled() != 2 {
		t.Fatalf("Compiled() = %d, want 2", res.Compiled())
	}

	cases := []struct {
		candidate string
		want      bool
	}{
		{`temp\x.txt`, true},
		{"temp", true},
		{`LOGS\old`, true},
		{"temporary", false},
		{"mylogs", false},
		{`src\main.go`, false},
	}

	for _, tc := range cases {
		if got := AnyMatches(res.Rules, Normalize(tc.candidate)); got != tc.want {
			t.Errorf("AnyMatches(rules, Normalize(%q)) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestAnyMatchesNoRules(t *testing.T) {
	if AnyMatches(nil, "anything") {
		t.Error("AnyMatches(nil, ...) = true, want false")
	}
}
