package pathmatch

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"temp", "temp"},
		{"LOGS", "logs"},
		{"Cache", "cache"},
		{"/logs", "logs"},
		{"logs/", "logs"},
		{`\logs\`, "logs"},
		{`Cache\\`, "cache"},
		{`//temp//`, "temp"},
		{`/\temp\/`, "temp"},
		{"a/b/c", `a\b\c`},
		{`a/b\C`, `a\b\c`},
		{"", ""},
		{`\`, ""},
		{`\/\/`, ""},
		// Separators are the only thing stripped; whitespace is kept.
		{" temp ", " temp "},
	}

	for _, tc := range cases {
		if got := Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"temp", "Temp/", `\LOGS\`, "a/b/c", `mixed\Case/Path`, "", `\/`, " spaced ",
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestNormalizeCaseSlashInvariance(t *testing.T) {
	// All spellings of the same segment must collapse to one canonical form.
	forms := []string{"Logs/", `\logs\`, "LOGS", "logs", "/Logs", `logs\`}

	want := Normalize(forms[0])
	for _, f := range forms[1:] {
		if got := Normalize(f); got != want {
			t.Errorf("Normalize(%q) = %q, want %q (same as Normalize(%q))", f, got, want, forms[0])
		}
	}
	if want != "logs" {
		t.Errorf("canonical form = %q, want %q", want, "logs")
	}
}
