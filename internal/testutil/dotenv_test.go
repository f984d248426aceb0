package testutil

import "testing"

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line string
		key  string
		val  string
		ok   bool
	}{
		{"DEFECTDOJO_API_BASE=https://dojo.example.com", "DEFECTDOJO_API_BASE", "https://dojo.example.com", true},
		{"export DEFECTDOJO_API_TOKEN=abc123", "DEFECTDOJO_API_TOKEN", "abc123", true},
		{`KEY="quoted value"`, "KEY", "quoted value", true},
		{"KEY='single'", "KEY", "single", true},
		{"KEY=a=b", "KEY", "a=b", true},
		{"  KEY = spaced  ", "KEY", "spaced", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no equals sign", "", "", false},
		{"=value", "", "", false},
	}
	for _, tc := range cases {
		key, val, ok := parseEnvLine(tc.line)
		if ok != tc.ok || key != tc.key || val != tc.val {
			t.Fatalf("parseEnvLine(%q): expected (%q, %q, %v), got (%q, %q, %v)",
				tc.line, tc.key, tc.val, tc.ok, key, val, ok)
		}
	}
}
