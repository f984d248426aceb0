package dojo

import (
	"testing"
)

func TestHTMLToTextFlattensBlocks(t *testing.T) {
	raw := []byte(`<html><body><h1>Server Error</h1><p>Something   went<br>wrong.</p></body></html>`)
	got := htmlToText(raw)

	want := "Server Error\nSomething went\nwrong."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHTMLToTextDropsScriptAndStyle(t *testing.T) {
	raw := []byte(`<html><head><style>body{}</style></head><body><script>var x=1;</script>visible</body></html>`)
	got := htmlToText(raw)

	if got != "visible" {
		t.Fatalf("expected only visible text, got %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a  b", "a b"},
		{"a\n\n\nb", "a\nb"},
		{"  a \t b  ", "a b"},
		{"a \n b", "a\nb"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := collapseSpace(tc.in); got != tc.want {
			t.Fatalf("collapseSpace(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestLooksLikeHTML(t *testing.T) {
	if !looksLikeHTML([]byte("<!DOCTYPE html><html></html>")) {
		t.Fatal("doctype page not detected")
	}
	if !looksLikeHTML([]byte("  <html><body>x</body></html>")) {
		t.Fatal("html tag not detected")
	}
	if looksLikeHTML([]byte(`{"detail":"<html> quoted"}`)) {
		t.Fatal("JSON mentioning html misdetected")
	}
	if looksLikeHTML([]byte("plain text")) {
		t.Fatal("plain text misdetected")
	}
}
