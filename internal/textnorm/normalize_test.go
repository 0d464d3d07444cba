package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize_Canonicalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"lowercases", "HIRING Test", "hiring test"},
		{"commas to spaces", "excel,word,outlook", "excel word outlook"},
		{"punctuation stripped", "senior engineer (remote!)", "senior engineer remote"},
		{"hyphen kept", "entry-level role", "entry-level role"},
		{"underscore and period kept", "node_tests v2.1", "node_tests v2.1"},
		{"accented letters kept", "Café Manager Rôle", "café manager rôle"},
		{"whitespace collapsed", "  a   b \t c  ", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_SynonymExpansion(t *testing.T) {
	got := Normalize("JS role")
	if !strings.Contains(got, "javascript") {
		t.Errorf("Normalize(\"JS role\") = %q, want javascript expansion", got)
	}
	if !strings.Contains(got, "programming coding") {
		t.Errorf("Normalize(\"JS role\") = %q, want related terms", got)
	}
}

func TestNormalize_WordBoundary(t *testing.T) {
	// "json" must not trigger the "js" entry.
	got := Normalize("json parsing")
	if strings.Contains(got, "javascript") {
		t.Errorf("Normalize(\"json parsing\") = %q, expanded inside a word", got)
	}
}

func TestNormalize_SinglePass(t *testing.T) {
	// "dev" expands to text containing "developer"; that replacement text
	// must not be expanded again.
	got := Normalize("dev")
	want := "dev developer engineer programming"
	if got != want {
		t.Errorf("Normalize(\"dev\") = %q, want %q", got, want)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "Senior Java dev, remote, under 30 minutes!"
	first := Normalize(in)
	for i := 0; i < 10; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("Normalize not deterministic: %q vs %q", got, first)
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("one two  three"); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(\"\") = %d, want 0", got)
	}
}
