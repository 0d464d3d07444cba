// Package textnorm canonicalizes free text before embedding or keyword
// matching and expands domain abbreviations into related terms.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
)

// synonyms maps a canonical term to the related terms appended after it.
// Expansion is single-pass: replacement text is never expanded again.
var synonyms = map[string]string{
	"js":          "js javascript programming coding",
	"javascript":  "javascript programming coding",
	"java":        "java programming coding",
	"python":      "python programming coding",
	"sql":         "sql database queries data",
	"qa":          "qa quality assurance testing",
	"dev":         "dev developer engineer programming",
	"developer":   "developer engineer programming",
	"frontend":    "frontend front-end ui web development",
	"backend":     "backend back-end server api development",
	"cognitive":   "cognitive ability aptitude reasoning",
	"numerical":   "numerical math quantitative reasoning",
	"verbal":      "verbal language comprehension reasoning",
	"personality": "personality behavior traits workplace",
	"admin":       "admin administrative clerical office",
	"sales":       "sales business development account",
	"manager":     "manager management leadership supervisor",
	"analyst":     "analyst analysis data analytical",
}

var (
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}._\s-]+`)
	spacePattern = regexp.MustCompile(`\s+`)
	termPattern  = buildTermPattern()
)

// buildTermPattern compiles one alternation over all synonym terms so the
// table is applied in a single pass, longest terms first.
func buildTermPattern() *regexp.Regexp {
	terms := make([]string, 0, len(synonyms))
	for term := range synonyms {
		terms = append(terms, regexp.QuoteMeta(term))
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return regexp.MustCompile(`\b(` + strings.Join(terms, "|") + `)\b`)
}

// Normalize canonicalizes raw text: lowercase, punctuation other than
// hyphens, underscores, and periods collapsed to spaces, whitespace runs
// collapsed, surrounding whitespace trimmed. Recognized domain terms are
// then expanded to themselves plus related terms in one pass. Pure
// function; empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToLower(text)
	s = punctPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	return termPattern.ReplaceAllStringFunc(s, func(term string) string {
		if exp, ok := synonyms[term]; ok {
			return exp
		}
		return term
	})
}

// WordCount returns the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
