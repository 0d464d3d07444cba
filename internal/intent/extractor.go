// Package intent extracts structured constraints out of free-text queries
// via pattern rules. It deliberately operates on the raw lowercased text,
// not the synonym-expanded form, to avoid false positives from expansion.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hireloop/skillmatch/internal/domain"
)

// Duration phrasings, first successful pattern wins. Bounded phrasings
// ("max 30 minutes", "under 30 minutes") are checked before the generic
// number-plus-unit form; hour units convert to minutes.
var (
	boundedMinutesPattern = regexp.MustCompile(`(?:max(?:imum)?|under|within|at most|less than)\s+(\d+)\s*(?:minutes|mins|min)\b`)
	hoursPattern          = regexp.MustCompile(`(\d+)\s*(?:hours|hour|hrs|hr)\b`)
	minutesPattern        = regexp.MustCompile(`(\d+)\s*(?:minutes|mins|min)\b`)

	remotePattern   = regexp.MustCompile(`\b(?:remote|online|virtual|from home)\b`)
	adaptivePattern = regexp.MustCompile(`\b(?:adaptive|irt|personalized|personalised|customized test)\b`)
)

// testTypeTable maps query keywords to canonical test-type labels.
// Iteration order is fixed; each label is added at most once.
var testTypeTable = []struct {
	keyword *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`\bcoding\b`), "Coding Challenge"},
	{regexp.MustCompile(`\bprogramming\b`), "Coding Challenge"},
	{regexp.MustCompile(`\btechnical\b`), "Technical Assessment"},
	{regexp.MustCompile(`\b(?:cognitive|aptitude|reasoning)\b`), "Cognitive Assessment"},
	{regexp.MustCompile(`\b(?:personality|behavioral|behavioural)\b`), "Personality Test"},
	{regexp.MustCompile(`\b(?:situational|judgement|judgment)\b`), "Situational Judgement"},
	{regexp.MustCompile(`\b(?:language|english)\b`), "Language Proficiency"},
	{regexp.MustCompile(`\bsimulation\b`), "Job Simulation"},
}

// skillTable maps query keywords to tech-skill labels. Skills never hard-
// exclude a candidate, they only feed supplementary scoring.
var skillTable = []struct {
	keyword *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`\bjava\b`), "Java"},
	{regexp.MustCompile(`\b(?:javascript|js)\b`), "JavaScript"},
	{regexp.MustCompile(`\bpython\b`), "Python"},
	{regexp.MustCompile(`\bsql\b`), "SQL"},
	// "#" is a non-word rune, so a trailing \b would never match.
	{regexp.MustCompile(`\bc#(?:\W|$)`), "C#"},
	{regexp.MustCompile(`\bgolang\b`), "Go"},
	{regexp.MustCompile(`\breact\b`), "React"},
	{regexp.MustCompile(`\bangular\b`), "Angular"},
	{regexp.MustCompile(`\bnode(?:\.js)?\b`), "Node.js"},
	{regexp.MustCompile(`\baws\b`), "AWS"},
	{regexp.MustCompile(`\bdocker\b`), "Docker"},
	{regexp.MustCompile(`\bkubernetes\b`), "Kubernetes"},
	{regexp.MustCompile(`\bexcel\b`), "Excel"},
	{regexp.MustCompile(`\bsalesforce\b`), "Salesforce"},
}

// ExtractFilters parses duration, remote/adaptive requirements, test-type
// mentions, and tech-skill mentions out of the query. Extraction never
// fails; absent signals leave the corresponding field unset.
func ExtractFilters(query string) domain.QueryFilters {
	q := strings.ToLower(query)
	var f domain.QueryFilters

	if d, ok := extractDuration(q); ok {
		f.MaxDurationMinutes = &d
	}
	if remotePattern.MatchString(q) {
		v := true
		f.Remote = &v
	}
	if adaptivePattern.MatchString(q) {
		v := true
		f.Adaptive = &v
	}

	seen := map[string]bool{}
	for _, e := range testTypeTable {
		if e.keyword.MatchString(q) && !seen[e.label] {
			seen[e.label] = true
			f.TestTypes = append(f.TestTypes, e.label)
		}
	}

	f.RequiredSkills = DetectSkills(q)
	return f
}

// DetectSkills returns the tech-skill labels mentioned in the query,
// deduplicated, in table order. The query is lowercased internally.
func DetectSkills(query string) []string {
	q := strings.ToLower(query)
	var skills []string
	for _, e := range skillTable {
		if e.keyword.MatchString(q) {
			skills = append(skills, e.label)
		}
	}
	return skills
}

// MentionsLanguageTerm reports whether the query names a programming
// language or SQL, which boosts technical-type candidates in keyword
// scoring.
func MentionsLanguageTerm(query string) bool {
	q := strings.ToLower(query)
	for _, e := range skillTable {
		switch e.label {
		case "Java", "JavaScript", "Python", "SQL", "C#", "Go":
			if e.keyword.MatchString(q) {
				return true
			}
		}
	}
	return false
}

func extractDuration(q string) (int, bool) {
	if m := boundedMinutesPattern.FindStringSubmatch(q); m != nil {
		return atoiSafe(m[1])
	}
	if m := hoursPattern.FindStringSubmatch(q); m != nil {
		if n, ok := atoiSafe(m[1]); ok {
			return n * 60, true
		}
		return 0, false
	}
	if m := minutesPattern.FindStringSubmatch(q); m != nil {
		return atoiSafe(m[1])
	}
	return 0, false
}

func atoiSafe(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
