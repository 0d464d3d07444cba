package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/hireloop/skillmatch/internal/domain"
	"github.com/hireloop/skillmatch/internal/intent"
)

// Keyword scoring weights.
const (
	keywordHit         = 1.0
	titleBonus         = 2.0
	fieldBonus         = 1.5
	skillHit           = 3.0
	allSkillsBonus     = 5.0
	languageTypeBonus  = 4.0
	durationBonusScale = 2.0
)

// KeywordSearch scores candidates by literal token overlap with the raw
// query, plus tech-skill, language-term, and duration-closeness bonuses.
// Candidates with a total score of 0 or less are excluded; the rest sort
// by descending score, ties in original order.
func KeywordSearch(
	candidates []domain.Assessment, query string,
	skills []string, maxDuration *int,
) []domain.ScoredAssessment {
	q := strings.ToLower(query)
	words := queryTokens(q)
	mentionsLanguage := intent.MentionsLanguageTerm(q)

	var scored []domain.ScoredAssessment
	for _, c := range candidates {
		score := scoreCandidate(&c, q, words, skills, mentionsLanguage, maxDuration)
		if score > 0 {
			scored = append(scored, domain.ScoredAssessment{Assessment: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreCandidate(
	c *domain.Assessment, query string, words []string,
	skills []string, mentionsLanguage bool, maxDuration *int,
) float64 {
	haystack := c.SearchText()
	title := strings.ToLower(c.Title)
	fields := strings.ToLower(strings.Join(c.JobLevels, " ") + " " + strings.Join(c.TestTypes, " "))

	var score float64
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			continue
		}
		score += keywordHit
		if strings.Contains(title, w) {
			score += titleBonus
		}
		if strings.Contains(fields, w) {
			score += fieldBonus
		}
	}

	matched := 0
	for _, skill := range skills {
		if strings.Contains(haystack, strings.ToLower(skill)) {
			score += skillHit
			matched++
		}
	}
	if len(skills) > 0 && matched == len(skills) {
		score += allSkillsBonus
	}

	if mentionsLanguage && c.HasTechnicalType() {
		score += languageTypeBonus
	}

	if maxDuration != nil && *maxDuration > 0 && c.DurationMinutes <= *maxDuration {
		closeness := 1 - math.Abs(float64(c.DurationMinutes-*maxDuration))/float64(*maxDuration)
		if closeness > 0 {
			score += durationBonusScale * closeness
		}
	}

	return score
}

// queryTokens splits the query into lowercase words longer than two runes.
func queryTokens(query string) []string {
	fields := strings.Fields(query)
	words := fields[:0:0]
	for _, w := range fields {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}
