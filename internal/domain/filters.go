package domain

// QueryFilters carries structured constraints for one search call.
// Nil pointer fields mean "don't care". RequiredSkills only influence
// scoring and never exclude a candidate.
type QueryFilters struct {
	Remote             *bool    `json:"remote,omitempty"`
	Adaptive           *bool    `json:"adaptive,omitempty"`
	MaxDurationMinutes *int     `json:"max_duration_minutes,omitempty"`
	TestTypes          []string `json:"test_types,omitempty"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
}

// Merge fills unset fields from hints extracted out of the query text.
// Explicitly supplied values always win over inferred ones.
func (f QueryFilters) Merge(hints QueryFilters) QueryFilters {
	out := f
	if out.Remote == nil {
		out.Remote = hints.Remote
	}
	if out.Adaptive == nil {
		out.Adaptive = hints.Adaptive
	}
	if out.MaxDurationMinutes == nil {
		out.MaxDurationMinutes = hints.MaxDurationMinutes
	}
	if len(out.TestTypes) == 0 {
		out.TestTypes = hints.TestTypes
	}
	if len(out.RequiredSkills) == 0 {
		out.RequiredSkills = hints.RequiredSkills
	}
	return out
}

// DurationOnly keeps the duration bound and soft skill hints, dropping the
// remote, adaptive, and test-type constraints. Used when strict filtering
// leaves too few candidates for keyword search.
func (f QueryFilters) DurationOnly() QueryFilters {
	return QueryFilters{
		MaxDurationMinutes: f.MaxDurationMinutes,
		RequiredSkills:     f.RequiredSkills,
	}
}

// Matches applies the hard filters to a candidate. Any mismatch excludes
// it; test types use match-any semantics.
func (f QueryFilters) Matches(a Assessment) bool {
	if f.Remote != nil && a.RemoteSupport != *f.Remote {
		return false
	}
	if f.Adaptive != nil && a.AdaptiveSupport != *f.Adaptive {
		return false
	}
	if f.MaxDurationMinutes != nil && a.DurationMinutes > *f.MaxDurationMinutes {
		return false
	}
	if len(f.TestTypes) > 0 && !matchesAnyType(f.TestTypes, a.TestTypes) {
		return false
	}
	return true
}

func matchesAnyType(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
