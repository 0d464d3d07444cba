package domain

import (
	"reflect"
	"testing"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestMerge_ExplicitWins(t *testing.T) {
	explicit := QueryFilters{
		Remote:             boolPtr(false),
		MaxDurationMinutes: intPtr(30),
	}
	hints := QueryFilters{
		Remote:             boolPtr(true),
		Adaptive:           boolPtr(true),
		MaxDurationMinutes: intPtr(60),
		RequiredSkills:     []string{"Java"},
	}

	merged := explicit.Merge(hints)

	if *merged.Remote != false {
		t.Error("explicit Remote overwritten by hint")
	}
	if *merged.MaxDurationMinutes != 30 {
		t.Errorf("MaxDurationMinutes = %d, want explicit 30", *merged.MaxDurationMinutes)
	}
	if merged.Adaptive == nil || !*merged.Adaptive {
		t.Error("unset Adaptive not filled from hints")
	}
	if !reflect.DeepEqual(merged.RequiredSkills, []string{"Java"}) {
		t.Errorf("RequiredSkills = %v, want [Java]", merged.RequiredSkills)
	}
}

func TestMatches(t *testing.T) {
	a := Assessment{
		RemoteSupport:   true,
		AdaptiveSupport: false,
		DurationMinutes: 45,
		TestTypes:       []string{"Coding Challenge", "Knowledge & Skills"},
	}

	tests := []struct {
		name    string
		filters QueryFilters
		want    bool
	}{
		{"empty filters match", QueryFilters{}, true},
		{"remote match", QueryFilters{Remote: boolPtr(true)}, true},
		{"remote mismatch", QueryFilters{Remote: boolPtr(false)}, false},
		{"adaptive mismatch", QueryFilters{Adaptive: boolPtr(true)}, false},
		{"duration within", QueryFilters{MaxDurationMinutes: intPtr(60)}, true},
		{"duration exceeded", QueryFilters{MaxDurationMinutes: intPtr(30)}, false},
		{"type any-match", QueryFilters{TestTypes: []string{"Personality Test", "Coding Challenge"}}, true},
		{"type no match", QueryFilters{TestTypes: []string{"Personality Test"}}, false},
		{"skills never exclude", QueryFilters{RequiredSkills: []string{"COBOL"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Matches(a); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationOnly(t *testing.T) {
	f := QueryFilters{
		Remote:             boolPtr(true),
		Adaptive:           boolPtr(true),
		MaxDurationMinutes: intPtr(45),
		TestTypes:          []string{"Coding Challenge"},
		RequiredSkills:     []string{"Java"},
	}

	relaxed := f.DurationOnly()

	if relaxed.Remote != nil || relaxed.Adaptive != nil || relaxed.TestTypes != nil {
		t.Error("hard filters other than duration not dropped")
	}
	if relaxed.MaxDurationMinutes == nil || *relaxed.MaxDurationMinutes != 45 {
		t.Error("duration bound lost")
	}
	if !reflect.DeepEqual(relaxed.RequiredSkills, []string{"Java"}) {
		t.Error("skill hints lost")
	}
}
