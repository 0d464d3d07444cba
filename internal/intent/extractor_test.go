package intent

import (
	"reflect"
	"testing"
)

func TestExtractFilters_Duration(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int // 0 means unset
	}{
		{"under minutes", "assessment under 30 minutes", 30},
		{"max minutes", "max 25 minutes please", 25},
		{"maximum minutes", "maximum 40 mins", 40},
		{"plain minutes", "a quick 15 min screen", 15},
		{"hours converted", "a 2 hour technical test", 120},
		{"single hr", "1 hr assessment", 60},
		{"no mention", "java developer assessment", 0},
		{"bare number", "top 10 candidates", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ExtractFilters(tt.query)
			if tt.want == 0 {
				if f.MaxDurationMinutes != nil {
					t.Errorf("MaxDurationMinutes = %d, want unset", *f.MaxDurationMinutes)
				}
				return
			}
			if f.MaxDurationMinutes == nil {
				t.Fatalf("MaxDurationMinutes unset, want %d", tt.want)
			}
			if *f.MaxDurationMinutes != tt.want {
				t.Errorf("MaxDurationMinutes = %d, want %d", *f.MaxDurationMinutes, tt.want)
			}
		})
	}
}

func TestExtractFilters_Remote(t *testing.T) {
	for _, q := range []string{"remote testing", "ONLINE assessment", "work from home role", "virtual interview"} {
		f := ExtractFilters(q)
		if f.Remote == nil || !*f.Remote {
			t.Errorf("ExtractFilters(%q).Remote = %v, want true", q, f.Remote)
		}
	}

	// Absence leaves the field unset, never false.
	if f := ExtractFilters("on-site coding test"); f.Remote != nil {
		t.Errorf("Remote = %v, want unset", *f.Remote)
	}
}

func TestExtractFilters_Adaptive(t *testing.T) {
	for _, q := range []string{"adaptive test", "IRT based", "personalized assessment", "customized test for sales"} {
		f := ExtractFilters(q)
		if f.Adaptive == nil || !*f.Adaptive {
			t.Errorf("ExtractFilters(%q).Adaptive = %v, want true", q, f.Adaptive)
		}
	}

	// "irt" must not match inside a word.
	if f := ExtractFilters("t-shirt company hiring"); f.Adaptive != nil {
		t.Error("Adaptive set for \"t-shirt\"")
	}
}

func TestExtractFilters_TestTypes(t *testing.T) {
	f := ExtractFilters("coding and programming plus personality screening")
	want := []string{"Coding Challenge", "Personality Test"}
	if !reflect.DeepEqual(f.TestTypes, want) {
		t.Errorf("TestTypes = %v, want %v (deduplicated)", f.TestTypes, want)
	}

	if f := ExtractFilters("hire a plumber"); f.TestTypes != nil {
		t.Errorf("TestTypes = %v, want none", f.TestTypes)
	}
}

func TestDetectSkills(t *testing.T) {
	got := DetectSkills("Java and SQL developer with React")
	want := []string{"Java", "SQL", "React"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectSkills = %v, want %v", got, want)
	}

	// "javascript" must not also trigger the "java" entry.
	got = DetectSkills("javascript frontend")
	want = []string{"JavaScript"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectSkills(javascript) = %v, want %v", got, want)
	}
}

func TestDetectSkills_CSharp(t *testing.T) {
	for _, q := range []string{"c# developer assessment", "senior C# engineer", "we need c#"} {
		got := DetectSkills(q)
		if !reflect.DeepEqual(got, []string{"C#"}) {
			t.Errorf("DetectSkills(%q) = %v, want [C#]", q, got)
		}
	}

	// A word running into "c" must not trigger it.
	if got := DetectSkills("basic#tag"); got != nil {
		t.Errorf("DetectSkills(\"basic#tag\") = %v, want none", got)
	}
}

func TestMentionsLanguageTerm(t *testing.T) {
	if !MentionsLanguageTerm("python scripting role") {
		t.Error("python not recognized as language term")
	}
	if MentionsLanguageTerm("docker and kubernetes admin") {
		t.Error("infrastructure tools wrongly counted as language terms")
	}
}

func TestExtractFilters_NeverErrors(t *testing.T) {
	for _, q := range []string{"", "   ", "!@#$%^&*", "測試 テスト"} {
		f := ExtractFilters(q)
		if f.Remote != nil || f.Adaptive != nil || f.MaxDurationMinutes != nil ||
			len(f.TestTypes) != 0 || len(f.RequiredSkills) != 0 {
			t.Errorf("ExtractFilters(%q) produced signals from noise: %+v", q, f)
		}
	}
}
