package catalog

import (
	"testing"

	"github.com/projectscout/projectscout/internal/booklet"
)

func TestSummarize(t *testing.T) {
	projects := []booklet.Project{
		{Title: "P-01", PrimaryTheme: "Climate", Supervisors: "Dr Osei", Description: "one two three four"},
		{Title: "P-02", PrimaryTheme: "Climate", Supervisors: "dr osei", Description: "one two"},
		{Title: "P-03", PrimaryTheme: "Cities", Supervisors: SupervisorsParseFailed, Description: "one two three"},
		{Title: "P-04", PrimaryTheme: "  ", Supervisors: "", Description: "one"},
	}

	stats := Summarize(projects)

	if stats.Projects != 4 {
		t.Errorf("expected 4 projects but got %d", stats.Projects)
	}
	if stats.Themes["Climate"] != 2 {
		t.Errorf("expected 2 Climate projects but got %d", stats.Themes["Climate"])
	}
	if stats.Themes["Cities"] != 1 {
		t.Errorf("expected 1 Cities project but got %d", stats.Themes["Cities"])
	}
	if stats.Themes[themeUnspecified] != 1 {
		t.Errorf("expected 1 unspecified theme but got %d", stats.Themes[themeUnspecified])
	}

	// "Dr Osei" and "dr osei" fold together; parse failures and blanks don't count
	if stats.Supervisors != 1 {
		t.Errorf("expected 1 distinct supervisor but got %d", stats.Supervisors)
	}

	if stats.AvgDescriptionWords != 2.5 {
		t.Errorf("expected average of 2.5 words but got %v", stats.AvgDescriptionWords)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	if stats.Projects != 0 {
		t.Errorf("expected 0 projects but got %d", stats.Projects)
	}
	if stats.AvgDescriptionWords != 0 {
		t.Errorf("expected 0 average but got %v", stats.AvgDescriptionWords)
	}
	if len(stats.Themes) != 0 {
		t.Errorf("expected no themes but got %v", stats.Themes)
	}
}

func TestKeywords(t *testing.T) {
	projects := []booklet.Project{
		{Title: "P-01", Description: "Deep learning models for coastal erosion forecasting"},
		{Title: "P-02", Description: "Deep learning models for traffic flow prediction"},
		{Title: "P-03", Description: "Wearable sensors for heart rate monitoring"},
	}

	keywords := Keywords(projects, 5)
	if len(keywords) == 0 {
		t.Fatal("expected keywords but got none")
	}
	if len(keywords) > 5 {
		t.Fatalf("expected at most 5 keywords but got %d", len(keywords))
	}

	for i := 1; i < len(keywords); i++ {
		if keywords[i].Score > keywords[i-1].Score {
			t.Errorf("keywords not sorted by score: %v before %v", keywords[i-1], keywords[i])
		}
	}
	for _, kw := range keywords {
		if kw.Phrase == "" {
			t.Error("keyword with empty phrase")
		}
	}
}

func TestKeywordsEmptyCatalog(t *testing.T) {
	if got := Keywords(nil, 5); got != nil {
		t.Errorf("expected nil keywords but got %v", got)
	}

	blankOnly := []booklet.Project{{Title: "P-01", Description: "   "}}
	if got := Keywords(blankOnly, 5); got != nil {
		t.Errorf("expected nil keywords but got %v", got)
	}
}
