package catalog

import (
	"strings"

	"github.com/projectscout/projectscout/internal/booklet"
)

const (
	// emptyPlaceholder marks fields the extraction stage could not fill
	emptyPlaceholder = "empty"

	// maxSupervisorWords is the longest plausible supervisor list. Longer
	// values are almost always description text bleeding into the field.
	maxSupervisorWords = 15

	// SupervisorsParseFailed replaces supervisor fields that were blank or
	// overran the word limit
	SupervisorsParseFailed = "parse failed"
)

// CleanReport summarizes what Clean changed
type CleanReport struct {
	Removed           int `json:"removed"`
	FilledDescription int `json:"filled_descriptions"`
	FailedSupervisors int `json:"failed_supervisors"`
}

// Clean applies record quality rules before tokenization: records with more
// than two blank or placeholder fields are dropped, blank descriptions are
// filled with the title, and unusable supervisor fields are marked as
// "parse failed".
func Clean(projects []booklet.Project) ([]booklet.Project, CleanReport) {
	var report CleanReport
	cleaned := make([]booklet.Project, 0, len(projects))

	for _, p := range projects {
		if countBlankFields(p) > 2 {
			report.Removed++
			continue
		}

		if isBlankField(p.Description) {
			p.Description = p.Title
			report.FilledDescription++
		}

		if isBlankField(p.Supervisors) || len(strings.Fields(p.Supervisors)) > maxSupervisorWords {
			p.Supervisors = SupervisorsParseFailed
			report.FailedSupervisors++
		}

		cleaned = append(cleaned, p)
	}

	return cleaned, report
}

func countBlankFields(p booklet.Project) int {
	count := 0
	for _, field := range []string{p.Title, p.PrimaryTheme, p.Supervisors, p.Description} {
		if isBlankField(field) {
			count++
		}
	}
	return count
}

func isBlankField(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	return trimmed == "" || trimmed == emptyPlaceholder
}
