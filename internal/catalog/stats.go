package catalog

import (
	"sort"
	"strings"

	rake "github.com/afjoseph/RAKE.Go"

	"github.com/projectscout/projectscout/internal/booklet"
)

// Stats summarizes a project catalog
type Stats struct {
	Projects            int            `json:"projects"`
	Themes              map[string]int `json:"themes"`
	Supervisors         int            `json:"supervisors"`
	AvgDescriptionWords float64        `json:"avg_description_words"`
}

// themeUnspecified buckets records whose theme never got parsed
const themeUnspecified = "unspecified"

// Summarize computes catalog statistics: record count, projects per theme,
// distinct supervisor entries and average description length
func Summarize(projects []booklet.Project) Stats {
	stats := Stats{
		Projects: len(projects),
		Themes:   make(map[string]int),
	}

	supervisors := make(map[string]bool)
	totalWords := 0

	for _, p := range projects {
		theme := strings.TrimSpace(p.PrimaryTheme)
		if theme == "" {
			theme = themeUnspecified
		}
		stats.Themes[theme]++

		sup := strings.TrimSpace(p.Supervisors)
		if sup != "" && sup != SupervisorsParseFailed {
			supervisors[strings.ToLower(sup)] = true
		}

		totalWords += len(strings.Fields(p.Description))
	}

	stats.Supervisors = len(supervisors)
	if len(projects) > 0 {
		stats.AvgDescriptionWords = float64(totalWords) / float64(len(projects))
	}
	return stats
}

// Keyword is a scored key phrase drawn from catalog descriptions
type Keyword struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// Keywords runs RAKE over all project descriptions and returns the topN
// highest scoring phrases
func Keywords(projects []booklet.Project, topN int) []Keyword {
	if topN <= 0 {
		topN = 10
	}

	var sb strings.Builder
	for _, p := range projects {
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			continue
		}
		sb.WriteString(desc)
		// Sentence break keeps phrases from spanning records
		if !strings.HasSuffix(desc, ".") {
			sb.WriteString(".")
		}
		sb.WriteString(" ")
	}
	if sb.Len() == 0 {
		return nil
	}

	candidates := rake.RunRake(sb.String())
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})

	keywords := make([]Keyword, 0, topN)
	for _, c := range candidates {
		if len(keywords) == topN {
			break
		}
		keywords = append(keywords, Keyword{Phrase: c.Key, Score: c.Value})
	}
	return keywords
}
