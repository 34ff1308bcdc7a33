package booklet

import (
	"regexp"
	"strings"
)

// Field labels as they appear in booklet tables. Matching is by containment
// on lowercased, whitespace-collapsed cell text so that split or wrapped
// label cells still match.
const (
	labelTitle       = "project no & title"
	labelTheme       = "primary theme"
	labelSupervisors = "supervisors"
	labelDescription = "project description"
	labelRemit       = "remit"
)

// stopDescriptionLabels signal the end of a description block. The truncated
// form covers tables that wrap the label across cells.
var stopDescriptionLabels = []string{"reasonable expected outcome", "reasonab"}

// titleBoundaries end title accumulation across rows.
var titleBoundaries = []string{labelTheme, labelSupervisors, labelDescription, labelRemit}

// themeBoundaries end theme accumulation across rows.
var themeBoundaries = []string{labelSupervisors, labelDescription, labelTitle, labelRemit}

// supervisorBoundaries end supervisor accumulation across rows.
var supervisorBoundaries = []string{labelDescription, labelTitle, labelTheme, labelRemit}

var whitespaceRE = regexp.MustCompile(`\s+`)

// normalizeText collapses whitespace and trims the result
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// isLabelCell reports whether text looks like the label target
func isLabelCell(text, target string) bool {
	if text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(normalizeText(text)), target)
}

// cellHasAnyLabel reports whether text matches any of the given labels
func cellHasAnyLabel(text string, targets []string) bool {
	for _, target := range targets {
		if isLabelCell(text, target) {
			return true
		}
	}
	return false
}

// rowHasAnyLabel reports whether any non-empty cell of the row matches one of the labels
func rowHasAnyLabel(cells, targets []string) bool {
	for _, c := range cells {
		if c == "" {
			continue
		}
		if cellHasAnyLabel(c, targets) {
			return true
		}
	}
	return false
}

// normalizeCells normalizes every cell of a raw table row
func normalizeCells(row []string) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = normalizeText(c)
	}
	return cells
}

// joinCellsFrom joins the non-empty cells starting at index start
func joinCellsFrom(cells []string, start int) string {
	var parts []string
	for _, c := range cells[start:] {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// firstNonEmpty returns the index and value of the first non-empty cell,
// or (-1, "") when the row is blank
func firstNonEmpty(cells []string) (int, string) {
	for i, c := range cells {
		if c != "" {
			return i, c
		}
	}
	return -1, ""
}

// collectUntil joins the non-empty cells of following rows until a row
// carrying one of the boundary labels, returning the joined value and the
// index of the boundary row
func collectUntil(rows [][]string, start int, boundaries []string) (string, int) {
	var parts []string
	j := start
	for j < len(rows) {
		cells := normalizeCells(rows[j])
		if rowHasAnyLabel(cells, boundaries) {
			break
		}
		for _, c := range cells {
			if c != "" {
				parts = append(parts, c)
			}
		}
		j++
	}
	return strings.Join(parts, " "), j
}

// collectDescription gathers description rows until a stop label, returning
// the joined parts and the index of the stop row
func collectDescription(rows [][]string, start int, lead string) (string, int) {
	var parts []string
	if lead != "" {
		parts = append(parts, lead)
	}
	j := start
	for j < len(rows) {
		cells := normalizeCells(rows[j])
		if rowHasAnyLabel(cells, stopDescriptionLabels) {
			break
		}
		if rowText := joinCellsFrom(cells, 0); rowText != "" {
			parts = append(parts, rowText)
		}
		j++
	}
	return strings.TrimSpace(strings.Join(parts, " ")), j
}

// ExtractProjects walks table rows and accumulates labelled field values
// into project records. A row whose label cell carries the title label opens
// a new record; field values are taken from the remainder of the label row
// when present, otherwise accumulated from following rows until the next
// boundary label. Description accumulation ends only at its stop labels.
// Rows may carry the label in the second column when the first is blank.
func ExtractProjects(tableRows [][]string) []Project {
	var projects []Project
	var cur Project

	for i := 0; i < len(tableRows); i++ {
		cells := normalizeCells(tableRows[i])
		firstIdx, firstCell := firstNonEmpty(cells)

		switch {
		case isLabelCell(firstCell, labelTitle):
			if cur.Title != "" {
				projects = append(projects, cur)
				cur = Project{}
			}
			if remainder := joinCellsFrom(cells, firstIdx+1); remainder != "" {
				cur.Title = remainder
			} else {
				cur.Title, _ = collectUntil(tableRows, i+1, titleBoundaries)
			}

		case isLabelCell(firstCell, labelTheme):
			if remainder := joinCellsFrom(cells, firstIdx+1); remainder != "" {
				cur.PrimaryTheme = remainder
			} else {
				cur.PrimaryTheme, _ = collectUntil(tableRows, i+1, themeBoundaries)
			}

		case isLabelCell(firstCell, labelSupervisors):
			if remainder := joinCellsFrom(cells, firstIdx+1); remainder != "" {
				cur.Supervisors = remainder
			} else {
				cur.Supervisors, _ = collectUntil(tableRows, i+1, supervisorBoundaries)
			}

		case isLabelCell(firstCell, labelDescription):
			lead := joinCellsFrom(cells, firstIdx+1)
			desc, j := collectDescription(tableRows, i+1, lead)
			cur.Description = desc
			i = j - 1

		default:
			// Some booklets indent the label into the second column
			if len(cells) < 2 {
				continue
			}
			second := cells[1]
			switch {
			case isLabelCell(second, labelTitle):
				if remainder := joinCellsFrom(cells, 2); remainder != "" {
					cur.Title = remainder
				}
			case isLabelCell(second, labelTheme):
				if remainder := joinCellsFrom(cells, 2); remainder != "" {
					cur.PrimaryTheme = remainder
				}
			case isLabelCell(second, labelSupervisors):
				if remainder := joinCellsFrom(cells, 2); remainder != "" {
					cur.Supervisors = remainder
				}
			case isLabelCell(second, labelDescription):
				lead := joinCellsFrom(cells, 2)
				desc, j := collectDescription(tableRows, i+1, lead)
				cur.Description = desc
				i = j - 1
			}
		}
	}

	if !cur.IsEmpty() {
		projects = append(projects, cur)
	}
	return projects
}

// normalizeProject collapses whitespace in every field of a record
func normalizeProject(p Project) Project {
	return Project{
		Title:        normalizeText(p.Title),
		PrimaryTheme: normalizeText(p.PrimaryTheme),
		Supervisors:  normalizeText(p.Supervisors),
		Description:  normalizeText(p.Description),
	}
}
