package booklet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultDescriptionMarker introduces the description section in plain-text
// booklet exports
const DefaultDescriptionMarker = "Project Description:"

// DefaultMaxDescriptionWords caps block descriptions when no limit is given
const DefaultMaxDescriptionWords = 100

// ErrNoProjects is returned when a text carries no parseable project blocks
var ErrNoProjects = errors.New("no projects could be parsed")

var blockSplitRE = regexp.MustCompile(`\n{2,}`)

// bulletCutset strips list decoration from title candidate lines
const bulletCutset = " -•\t"

// BlockExtractor parses plain booklet text where each project is a
// blank-line separated block introduced by a description marker. Used for
// .txt inputs and as a fallback when a PDF has no recognizable tables.
type BlockExtractor struct {
	marker   string
	maxWords int
}

// NewBlockExtractor creates a block extractor with the given description
// marker and description word cap
func NewBlockExtractor(marker string, maxWords int) *BlockExtractor {
	if marker == "" {
		marker = DefaultDescriptionMarker
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxDescriptionWords
	}
	return &BlockExtractor{
		marker:   marker,
		maxWords: maxWords,
	}
}

// Extract parses raw text into project records. The title is the last
// non-empty line before the marker (falling back to the block's first
// non-empty line); the description is the text after the marker, collapsed
// and truncated to the word cap. Duplicate titles are dropped.
func (e *BlockExtractor) Extract(text string) ([]Project, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var projects []Project
	seen := make(map[string]bool)

	for _, block := range blockSplitRE.Split(normalized, -1) {
		block = strings.TrimSpace(block)
		if block == "" || !strings.Contains(block, e.marker) {
			continue
		}

		// The marker can occur more than once per block
		offset := 0
		for {
			rel := strings.Index(block[offset:], e.marker)
			if rel < 0 {
				break
			}
			at := offset + rel
			pre := block[:at]
			post := block[at+len(e.marker):]
			if next := strings.Index(post, e.marker); next >= 0 {
				post = post[:next]
			}
			offset = at + len(e.marker)

			title := lastNonEmptyLine(pre)
			if title == "" {
				title = firstNonEmptyLine(block)
			}
			description := truncateWords(normalizeText(post), e.maxWords)

			if title == "" || description == "" || seen[title] {
				continue
			}
			seen[title] = true
			projects = append(projects, Project{Title: title, Description: description})
		}
	}

	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: text must contain the marker %q in blank-line separated blocks",
			ErrNoProjects, e.marker)
	}
	return projects, nil
}

// lastNonEmptyLine returns the last non-blank line of s stripped of list
// decoration, or "" when no such line survives the strip
func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		return strings.Trim(lines[i], bulletCutset)
	}
	return ""
}

// firstNonEmptyLine returns the first line of s that survives stripping list
// decoration
func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.Trim(line, bulletCutset); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// truncateWords keeps the first n whitespace-separated words of s
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
