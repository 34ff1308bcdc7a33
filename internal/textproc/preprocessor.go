// Package textproc normalizes description text into the token form the
// recommender matches against.
package textproc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/v2"

	"github.com/projectscout/projectscout/internal/booklet"
	"github.com/projectscout/projectscout/internal/catalog"
)

// verbTags are the Penn Treebank verb tags
var verbTags = map[string]bool{
	"VB":  true,
	"VBD": true,
	"VBG": true,
	"VBN": true,
	"VBP": true,
	"VBZ": true,
}

// contractionReplacer expands clitics before tokenization so the expanded
// words go through the normal stopword filter instead of surviving as
// fragments
var contractionReplacer = strings.NewReplacer(
	"n't", " not",
	"'re", " are",
	"'ll", " will",
	"'ve", " have",
	"'m", " am",
	"'s", " is",
	"'d", " would",
)

// Preprocessor tokenizes, tags and lemmatizes text. The same routine is
// applied to catalog descriptions and to live queries so both end up in the
// same token space.
type Preprocessor struct {
	lemmatizer *golem.Lemmatizer
}

// NewPreprocessor creates a preprocessor with the English lemma dictionary
func NewPreprocessor() (*Preprocessor, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemma dictionary: %w", err)
	}
	return &Preprocessor{lemmatizer: lemmatizer}, nil
}

// PrepareText lowercases and tokenizes text, lemmatizes verb tokens, and
// drops stopwords and non-alphabetic tokens. The surviving tokens are
// returned as a single space-joined string.
func (p *Preprocessor) PrepareText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	expanded := contractionReplacer.Replace(strings.ToLower(text))

	doc, err := prose.NewDocument(expanded,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return "", fmt.Errorf("failed to tokenize text: %w", err)
	}

	var kept []string
	for _, tok := range doc.Tokens() {
		word := tok.Text
		if verbTags[tok.Tag] {
			word = p.lemmatizer.Lemma(word)
		}
		if !isAlpha(word) || isStopword(word) {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " "), nil
}

// PrepareRecords tokenizes the description of every record
func (p *Preprocessor) PrepareRecords(projects []booklet.Project) ([]catalog.TokenizedProject, error) {
	tokenized := make([]catalog.TokenizedProject, 0, len(projects))
	for _, project := range projects {
		tokens, err := p.PrepareText(project.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to tokenize description of %q: %w", project.Title, err)
		}
		tokenized = append(tokenized, catalog.TokenizedProject{
			Project:              project,
			TokenizedDescription: tokens,
		})
	}
	return tokenized, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isStopword(word string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
}
