// Package recommend scores a free-text query against tokenized project
// descriptions with TF-IDF cosine similarity.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/caneroj1/stemmer"
	"github.com/james-bowman/nlp"
	"github.com/james-bowman/nlp/measures/pairwise"
	"gonum.org/v1/gonum/mat"

	"github.com/projectscout/projectscout/internal/catalog"
)

// ErrQueryTooShort is returned when the query carries too few words for a
// meaningful match
var ErrQueryTooShort = errors.New("statement too short")

// DefaultTopN caps the result list when the request does not say how many
// projects it wants
const DefaultTopN = 10

// QueryPreparer normalizes a raw query into the token space the catalog
// descriptions were tokenized into
type QueryPreparer interface {
	PrepareText(text string) (string, error)
}

// Request asks for the projects closest to a free-text statement
type Request struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
}

// Recommendation is one scored match
type Recommendation struct {
	Title        string   `json:"title"`
	PrimaryTheme string   `json:"primary_theme"`
	Supervisors  string   `json:"supervisors"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// Result carries the scored matches, best first
type Result struct {
	Query           string           `json:"query"`
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// Recommender matches queries against a tokenized project catalog
type Recommender struct {
	preparer      QueryPreparer
	minQueryWords int
}

// NewRecommender creates a recommender. Queries must carry more than
// minQueryWords raw words before they are accepted.
func NewRecommender(preparer QueryPreparer, minQueryWords int) *Recommender {
	if minQueryWords <= 0 {
		minQueryWords = 15
	}
	return &Recommender{
		preparer:      preparer,
		minQueryWords: minQueryWords,
	}
}

// Recommend fits a TF-IDF model over the tokenized descriptions, scores
// every description against each query word, and returns the TopN projects
// by summed cosine similarity. Projects with no overlap score zero and are
// never returned.
func (r *Recommender) Recommend(req Request, projects []catalog.TokenizedProject) (*Result, error) {
	rawWords := len(strings.Fields(req.Query))
	if rawWords <= r.minQueryWords {
		return nil, fmt.Errorf("%w: got %d words, need more than %d",
			ErrQueryTooShort, rawWords, r.minQueryWords)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no tokenized descriptions to match against")
	}

	topN := req.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	queryTokens, err := r.preparer.PrepareText(req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}

	result := &Result{Query: req.Query}

	queryWords := strings.Fields(queryTokens)
	if len(queryWords) == 0 {
		result.Warnings = append(result.Warnings, "query contained no matchable terms")
		return result, nil
	}

	corpus := make([]string, len(projects))
	hasTokens := false
	for i, p := range projects {
		corpus[i] = p.TokenizedDescription
		if strings.TrimSpace(p.TokenizedDescription) != "" {
			hasTokens = true
		}
	}
	if !hasTokens {
		return nil, fmt.Errorf("no tokenized descriptions to match against")
	}

	scores, err := scoreCorpus(corpus, queryWords)
	if err != nil {
		return nil, err
	}

	ranked := rankByScore(scores)
	for _, idx := range ranked {
		if len(result.Recommendations) == topN {
			break
		}
		p := projects[idx]
		result.Recommendations = append(result.Recommendations, Recommendation{
			Title:        p.Title,
			PrimaryTheme: p.PrimaryTheme,
			Supervisors:  p.Supervisors,
			Score:        scores[idx],
			MatchedTerms: matchedTerms(queryWords, p.TokenizedDescription),
		})
	}

	if len(result.Recommendations) < topN {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("there are only %d recommendations available", len(result.Recommendations)))
	}

	return result, nil
}

// scoreCorpus returns the summed per-word cosine similarity of the query
// against every corpus document
func scoreCorpus(corpus, queryWords []string) ([]float64, error) {
	vectoriser := nlp.NewCountVectoriser()
	transformer := nlp.NewTfidfTransformer()
	pipeline := nlp.NewPipeline(vectoriser, transformer)

	corpusMatrix, err := pipeline.FitTransform(corpus...)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorise descriptions: %w", err)
	}

	// Each query word is transformed on its own so a document collects one
	// similarity contribution per word it shares with the query
	queryMatrix, err := pipeline.Transform(queryWords...)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorise query: %w", err)
	}

	corpusDense := mat.DenseCopyOf(corpusMatrix)
	queryDense := mat.DenseCopyOf(queryMatrix)

	_, docs := corpusDense.Dims()
	_, words := queryDense.Dims()

	scores := make([]float64, docs)
	for d := 0; d < docs; d++ {
		docVec := corpusDense.ColView(d)
		for w := 0; w < words; w++ {
			sim := pairwise.CosineSimilarity(queryDense.ColView(w), docVec)
			if math.IsNaN(sim) {
				// Zero vector on either side, nothing shared
				continue
			}
			scores[d] += sim
		}
	}

	return scores, nil
}

// rankByScore returns document indices with positive scores, highest first.
// Ties keep catalog order.
func rankByScore(scores []float64) []int {
	indices := make([]int, 0, len(scores))
	for i, score := range scores {
		if score > 0 {
			indices = append(indices, i)
		}
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})
	return indices
}

// matchedTerms returns the description tokens whose stem also appears in
// the query, so callers can show why a project matched
func matchedTerms(queryWords []string, tokenized string) []string {
	queryStems := make(map[string]bool, len(queryWords))
	for _, w := range queryWords {
		queryStems[strings.ToLower(stemmer.Stem(w))] = true
	}

	seen := make(map[string]bool)
	var terms []string
	for _, tok := range strings.Fields(tokenized) {
		if seen[tok] {
			continue
		}
		if queryStems[strings.ToLower(stemmer.Stem(tok))] {
			seen[tok] = true
			terms = append(terms, tok)
		}
	}

	sort.Strings(terms)
	return terms
}
