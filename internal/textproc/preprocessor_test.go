package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectscout/projectscout/internal/booklet"
)

func newTestPreprocessor(t *testing.T) *Preprocessor {
	t.Helper()
	p, err := NewPreprocessor()
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestPrepareText_DropsStopwordsAndPunctuation(t *testing.T) {
	p := newTestPreprocessor(t)

	got, err := p.PrepareText("The solar panels on the roof, and the grid.")
	require.NoError(t, err)

	tokens := strings.Fields(got)
	assert.NotEmpty(t, tokens)
	assert.Contains(t, tokens, "solar")
	assert.Contains(t, tokens, "grid")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "and")
	assert.NotContains(t, tokens, ",")
	assert.NotContains(t, tokens, ".")
}

func TestPrepareText_LowercasesEverything(t *testing.T) {
	p := newTestPreprocessor(t)

	got, err := p.PrepareText("SOLAR Panels Stockholm")
	require.NoError(t, err)

	assert.Equal(t, strings.ToLower(got), got)
	assert.Contains(t, strings.Fields(got), "solar")
}

func TestPrepareText_LemmatizesVerbs(t *testing.T) {
	p := newTestPreprocessor(t)

	got, err := p.PrepareText("The robots are running across warehouses")
	require.NoError(t, err)

	tokens := strings.Fields(got)
	assert.Contains(t, tokens, "run", "verb should be reduced to its lemma")
	assert.NotContains(t, tokens, "running")
	// Non-verbs pass through untouched
	assert.Contains(t, tokens, "robots")
}

func TestPrepareText_OnlyAlphabeticTokensSurvive(t *testing.T) {
	p := newTestPreprocessor(t)

	got, err := p.PrepareText("Budget: 42% of $1,000 in 2026! See fig. 3b")
	require.NoError(t, err)

	for _, tok := range strings.Fields(got) {
		assert.True(t, isAlpha(tok), "non-alphabetic token survived: %q", tok)
	}
}

func TestPrepareText_ContractionsLeaveNoFragments(t *testing.T) {
	p := newTestPreprocessor(t)

	got, err := p.PrepareText("We don't ship what we can't measure")
	require.NoError(t, err)

	tokens := strings.Fields(got)
	assert.NotContains(t, tokens, "nt")
	assert.NotContains(t, tokens, "t")
	assert.Contains(t, tokens, "ship")
	assert.Contains(t, tokens, "measure")
}

func TestPrepareText_EmptyInput(t *testing.T) {
	p := newTestPreprocessor(t)

	for _, input := range []string{"", "   ", "\n\t"} {
		got, err := p.PrepareText(input)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestPrepareText_SameRoutineForQueryAndCorpus(t *testing.T) {
	p := newTestPreprocessor(t)

	text := "Forecasting coastal erosion with satellite imagery"
	first, err := p.PrepareText(text)
	require.NoError(t, err)
	second, err := p.PrepareText(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPrepareRecords(t *testing.T) {
	p := newTestPreprocessor(t)

	projects := []booklet.Project{
		{
			Title:        "P-01 Coastal Erosion Forecasting",
			PrimaryTheme: "Climate",
			Supervisors:  "Dr Ada Osei",
			Description:  "Builds a shoreline change model from satellite imagery.",
		},
		{
			Title:        "P-02 Empty Description",
			PrimaryTheme: "Cities",
			Supervisors:  "Prof Lena Fischer",
			Description:  "",
		},
	}

	tokenized, err := p.PrepareRecords(projects)
	require.NoError(t, err)
	require.Len(t, tokenized, 2)

	assert.Equal(t, projects[0], tokenized[0].Project)
	assert.NotEmpty(t, tokenized[0].TokenizedDescription)
	assert.Contains(t, strings.Fields(tokenized[0].TokenizedDescription), "shoreline")

	assert.Equal(t, projects[1], tokenized[1].Project)
	assert.Empty(t, tokenized[1].TokenizedDescription)
}

func TestIsAlpha(t *testing.T) {
	assert.True(t, isAlpha("model"))
	assert.True(t, isAlpha("résumé"))
	assert.False(t, isAlpha(""))
	assert.False(t, isAlpha("3b"))
	assert.False(t, isAlpha("n't"))
	assert.False(t, isAlpha("co-design"))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, isStopword("the"))
	assert.True(t, isStopword("and"))
	assert.False(t, isStopword("shoreline"))
	assert.False(t, isStopword("erosion"))
}
