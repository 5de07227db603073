package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMeiliSettings_MapsEveryField(t *testing.T) {
	distinct := "url"
	s := &Settings{
		SearchableAttributes: []string{"hierarchy_lvl1", "content"},
		DisplayedAttributes:  []string{"*"},
		FilterableAttributes: []string{"tags"},
		SortableAttributes:   []string{"item_priority"},
		RankingRules:         []string{"words", "typo"},
		DistinctAttribute:    &distinct,
		StopWords:            []string{"the"},
		Synonyms:             map[string][]string{"cli": {"command line"}},
		SeparatorTokens:      []string{"|", "&sep;"},
		NonSeparatorTokens:   []string{"@", "#"},
	}

	out := toMeiliSettings(s)

	assert.Equal(t, s.SearchableAttributes, out.SearchableAttributes)
	assert.Equal(t, s.DisplayedAttributes, out.DisplayedAttributes)
	assert.Equal(t, s.FilterableAttributes, out.FilterableAttributes)
	assert.Equal(t, s.SortableAttributes, out.SortableAttributes)
	assert.Equal(t, s.RankingRules, out.RankingRules)
	assert.Equal(t, &distinct, out.DistinctAttribute)
	assert.Equal(t, s.StopWords, out.StopWords)
	assert.Equal(t, s.Synonyms, out.Synonyms)

	// Tokenizer overrides must survive the mapping so configurations can
	// tune word splitting for code-heavy documentation.
	assert.Equal(t, []string{"|", "&sep;"}, out.SeparatorTokens)
	assert.Equal(t, []string{"@", "#"}, out.NonSeparatorTokens)
}

func TestToMeiliSettings_TypoTolerance(t *testing.T) {
	s := &Settings{
		TypoTolerance: &TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
			DisableOnWords:      []string{"objectID"},
			DisableOnAttributes: []string{"url"},
		},
	}

	out := toMeiliSettings(s)

	require.NotNil(t, out.TypoTolerance)
	assert.True(t, out.TypoTolerance.Enabled)
	assert.Equal(t, int64(4), out.TypoTolerance.MinWordSizeForTypos.OneTypo)
	assert.Equal(t, int64(8), out.TypoTolerance.MinWordSizeForTypos.TwoTypos)
	assert.Equal(t, []string{"objectID"}, out.TypoTolerance.DisableOnWords)
	assert.Equal(t, []string{"url"}, out.TypoTolerance.DisableOnAttributes)
}

func TestToMeiliSettings_AbsentFieldsStayAbsent(t *testing.T) {
	out := toMeiliSettings(&Settings{})

	assert.Nil(t, out.SearchableAttributes)
	assert.Nil(t, out.DistinctAttribute)
	assert.Nil(t, out.SeparatorTokens)
	assert.Nil(t, out.TypoTolerance)
}
