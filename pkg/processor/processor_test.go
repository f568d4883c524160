package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/pkg/processor"
)

func inputs() []models.Document {
	return []models.Document{
		{
			Examples: []models.Example{
				{Text: "hi", Intent: "greet", Entities: []models.Entity{}},
			},
			Synonyms: []models.Synonym{{Value: "nyc", Synonyms: []string{"new york"}}},
		},
		{
			Examples: []models.Example{
				{Text: "hi", Intent: "greet", Entities: []models.Entity{}},
				{Text: "bye", Intent: "  good   bye ", Entities: []models.Entity{}},
			},
			RegexFeatures: []models.RegexFeature{{Name: "zip", Pattern: "[0-9]{5}"}},
			Synonyms:      []models.Synonym{{Value: "nyc", Synonyms: []string{"new york"}}},
		},
	}
}

func TestProcessor_Process(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	merged, stats, err := p.Process(inputs())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inputs)
	assert.Equal(t, 0, stats.Dropped)
	assert.Len(t, merged.Examples, 3)
	assert.Len(t, merged.RegexFeatures, 1)
	assert.Len(t, merged.Synonyms, 2)
	assert.Equal(t, "  good   bye ", merged.Examples[2].Intent)
}

func TestProcessor_Dedupe(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{Dedupe: true})

	merged, stats, err := p.Process(inputs())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Dropped)
	require.Len(t, merged.Examples, 2)
	assert.Equal(t, "hi", merged.Examples[0].Text)
	assert.Equal(t, "bye", merged.Examples[1].Text)
	assert.Len(t, merged.Synonyms, 1)
}

func TestProcessor_CleanLabels(t *testing.T) {
	docs := inputs()
	p := processor.NewWithConfig(processor.ProcessorConfig{CleanLabels: true})

	merged, _, err := p.Process(docs)

	require.NoError(t, err)
	assert.Equal(t, "good bye", merged.Examples[2].Intent)
	// inputs are not modified
	assert.Equal(t, "  good   bye ", docs[1].Examples[1].Intent)
}

func TestProcessor_Progress(t *testing.T) {
	var calls []int
	p := processor.NewWithConfig(processor.ProcessorConfig{
		OnProgress: func(i int) { calls = append(calls, i) },
	})

	_, _, err := p.Process(inputs())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, calls)
}

func TestProcessor_Empty(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{Dedupe: true})

	merged, _, err := p.Process(nil)
	require.NoError(t, err)
	assert.True(t, merged.IsEmpty())
	assert.NotNil(t, merged.Examples)
}
