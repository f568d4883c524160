package processor

import (
	"encoding/json"
	"strings"

	"github.com/xhad/rasanlu/internal/models"
)

type ProcessorConfig struct {
	// Dedupe drops records identical to one already kept.
	Dedupe bool
	// CleanLabels collapses whitespace in intents, regex names and synonym
	// values. Example text is never touched since entity offsets point into it.
	CleanLabels bool
	// OnProgress is called once per merged input.
	OnProgress func(index int)
}

// Stats counts what Process did.
type Stats struct {
	Inputs  int
	Dropped int
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	return Processor{
		config: config,
	}
}

// Process merges docs in order into a single Document.
func (p *Processor) Process(docs []models.Document) (models.Document, Stats, error) {
	merged := models.NewDocument()
	stats := Stats{Inputs: len(docs)}

	for i, doc := range docs {
		merged = merged.Merge(p.clean(doc))
		if p.config.OnProgress != nil {
			p.config.OnProgress(i)
		}
	}

	if p.config.Dedupe {
		var err error
		var n int
		if merged.Examples, n, err = dedupe(merged.Examples); err != nil {
			return models.Document{}, stats, err
		}
		stats.Dropped += n
		if merged.RegexFeatures, n, err = dedupe(merged.RegexFeatures); err != nil {
			return models.Document{}, stats, err
		}
		stats.Dropped += n
		if merged.Synonyms, n, err = dedupe(merged.Synonyms); err != nil {
			return models.Document{}, stats, err
		}
		stats.Dropped += n
	}

	return merged, stats, nil
}

func (p *Processor) clean(doc models.Document) models.Document {
	if !p.config.CleanLabels {
		return doc
	}

	doc = doc.Clone()
	for i := range doc.Examples {
		doc.Examples[i].Intent = cleanLabel(doc.Examples[i].Intent)
	}
	for i := range doc.RegexFeatures {
		doc.RegexFeatures[i].Name = cleanLabel(doc.RegexFeatures[i].Name)
	}
	for i := range doc.Synonyms {
		doc.Synonyms[i].Value = cleanLabel(doc.Synonyms[i].Value)
	}
	return doc
}

func cleanLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dedupe keeps the first occurrence of each record, comparing by encoded form.
func dedupe[T any](items []T) ([]T, int, error) {
	seen := make(map[string]bool, len(items))
	kept := items[:0]
	for _, item := range items {
		key, err := json.Marshal(item)
		if err != nil {
			return nil, 0, err
		}
		if seen[string(key)] {
			continue
		}
		seen[string(key)] = true
		kept = append(kept, item)
	}
	return kept, len(items) - len(kept), nil
}
