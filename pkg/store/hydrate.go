package store

import (
	"context"
	"log/slog"

	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/internal/types"
)

// Hydrate loads the persisted Document for startup. Absence and corruption
// are treated like a first run: the failure is logged as a warning and an
// empty Document is returned. The boolean reports whether persisted data
// was used.
func Hydrate(ctx context.Context, p types.Persister, logger *slog.Logger) (models.Document, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := p.Load(ctx)
	if err != nil {
		logger.Warn("falling back to empty data", "error", err)
		return models.NewDocument(), false
	}
	doc.Normalize()
	if doc.IsEmpty() {
		logger.Info("persisted data has no records")
	} else {
		logger.Info("loaded persisted data",
			"common_examples", len(doc.Examples),
			"regex_features", len(doc.RegexFeatures),
			"entity_synonyms", len(doc.Synonyms))
	}
	return doc, true
}
