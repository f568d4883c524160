package types

import (
	"context"

	"github.com/xhad/rasanlu/internal/models"
)

// Persister reads and writes a whole Document to durable storage.
// Load reports absence or corruption as an error; callers decide whether
// to fall back to an empty Document.
type Persister interface {
	Load(ctx context.Context) (models.Document, error)
	Save(ctx context.Context, doc models.Document) error
	Close()
}

// Event describes a change applied to the live Document. Seq increases by
// one per mutation; a save event carries the Seq of the last mutation it
// persisted.
type Event struct {
	Seq        uint64 `json:"seq"`
	Type       string `json:"type"`
	Collection string `json:"collection,omitempty"`
	Index      int    `json:"index"`
}

const (
	EventAppend  = "append"
	EventReplace = "replace"
	EventRemove  = "remove"
	EventSave    = "save"
)

// Publisher fans out change events to interested listeners.
type Publisher interface {
	Publish(ev Event)
}
