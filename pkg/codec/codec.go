package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/internal/types"
)

// DefaultPath is used when no data file is configured.
const DefaultPath = "rasa_nlu_data.json"

var ErrIO = errors.New("storage i/o failed")

// IOError wraps a failure at the storage boundary.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// Encode writes doc wrapped in the save-file envelope.
func Encode(w io.Writer, doc models.Document) error {
	doc.Normalize()
	return json.NewEncoder(w).Encode(models.Envelope{Data: doc})
}

// Decode reads a save-file envelope. Missing collections decode as empty.
// Anything after the envelope other than whitespace is an error.
func Decode(r io.Reader) (models.Document, error) {
	var env struct {
		Data *models.Document `json:"rasa_nlu_data"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return models.Document{}, fmt.Errorf("decode training data: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return models.Document{}, errors.New("decode training data: trailing data after envelope")
	}
	if env.Data == nil {
		return models.Document{}, errors.New("decode training data: missing rasa_nlu_data")
	}
	doc := *env.Data
	doc.Normalize()
	return doc, nil
}

// Read strictly loads the Document stored at path.
func Read(path string) (models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return models.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load reads path, returning an empty Document when the file is absent,
// unreadable or corrupt. It is the entry point for callers that only hold a
// path; the server loads through FileStore and store.Hydrate, which also
// log why the data was discarded.
func Load(path string) models.Document {
	doc, err := Read(path)
	if err != nil {
		return models.NewDocument()
	}
	return doc
}

// Write replaces the content of path with doc. The write is not atomic.
func Write(path string, doc models.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if err := Encode(f, doc); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// FileStore persists the Document to a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ types.Persister = (*FileStore)(nil)

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Load(ctx context.Context) (models.Document, error) {
	doc, err := Read(fs.path)
	if err != nil {
		return models.Document{}, err
	}
	fs.logger.Debug("training data loaded",
		"path", fs.path,
		"examples", len(doc.Examples),
		"regex_features", len(doc.RegexFeatures),
		"synonyms", len(doc.Synonyms),
	)
	return doc, nil
}

func (fs *FileStore) Save(ctx context.Context, doc models.Document) error {
	if err := Write(fs.path, doc); err != nil {
		return err
	}
	fs.logger.Info("training data saved", "path", fs.path)
	return nil
}

func (fs *FileStore) Close() {}
