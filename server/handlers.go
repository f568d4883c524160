package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/internal/types"
	"github.com/xhad/rasanlu/pkg/store"
)

// resource binds one Document collection to its store operations.
type resource[T any] struct {
	collection models.Collection
	required   []string
	check      func(fields map[string]json.RawMessage) error

	list    func() []T
	append  func(T) int
	replace func(int, T) error
	remove  func(int) error
}

func examplesResource(st *store.Store) resource[models.Example] {
	return resource[models.Example]{
		collection: models.Examples,
		required:   []string{"text", "intent", "entities"},
		check:      checkEntities,
		list:       st.Examples,
		append:     st.AppendExample,
		replace:    st.ReplaceExample,
		remove:     st.RemoveExample,
	}
}

func regexFeaturesResource(st *store.Store) resource[models.RegexFeature] {
	return resource[models.RegexFeature]{
		collection: models.RegexFeatures,
		required:   []string{"name", "pattern"},
		list:       st.RegexFeatures,
		append:     st.AppendRegexFeature,
		replace:    st.ReplaceRegexFeature,
		remove:     st.RemoveRegexFeature,
	}
}

func synonymsResource(st *store.Store) resource[models.Synonym] {
	return resource[models.Synonym]{
		collection: models.Synonyms,
		required:   []string{"value", "synonyms"},
		check:      checkSynonyms,
		list:       st.Synonyms,
		append:     st.AppendSynonym,
		replace:    st.ReplaceSynonym,
		remove:     st.RemoveSynonym,
	}
}

// checkEntities requires every entity span to carry all four fields.
func checkEntities(fields map[string]json.RawMessage) error {
	var entities []map[string]json.RawMessage
	if err := json.Unmarshal(fields["entities"], &entities); err != nil {
		return &DecodeError{Err: err}
	}
	for i, entity := range entities {
		if entity == nil {
			return decodeErrorf("entities[%d]: expected a JSON object", i)
		}
		if err := requireFields(entity, "start", "end", "value", "entity"); err != nil {
			return decodeErrorf("entities[%d]: %w", i, err)
		}
	}
	return nil
}

// checkSynonyms rejects null entries in the synonyms list; they would
// otherwise decode as empty strings.
func checkSynonyms(fields map[string]json.RawMessage) error {
	var synonyms []json.RawMessage
	if err := json.Unmarshal(fields["synonyms"], &synonyms); err != nil {
		return &DecodeError{Err: err}
	}
	for i, raw := range synonyms {
		if strings.TrimSpace(string(raw)) == "null" {
			return decodeErrorf("synonyms[%d]: expected a string", i)
		}
	}
	return nil
}

// decodeRecord validates and decodes the body of a POST or PUT. With
// withID, the body must also carry the target "id".
func decodeRecord[T any](w http.ResponseWriter, r *http.Request, res resource[T], withID bool) (T, int, error) {
	var record T

	required := res.required
	if withID {
		required = append([]string{"id"}, required...)
	}

	fields, body, err := readObject(w, r, required...)
	if err != nil {
		return record, 0, err
	}
	if res.check != nil {
		if err := res.check(fields); err != nil {
			return record, 0, err
		}
	}

	id := 0
	if withID {
		if id, err = parseIndex(string(fields["id"])); err != nil {
			return record, 0, err
		}
	}

	if err := json.Unmarshal(body, &record); err != nil {
		return record, 0, &DecodeError{Err: err}
	}
	return record, id, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &decodeErr):
		s.logger.Debug("rejected request", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrIndexOutOfRange):
		s.logger.Debug("rejected request", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// ok acknowledges a mutation. The store itself has already published the
// change event.
func (s *Server) ok(w http.ResponseWriter, index int) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"index":  index,
	})
}

func handleList[T any](s *Server, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, res.list())
	}
}

func handleAppend[T any](s *Server, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, _, err := decodeRecord(w, r, res, false)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		s.ok(w, res.append(record))
	}
}

func handleReplace[T any](s *Server, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, id, err := decodeRecord(w, r, res, true)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if err := res.replace(id, record); err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, id)
	}
}

func handleRemove[T any](s *Server, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readFormIndex(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if err := res.remove(id); err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, id)
	}
}

func registerResource[T any](s *Server, mux *http.ServeMux, path string, res resource[T]) {
	mux.HandleFunc("GET "+path, handleList(s, res))
	mux.HandleFunc("POST "+path, handleAppend(s, res))
	mux.HandleFunc("PUT "+path, handleReplace(s, res))
	mux.HandleFunc("DELETE "+path, handleRemove(s, res))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello world!\n"))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	snapshot, seq := s.store.SnapshotAt()
	if err := s.persister.Save(r.Context(), snapshot); err != nil {
		s.fail(w, r, err)
		return
	}
	s.events.Publish(types.Event{Seq: seq, Type: types.EventSave})
	s.ok(w, 0)
}

// handleCollection exports a single collection by wire or route name.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	c, err := models.ParseCollection(r.PathValue("collection"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	switch c {
	case models.Examples:
		writeJSON(w, http.StatusOK, s.store.Examples())
	case models.RegexFeatures:
		writeJSON(w, http.StatusOK, s.store.RegexFeatures())
	case models.Synonyms:
		writeJSON(w, http.StatusOK, s.store.Synonyms())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(models.Collections))
	for _, c := range models.Collections {
		counts[c.String()] = s.store.Len(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"counts":      counts,
		"seq":         s.store.Seq(),
		"subscribers": s.hub.Subscribers(),
	})
}
