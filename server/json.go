package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 4 << 20

// DecodeError reports a request payload that does not have the expected
// shape. It never reaches the store.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "invalid request body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Err: fmt.Errorf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readObject decodes a JSON object body and checks that every required
// field is present and not null.
func readObject(w http.ResponseWriter, r *http.Request, required ...string) (map[string]json.RawMessage, []byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, &DecodeError{Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	if fields == nil {
		return nil, nil, decodeErrorf("expected a JSON object")
	}
	if err := requireFields(fields, required...); err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	return fields, body, nil
}

func requireFields(fields map[string]json.RawMessage, names ...string) error {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok || strings.TrimSpace(string(raw)) == "null" {
			return fmt.Errorf("missing field %q", name)
		}
	}
	return nil
}

func parseIndex(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, decodeErrorf("id must be a non-negative integer, got %q", raw)
	}
	if id < 0 {
		return 0, decodeErrorf("id must be a non-negative integer, got %d", id)
	}
	return id, nil
}

// readFormIndex reads "id" from an urlencoded body, falling back to the
// query string. DELETE bodies are not parsed by net/http.
func readFormIndex(w http.ResponseWriter, r *http.Request) (int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return 0, &DecodeError{Err: err}
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		return 0, &DecodeError{Err: err}
	}
	if !form.Has("id") {
		form = r.URL.Query()
	}
	if !form.Has("id") {
		return 0, decodeErrorf("missing field %q", "id")
	}
	return parseIndex(form.Get("id"))
}
