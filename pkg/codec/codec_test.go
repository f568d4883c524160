package codec_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/pkg/codec"
	"github.com/xhad/rasanlu/pkg/store"
)

func TestLoadMissingFile(t *testing.T) {
	doc := codec.Load("/nonexistent")
	assert.True(t, doc.IsEmpty())
	assert.NotNil(t, doc.Examples)
	assert.NotNil(t, doc.RegexFeatures)
	assert.NotNil(t, doc.Synonyms)
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"truncated", `{"rasa_nlu_data": {"common_examples": [`},
		{"no envelope", `{"common_examples": []}`},
		{"wrong type", `{"rasa_nlu_data": {"common_examples": 3}}`},
		{"trailing garbage", `{"rasa_nlu_data": {"common_examples": [{"text":"hi","intent":"greet","entities":[]}]}} GARBAGE{`},
		{"second envelope", `{"rasa_nlu_data": {}} {"rasa_nlu_data": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := codec.Read(path)
			assert.Error(t, err)
			assert.True(t, codec.Load(path).IsEmpty())
		})
	}
}

func TestDecodeAllowsTrailingWhitespace(t *testing.T) {
	doc, err := codec.Decode(strings.NewReader("{\"rasa_nlu_data\": {\"regex_features\": [{\"name\":\"zip\",\"pattern\":\"[0-9]+\"}]}}\n\n  "))
	require.NoError(t, err)
	assert.Len(t, doc.RegexFeatures, 1)
}

func TestReadMissingIsIOError(t *testing.T) {
	_, err := codec.Read(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRoundTripThroughStore(t *testing.T) {
	s := store.New(models.NewDocument())
	s.AppendExample(models.Example{Text: "hello", Intent: "greet", Entities: []models.Entity{}})
	s.AppendExample(models.Example{
		Text:     "fly to berlin",
		Intent:   "book_flight",
		Entities: []models.Entity{{Start: 7, End: 13, Value: "berlin", Entity: "city"}},
	})
	s.AppendExample(models.Example{Text: "bye", Intent: "goodbye"})
	s.AppendRegexFeature(models.RegexFeature{Name: "zip", Pattern: `\d{5}`})
	s.AppendSynonym(models.Synonym{Value: "berlin", Synonyms: []string{"BER", "berlin city"}})
	s.AppendSynonym(models.Synonym{Value: "berlin", Synonyms: []string{}})
	require.NoError(t, s.RemoveExample(0))

	want := s.Snapshot()
	path := filepath.Join(t.TempDir(), "rasa.json")
	require.NoError(t, codec.Write(path, want))

	got, err := codec.Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, codec.Load(path))
}

func TestWriteUsesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	doc := models.Document{
		RegexFeatures: []models.RegexFeature{{Name: "zip", Pattern: "[0-9]{5}"}},
	}
	require.NoError(t, codec.Encode(&buf, doc))

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Contains(t, raw, "rasa_nlu_data")
	assert.JSONEq(t, `[]`, string(raw["rasa_nlu_data"]["common_examples"]))
	assert.JSONEq(t, `[{"name":"zip","pattern":"[0-9]{5}"}]`, string(raw["rasa_nlu_data"]["regex_features"]))
	assert.JSONEq(t, `[]`, string(raw["rasa_nlu_data"]["entity_synonyms"]))
}

func TestWriteTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rasa.json")
	big := models.NewDocument()
	for i := 0; i < 100; i++ {
		big.Synonyms = append(big.Synonyms, models.Synonym{Value: "v", Synonyms: []string{"a", "b", "c"}})
	}
	require.NoError(t, codec.Write(path, big))
	require.NoError(t, codec.Write(path, models.NewDocument()))

	got, err := codec.Read(path)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestWriteFailsOnBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "rasa.json")
	err := codec.Write(path, models.NewDocument())
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrIO)

	var ioErr *codec.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "create", ioErr.Op)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rasa.json")
	fs := codec.NewFileStore(path, nil)
	defer fs.Close()

	_, err := fs.Load(context.Background())
	assert.Error(t, err)

	doc := models.NewDocument()
	doc.Synonyms = append(doc.Synonyms, models.Synonym{Value: "sf", Synonyms: []string{"san francisco"}})
	require.NoError(t, fs.Save(context.Background(), doc))

	got, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, path, fs.Path())
}

func TestNewFileStoreDefaultPath(t *testing.T) {
	assert.Equal(t, codec.DefaultPath, codec.NewFileStore("", nil).Path())
}
