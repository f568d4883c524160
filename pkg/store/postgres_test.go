package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/pkg/store"
)

func getTestConfig(t *testing.T) store.PostgresConfig {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	return store.PostgresConfig{
		ConnString: url,
		TableName:  "test_rasa_nlu_data",
		Name:       fmt.Sprintf("test-%d", time.Now().UnixNano()),
	}
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	ps, err := store.NewPostgres(ctx, getTestConfig(t))
	require.NoError(t, err)
	defer ps.Close()

	_, err = ps.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNoSavedData)

	s := store.New(models.NewDocument())
	s.AppendExample(models.Example{Text: "hi there", Intent: "greet", Entities: []models.Entity{}})
	s.AppendSynonym(models.Synonym{Value: "hi", Synonyms: []string{"hello", "hey"}})

	want := s.Snapshot()
	require.NoError(t, ps.Save(ctx, want))

	got, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// saving again overwrites the row
	s.AppendRegexFeature(models.RegexFeature{Name: "greeting", Pattern: "^h"})
	require.NoError(t, ps.Save(ctx, s.Snapshot()))

	got, err = ps.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.RegexFeatures, 1)
}
