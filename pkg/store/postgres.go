package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/internal/types"
	"github.com/xhad/rasanlu/pkg/codec"
)

type PostgresConfig struct {
	ConnString string
	TableName  string
	// Name keys the row holding the Document, so several servers can
	// share one table.
	Name string
}

// PostgresStore persists the save-file envelope as JSONB, one row per name.
type PostgresStore struct {
	config PostgresConfig
	pool   *pgxpool.Pool
}

var _ types.Persister = (*PostgresStore)(nil)

var ErrNoSavedData = errors.New("no saved training data")

func NewPostgres(ctx context.Context, config PostgresConfig) (*PostgresStore, error) {
	if config.TableName == "" {
		config.TableName = "rasa_nlu_data"
	}
	if config.Name == "" {
		config.Name = "default"
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ps := &PostgresStore{
		config: config,
		pool:   pool,
	}

	if err := ps.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

func (ps *PostgresStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, pgx.Identifier{ps.config.TableName}.Sanitize())

	if _, err := ps.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Load(ctx context.Context) (models.Document, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE name = $1`,
		pgx.Identifier{ps.config.TableName}.Sanitize())

	var data []byte
	err := ps.pool.QueryRow(ctx, query, ps.config.Name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, fmt.Errorf("%s/%s: %w", ps.config.TableName, ps.config.Name, ErrNoSavedData)
	}
	if err != nil {
		return models.Document{}, &codec.IOError{Op: "select", Path: ps.config.TableName, Err: err}
	}

	return codec.Decode(bytes.NewReader(data))
}

func (ps *PostgresStore) Save(ctx context.Context, doc models.Document) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, doc); err != nil {
		return fmt.Errorf("failed to encode training data: %w", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (name, data, saved_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET
			data = EXCLUDED.data,
			saved_at = EXCLUDED.saved_at`,
		pgx.Identifier{ps.config.TableName}.Sanitize())

	if _, err := ps.pool.Exec(ctx, stmt, ps.config.Name, buf.String()); err != nil {
		return &codec.IOError{Op: "upsert", Path: ps.config.TableName, Err: err}
	}
	return nil
}

func (ps *PostgresStore) Close() {
	if ps.pool != nil {
		ps.pool.Close()
	}
}
