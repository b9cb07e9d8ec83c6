package repository

import (
	"context"
	"fmt"
	"time"

	"jarvis/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresHistoryStore keeps history in PostgreSQL. When embeddingDims is
// positive, transcripts are stored with a pgvector column for similarity search.
type PostgresHistoryStore struct {
	db            *sqlx.DB
	maxItems      int
	embeddingDims int
}

// PostgresOptions configures the connection pool and history bounds
type PostgresOptions struct {
	MaxConnections     int
	MaxIdleConnections int
	MaxItems           int
	EmbeddingDims      int // 0 disables the embedding column
}

// NewPostgresHistoryStore connects to PostgreSQL and ensures the schema exists
func NewPostgresHistoryStore(ctx context.Context, dsn string, opts PostgresOptions) (*PostgresHistoryStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxConnections)
	db.SetMaxIdleConns(opts.MaxIdleConnections)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if opts.MaxItems <= 0 {
		opts.MaxItems = model.MaxHistoryItems
	}

	store := &PostgresHistoryStore{
		db:            db,
		maxItems:      opts.MaxItems,
		embeddingDims: opts.EmbeddingDims,
	}

	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// EnsureSchema creates the history table and, when embeddings are on, the
// vector extension and column
func (r *PostgresHistoryStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS command_history (
			id          UUID PRIMARY KEY,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			transcript  TEXT NOT NULL,
			action_type TEXT NOT NULL,
			query       TEXT NOT NULL DEFAULT '',
			topic       TEXT NOT NULL DEFAULT '',
			prompt      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS command_history_created_at_idx ON command_history (created_at DESC)`,
	}

	if r.embeddingDims > 0 {
		statements = append(statements,
			`CREATE EXTENSION IF NOT EXISTS vector`,
			fmt.Sprintf(`ALTER TABLE command_history ADD COLUMN IF NOT EXISTS embedding vector(%d)`, r.embeddingDims),
		)
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure history schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (r *PostgresHistoryStore) Close() error {
	return r.db.Close()
}

// Append inserts the item and trims the table to maxItems in one transaction
func (r *PostgresHistoryStore) Append(ctx context.Context, item model.HistoryItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if r.embeddingDims > 0 && len(item.Embedding) > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO command_history (id, created_at, transcript, action_type, query, topic, prompt, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, item.Timestamp, item.Transcript, item.ActionType, item.Query, item.Topic, item.Prompt, pgvector.NewVector(item.Embedding))
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO command_history (id, created_at, transcript, action_type, query, topic, prompt)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.Timestamp, item.Transcript, item.ActionType, item.Query, item.Topic, item.Prompt)
	}
	if err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM command_history
		WHERE id IN (
			SELECT id FROM command_history
			ORDER BY created_at DESC, id DESC
			OFFSET $1
		)
	`, r.maxItems)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns the newest items first
func (r *PostgresHistoryStore) List(ctx context.Context, limit int) ([]model.HistoryItem, error) {
	if limit <= 0 || limit > r.maxItems {
		limit = r.maxItems
	}

	var items []model.HistoryItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, created_at, transcript, action_type, query, topic, prompt
		FROM command_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}

// Clear removes every history item
func (r *PostgresHistoryStore) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM command_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Similar performs a cosine-distance search over stored embeddings
func (r *PostgresHistoryStore) Similar(ctx context.Context, embedding []float32, limit int) ([]model.ScoredHistoryItem, error) {
	if r.embeddingDims <= 0 {
		return nil, ErrSimilarityUnsupported
	}
	if limit <= 0 {
		limit = 10
	}

	var results []model.ScoredHistoryItem
	err := r.db.SelectContext(ctx, &results, `
		SELECT id, created_at, transcript, action_type, query, topic, prompt,
			embedding <=> $1 AS distance
		FROM command_history
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar history: %w", err)
	}
	return results, nil
}

var _ HistoryStore = (*PostgresHistoryStore)(nil)
