package repository

import (
	"context"
	"errors"

	"jarvis/internal/model"
)

// ErrSimilarityUnsupported is returned by stores that keep no embeddings
var ErrSimilarityUnsupported = errors.New("similarity search is not enabled for this history store")

// HistoryStore persists the bounded recent-commands list.
// Implementations keep at most their configured number of items, dropping
// the oldest first, and list newest first.
type HistoryStore interface {
	// Append stores a new item and trims the list to its bound
	Append(ctx context.Context, item model.HistoryItem) error

	// List returns up to limit items, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]model.HistoryItem, error)

	// Clear removes every item
	Clear(ctx context.Context) error

	// Similar returns up to limit items whose embeddings are closest to
	// embedding, nearest first, with Distance set to the cosine distance
	Similar(ctx context.Context, embedding []float32, limit int) ([]model.ScoredHistoryItem, error)

	Close() error
}
