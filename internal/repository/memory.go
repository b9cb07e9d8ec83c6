package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"jarvis/internal/model"
)

// MemoryHistoryStore keeps history in process memory
type MemoryHistoryStore struct {
	mu       sync.RWMutex
	items    []model.HistoryItem // newest first
	maxItems int
}

// NewMemoryHistoryStore creates an in-memory store bounded to maxItems
func NewMemoryHistoryStore(maxItems int) *MemoryHistoryStore {
	if maxItems <= 0 {
		maxItems = model.MaxHistoryItems
	}
	return &MemoryHistoryStore{maxItems: maxItems}
}

// Append implements HistoryStore
func (s *MemoryHistoryStore) Append(_ context.Context, item model.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.HistoryItem, 0, min(len(s.items)+1, s.maxItems))
	items = append(items, item)
	items = append(items, s.items...)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	s.items = items
	return nil
}

// List implements HistoryStore
func (s *MemoryHistoryStore) List(_ context.Context, limit int) ([]model.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.HistoryItem, n)
	copy(out, s.items[:n])
	return out, nil
}

// Clear implements HistoryStore
func (s *MemoryHistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

// Similar implements HistoryStore with a linear cosine-distance scan
func (s *MemoryHistoryStore) Similar(_ context.Context, embedding []float32, limit int) ([]model.ScoredHistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []model.ScoredHistoryItem
	for _, item := range s.items {
		if len(item.Embedding) == 0 || len(item.Embedding) != len(embedding) {
			continue
		}
		results = append(results, model.ScoredHistoryItem{
			HistoryItem: item,
			Distance:    CosineDistance(embedding, item.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close implements HistoryStore
func (s *MemoryHistoryStore) Close() error { return nil }

// CosineDistance returns 1 - cosine similarity, matching pgvector's <=> operator.
// Zero vectors are maximally distant.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

var _ HistoryStore = (*MemoryHistoryStore)(nil)
