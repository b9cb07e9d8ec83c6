package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jarvis/internal/metrics"
	"jarvis/internal/model"
	"jarvis/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSimilarityUnavailable is returned when no embedder is configured
var ErrSimilarityUnavailable = errors.New("similar-command lookup is not enabled")

// Group labels for the grouped history view
const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"

	groupDateLayout = "January 2, 2006"
)

// HistoryService records processed commands in the bounded history store
type HistoryService struct {
	store    repository.HistoryStore
	embedder Embedder
	ranker   *Ranker
	logger   *zap.Logger
	metrics  *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewHistoryService creates a history service. embedder may be nil, which
// disables similar-command lookup.
func NewHistoryService(store repository.HistoryStore, embedder Embedder, ranker *Ranker, logger *zap.Logger, m *metrics.Metrics) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &HistoryService{
		store:    store,
		embedder: embedder,
		ranker:   ranker,
		logger:   logger.Named("history"),
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Record stores the outcome of a voice command. It returns nil without error
// when the item lacks a transcript or action type.
func (s *HistoryService) Record(ctx context.Context, transcript string, result model.ActionResult) (*model.HistoryItem, error) {
	return s.append(ctx, result.HistoryFields(transcript))
}

// RecordEmail stores the outcome of a compose-form submission
func (s *HistoryService) RecordEmail(ctx context.Context, form model.EmailFormData, result model.ActionResult) (*model.HistoryItem, error) {
	actionType := model.ActionEmailDraft
	if result.Kind != model.ActionEmailDraft {
		actionType = model.ActionError
	}

	return s.append(ctx, model.HistoryItem{
		Transcript: fmt.Sprintf("Email to %s: %s", form.Recipient, form.Subject),
		ActionType: string(actionType),
		Query:      form.Intention,
	})
}

func (s *HistoryService) append(ctx context.Context, item model.HistoryItem) (*model.HistoryItem, error) {
	if !item.Valid() {
		s.logger.Warn("skipping history item with missing transcript or action type",
			zap.String("transcript", item.Transcript),
			zap.String("action_type", item.ActionType),
		)
		s.metrics.RecordHistoryWrite(ctx, "skipped")
		return nil, nil
	}

	item.ID = s.newID()
	item.Timestamp = s.now().UTC()

	if s.embedder != nil {
		embedding, err := s.embedder.Embed(ctx, item.Transcript)
		if err != nil {
			s.logger.Warn("failed to embed transcript, storing without embedding", zap.Error(err))
		} else {
			item.Embedding = embedding
		}
	}

	if err := s.store.Append(ctx, item); err != nil {
		s.metrics.RecordHistoryWrite(ctx, "error")
		return nil, fmt.Errorf("failed to record history: %w", err)
	}

	s.metrics.RecordHistoryWrite(ctx, "ok")
	return &item, nil
}

// List returns recent items, newest first
func (s *HistoryService) List(ctx context.Context, limit int) ([]model.HistoryItem, error) {
	items, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}

// Clear removes all history
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Group buckets items by calendar day in loc relative to the current time
func (s *HistoryService) Group(items []model.HistoryItem, loc *time.Location) []model.HistoryGroup {
	return GroupHistory(items, s.now(), loc)
}

// GroupHistory buckets items (already newest first) under "Today",
// "Yesterday" or a long date label, keeping the input order within and
// across groups
func GroupHistory(items []model.HistoryItem, now time.Time, loc *time.Location) []model.HistoryGroup {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var groups []model.HistoryGroup
	index := map[string]int{}

	for _, item := range items {
		ts := item.Timestamp.In(loc)

		var label string
		switch day := startOfDay(ts); {
		case day.Equal(today):
			label = GroupToday
		case day.Equal(yesterday):
			label = GroupYesterday
		default:
			label = ts.Format(groupDateLayout)
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, model.HistoryGroup{Label: label})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Similar finds past commands close to query, ranked by similarity and recency
func (s *HistoryService) Similar(ctx context.Context, query string, limit int) ([]model.ScoredHistoryItem, error) {
	if s.embedder == nil {
		return nil, ErrSimilarityUnavailable
	}
	if limit <= 0 {
		limit = 10
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Over-fetch so recency can reorder near ties
	candidates, err := s.store.Similar(ctx, embedding, limit*2)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}

	ranked := s.ranker.RankSimilar(candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
