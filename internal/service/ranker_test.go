package service

import (
	"testing"
	"time"

	"jarvis/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanker_RankSimilar(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	ranker := NewRanker(0.8, 0.2)
	ranker.now = func() time.Time { return now }

	items := []model.ScoredHistoryItem{
		{HistoryItem: model.HistoryItem{ID: "old-close", Timestamp: now.Add(-30 * 24 * time.Hour)}, Distance: 0.02},
		{HistoryItem: model.HistoryItem{ID: "fresh-far", Timestamp: now.Add(-time.Hour)}, Distance: 0.9},
		{HistoryItem: model.HistoryItem{ID: "fresh-close", Timestamp: now.Add(-2 * time.Hour)}, Distance: 0.1},
	}

	ranked := ranker.RankSimilar(items)
	require.Len(t, ranked, 3)

	assert.Equal(t, "fresh-close", ranked[0].ID)
	assert.Equal(t, "old-close", ranked[1].ID)
	assert.Equal(t, "fresh-far", ranked[2].ID)

	assert.Equal(t, []string{ReasonSimilarCommand, ReasonUsedToday}, ranked[0].MatchedReasons)
	assert.Equal(t, []string{ReasonNearDuplicate}, ranked[1].MatchedReasons)
	assert.Equal(t, []string{ReasonUsedToday}, ranked[2].MatchedReasons)

	// input is not modified
	assert.Zero(t, items[0].Score)
}

func TestRanker_Scores(t *testing.T) {
	ranker := NewRanker(1, 0)

	assert.InDelta(t, 1.0, similarityFromDistance(0), 1e-9)
	assert.InDelta(t, 0.0, similarityFromDistance(1.5), 1e-9)
	assert.InDelta(t, 1.0, ranker.calculateRecencyScore(-time.Minute), 1e-9)
	assert.InDelta(t, 0.4966, ranker.calculateRecencyScore(7*24*time.Hour), 1e-3)
	assert.Equal(t, []string{ReasonGeneralMatch}, ranker.generateMatchedReasons(0.1, 30*24*time.Hour))
}
