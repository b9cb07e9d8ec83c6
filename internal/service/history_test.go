package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jarvis/internal/model"
	"jarvis/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known texts to fixed vectors
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func newTestHistoryService(store repository.HistoryStore, embedder Embedder, now time.Time) *HistoryService {
	s := NewHistoryService(store, embedder, NewRanker(0.8, 0.2), nil, nil)
	s.now = func() time.Time { return now }
	s.ranker.now = s.now
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return s
}

func TestHistoryService_Record(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	store := repository.NewMemoryHistoryStore(100)
	s := newTestHistoryService(store, nil, now)
	ctx := context.Background()

	item, err := s.Record(ctx, "play lofi on youtube", model.ActionResult{Kind: model.ActionYoutubeSearch, Query: "lofi"})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, now, item.Timestamp)
	assert.Equal(t, "youtubeSearch", item.ActionType)
	assert.Equal(t, "lofi", item.Query)

	_, err = s.Record(ctx, "draw a fox", model.ActionResult{Kind: model.ActionImageGenerated, Prompt: "a fox", ImageDataURI: "data:..."})
	require.NoError(t, err)

	items, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "draw a fox", items[0].Transcript)
	assert.Equal(t, "a fox", items[0].Prompt)
}

func TestHistoryService_SkipsInvalidItems(t *testing.T) {
	store := repository.NewMemoryHistoryStore(100)
	s := newTestHistoryService(store, nil, time.Now())

	item, err := s.Record(context.Background(), "", model.ErrorResult("x"))
	require.NoError(t, err)
	assert.Nil(t, item)

	items, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistoryService_RecordEmail(t *testing.T) {
	store := repository.NewMemoryHistoryStore(100)
	s := newTestHistoryService(store, nil, time.Now())
	form := model.EmailFormData{Recipient: "sam@example.com", Subject: "Lunch", Intention: "invite Sam to lunch"}

	item, err := s.RecordEmail(context.Background(), form, model.ActionResult{Kind: model.ActionEmailDraft, Draft: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Email to sam@example.com: Lunch", item.Transcript)
	assert.Equal(t, "emailDraft", item.ActionType)
	assert.Equal(t, "invite Sam to lunch", item.Query)

	item, err = s.RecordEmail(context.Background(), form, model.ErrorResult(MsgEmailFailed))
	require.NoError(t, err)
	assert.Equal(t, "error", item.ActionType)
}

func TestHistoryService_BoundedAndClear(t *testing.T) {
	store := repository.NewMemoryHistoryStore(3)
	s := newTestHistoryService(store, nil, time.Now())
	ctx := context.Background()

	for i := range 5 {
		_, err := s.Record(ctx, fmt.Sprintf("command %d", i), model.ActionResult{Kind: model.ActionUnknown})
		require.NoError(t, err)
	}

	items, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "command 4", items[0].Transcript)
	assert.Equal(t, "command 2", items[2].Transcript)

	require.NoError(t, s.Clear(ctx))
	items, err = s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGroupHistory(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, loc)

	items := []model.HistoryItem{
		{ID: "a", Timestamp: now.Add(-time.Hour)},
		{ID: "b", Timestamp: time.Date(2024, 5, 10, 0, 5, 0, 0, loc)},
		{ID: "c", Timestamp: time.Date(2024, 5, 9, 23, 59, 0, 0, loc)},
		{ID: "d", Timestamp: time.Date(2024, 5, 2, 15, 0, 0, 0, loc)},
		{ID: "e", Timestamp: time.Date(2024, 5, 2, 8, 0, 0, 0, loc)},
	}

	groups := GroupHistory(items, now, loc)
	require.Len(t, groups, 3)

	assert.Equal(t, GroupToday, groups[0].Label)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, GroupYesterday, groups[1].Label)
	assert.Equal(t, "c", groups[1].Items[0].ID)
	assert.Equal(t, "May 2, 2024", groups[2].Label)
	assert.Equal(t, []string{"d", "e"}, []string{groups[2].Items[0].ID, groups[2].Items[1].ID})
}

func TestGroupHistory_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC) // 10:00 JST

	// 20:00 UTC on May 9 is 05:00 JST on May 10
	items := []model.HistoryItem{{ID: "a", Timestamp: time.Date(2024, 5, 9, 20, 0, 0, 0, time.UTC)}}

	assert.Equal(t, GroupToday, GroupHistory(items, now, tokyo)[0].Label)
	assert.Equal(t, GroupYesterday, GroupHistory(items, now, time.UTC)[0].Label)
}

func TestHistoryService_Similar(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"play jazz on youtube":   {1, 0, 0},
		"play jazz":              {0.99, 0.1, 0},
		"where is the Louvre":    {0, 1, 0},
		"play some jazz please!": {0.98, 0.05, 0},
	}}
	store := repository.NewMemoryHistoryStore(100)
	s := newTestHistoryService(store, embedder, now)
	ctx := context.Background()

	for _, transcript := range []string{"play jazz on youtube", "where is the Louvre", "play jazz"} {
		_, err := s.Record(ctx, transcript, model.ActionResult{Kind: model.ActionYoutubeSearch, Query: "x"})
		require.NoError(t, err)
	}

	results, err := s.Similar(ctx, "play some jazz please!", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Transcript, "jazz")
		assert.Contains(t, r.MatchedReasons, ReasonUsedToday)
	}
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestHistoryService_SimilarWithoutEmbedder(t *testing.T) {
	s := newTestHistoryService(repository.NewMemoryHistoryStore(10), nil, time.Now())

	_, err := s.Similar(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrSimilarityUnavailable)
}

func TestHistoryService_EmbedFailureStillRecords(t *testing.T) {
	store := repository.NewMemoryHistoryStore(10)
	s := newTestHistoryService(store, &fakeEmbedder{err: errors.New("embedding quota")}, time.Now())

	item, err := s.Record(context.Background(), "open github", model.ActionResult{Kind: model.ActionOpenWebsiteSearch, Query: "github"})
	require.NoError(t, err)
	assert.Empty(t, item.Embedding)
}
