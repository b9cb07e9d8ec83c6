package service

import (
	"math"
	"sort"
	"time"

	"jarvis/internal/model"
)

// Match reason constants
const (
	ReasonNearDuplicate  = "Near-identical command"
	ReasonSimilarCommand = "Similar command"
	ReasonUsedToday      = "Used today"
	ReasonRecentlyUsed   = "Used this week"
	ReasonGeneralMatch   = "General match"
)

// Ranker orders similar past commands by embedding similarity and recency
type Ranker struct {
	weightSimilarity float64
	weightRecency    float64
	now              func() time.Time
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightSimilarity, weightRecency float64) *Ranker {
	return &Ranker{
		weightSimilarity: weightSimilarity,
		weightRecency:    weightRecency,
		now:              time.Now,
	}
}

// RankSimilar scores results and sorts them by score descending
func (r *Ranker) RankSimilar(items []model.ScoredHistoryItem) []model.ScoredHistoryItem {
	now := r.now()
	results := make([]model.ScoredHistoryItem, len(items))

	for i, item := range items {
		similarity := similarityFromDistance(item.Distance)
		age := now.Sub(item.Timestamp)
		recency := r.calculateRecencyScore(age)

		item.Score = (r.weightSimilarity * similarity) + (r.weightRecency * recency)
		item.MatchedReasons = r.generateMatchedReasons(similarity, age)
		results[i] = item
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// similarityFromDistance maps a cosine distance in [0, 2] to a score in [0, 1]
func similarityFromDistance(distance float64) float64 {
	score := 1 - distance
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// calculateRecencyScore decays by day: ~0.90 after one day, ~0.50 after a week
func (r *Ranker) calculateRecencyScore(age time.Duration) float64 {
	if age < 0 {
		return 1.0
	}
	days := age.Hours() / 24
	return math.Exp(-0.1 * days)
}

func (r *Ranker) generateMatchedReasons(similarity float64, age time.Duration) []string {
	reasons := []string{}

	switch {
	case similarity >= 0.95:
		reasons = append(reasons, ReasonNearDuplicate)
	case similarity >= 0.75:
		reasons = append(reasons, ReasonSimilarCommand)
	}

	switch {
	case age < 24*time.Hour:
		reasons = append(reasons, ReasonUsedToday)
	case age < 7*24*time.Hour:
		reasons = append(reasons, ReasonRecentlyUsed)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
