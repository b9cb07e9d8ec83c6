package model

import (
	"time"
)

// MaxHistoryItems is the default bound on the recent-history list
const MaxHistoryItems = 100

// HistoryItem represents a single processed command in the recent-history log
type HistoryItem struct {
	ID         string    `json:"id" db:"id"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
	Transcript string    `json:"transcript" db:"transcript"`
	ActionType string    `json:"actionType" db:"action_type"`
	Query      string    `json:"query,omitempty" db:"query"`
	Topic      string    `json:"topic,omitempty" db:"topic"`
	Prompt     string    `json:"prompt,omitempty" db:"prompt"`
	Embedding  []float32 `json:"-" db:"-"`
}

// Valid reports whether the item carries the fields required for storage
func (h HistoryItem) Valid() bool {
	return h.Transcript != "" && h.ActionType != ""
}

// ScoredHistoryItem is a history item returned by a similarity lookup
type ScoredHistoryItem struct {
	HistoryItem
	Distance       float64  `json:"distance" db:"distance"`
	Score          float64  `json:"score" db:"-"`
	MatchedReasons []string `json:"matched_reasons" db:"-"`
}

// HistoryGroup is a day bucket of history items, newest first
type HistoryGroup struct {
	Label string        `json:"label"`
	Items []HistoryItem `json:"items"`
}
