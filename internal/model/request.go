package model

// CommandRequest represents a transcript submitted for classification or dispatch
type CommandRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// ClassifyResponse represents the classification of a transcript
type ClassifyResponse struct {
	Intent Intent `json:"intent"`
}

// ActionView describes how a client should present an ActionResult:
// the URL to open, the text to speak and the toast to show
type ActionView struct {
	OpenURL     string `json:"open_url,omitempty"`
	Speech      string `json:"speech,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"` // default, destructive
	Filename    string `json:"filename,omitempty"`
}

// CommandResponse represents the result of processing a command
type CommandResponse struct {
	Intent    *Intent      `json:"intent,omitempty"`
	Result    ActionResult `json:"result"`
	View      ActionView   `json:"view"`
	HistoryID string       `json:"history_id,omitempty"`
	Took      int64        `json:"took_ms"` // Response time in milliseconds
}

// EmailFormData represents the compose-email form submission
type EmailFormData struct {
	Recipient string `json:"recipient" binding:"required,email"`
	Subject   string `json:"subject" binding:"required"`
	Intention string `json:"intention" binding:"required"`
}

// HistoryResponse represents a page of recent history
type HistoryResponse struct {
	Items  []HistoryItem  `json:"items"`
	Groups []HistoryGroup `json:"groups,omitempty"`
	Total  int            `json:"total"`
}

// SimilarHistoryResponse represents past commands similar to a query
type SimilarHistoryResponse struct {
	Query   string              `json:"query"`
	Results []ScoredHistoryItem `json:"results"`
	Took    int64               `json:"took_ms"`
}
