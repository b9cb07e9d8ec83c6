package model

// ActionKind identifies which variant of ActionResult a dispatch produced.
// The values double as the actionType recorded in history.
type ActionKind string

const (
	ActionGoogleDoc         ActionKind = "googleDoc"
	ActionEmailCompose      ActionKind = "emailComposeIntent"
	ActionEmailDraft        ActionKind = "emailDraft"
	ActionYoutubeSearch     ActionKind = "youtubeSearch"
	ActionMapsSearch        ActionKind = "mapsSearch"
	ActionOpenWebsiteSearch ActionKind = "openWebsiteSearch"
	ActionGeminiSearch      ActionKind = "geminiSearch"
	ActionImageGenerated    ActionKind = "imageGenerated"
	ActionUnknown           ActionKind = "unknown"
	ActionError             ActionKind = "error"
)

// ActionResult is the outcome of dispatching an intent.
// Fields populated per Kind:
//   - googleDoc: Content, Topic
//   - emailDraft: Draft
//   - emailComposeIntent: Transcript
//   - youtubeSearch, mapsSearch, openWebsiteSearch: Query
//   - geminiSearch: Query, SearchResult
//   - imageGenerated: ImageDataURI, Prompt
//   - unknown: Message, Transcript
//   - error: Message
type ActionResult struct {
	Kind         ActionKind `json:"type"`
	Content      string     `json:"content,omitempty"`
	Topic        string     `json:"topic,omitempty"`
	Draft        string     `json:"draft,omitempty"`
	Query        string     `json:"query,omitempty"`
	SearchResult string     `json:"searchResult,omitempty"`
	ImageDataURI string     `json:"imageDataUri,omitempty"`
	Prompt       string     `json:"prompt,omitempty"`
	Message      string     `json:"message,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`
}

// ErrorResult builds an error variant with a user-facing message
func ErrorResult(message string) ActionResult {
	return ActionResult{Kind: ActionError, Message: message}
}

// IsError reports whether the result is the error variant
func (r ActionResult) IsError() bool {
	return r.Kind == ActionError
}

// HistoryFields returns the history record fields derived from this result.
// The transcript is supplied by the caller since email results do not carry one.
func (r ActionResult) HistoryFields(transcript string) HistoryItem {
	item := HistoryItem{
		Transcript: transcript,
		ActionType: string(r.Kind),
	}
	switch r.Kind {
	case ActionYoutubeSearch, ActionMapsSearch, ActionOpenWebsiteSearch, ActionGeminiSearch:
		item.Query = r.Query
	case ActionGoogleDoc:
		item.Topic = r.Topic
	case ActionImageGenerated:
		item.Prompt = r.Prompt
	}
	return item
}
