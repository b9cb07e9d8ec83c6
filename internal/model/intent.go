package model

// IntentKind identifies which variant of Intent a classification produced
type IntentKind string

const (
	IntentOpenWebsite      IntentKind = "openWebsite"
	IntentGenerateDocument IntentKind = "generateDocument"
	IntentEmailCompose     IntentKind = "emailComposeIntent"
	IntentYoutubeSearch    IntentKind = "youtubeSearch"
	IntentMapsSearch       IntentKind = "mapsSearch"
	IntentGenerateImage    IntentKind = "generateImage"
	IntentGeminiSearch     IntentKind = "geminiSearch"
	IntentUnknown          IntentKind = "unknown"
)

// UnknownIntentMessage is the informational message carried by IntentUnknown
const UnknownIntentMessage = "I'm not sure how to handle this request."

// Intent represents the classified meaning of a transcript.
// Only the payload field matching Kind is populated:
//   - Query for openWebsite, youtubeSearch, mapsSearch, geminiSearch
//   - Topic for generateDocument
//   - Prompt for generateImage
//   - Message for unknown
//
// Transcript always holds the original transcript.
type Intent struct {
	Kind       IntentKind `json:"type"`
	Query      string     `json:"query,omitempty"`
	Topic      string     `json:"topic,omitempty"`
	Prompt     string     `json:"prompt,omitempty"`
	Message    string     `json:"message,omitempty"`
	Transcript string     `json:"transcript"`
}

// Argument returns the extracted payload of the intent, if any
func (i Intent) Argument() string {
	switch i.Kind {
	case IntentGenerateDocument:
		return i.Topic
	case IntentGenerateImage:
		return i.Prompt
	case IntentOpenWebsite, IntentYoutubeSearch, IntentMapsSearch, IntentGeminiSearch:
		return i.Query
	default:
		return ""
	}
}

// NewUnknownIntent builds the fallback intent for an unmatched transcript
func NewUnknownIntent(transcript string) Intent {
	return Intent{
		Kind:       IntentUnknown,
		Message:    UnknownIntentMessage,
		Transcript: transcript,
	}
}
