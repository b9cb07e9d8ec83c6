package service

import (
	"context"
	"errors"
)

// ErrNoImageData is returned by image generators when the provider answered
// without an image payload
var ErrNoImageData = errors.New("image generation returned no media")

// ErrEmptyResponse is returned when a generator succeeded without a payload
var ErrEmptyResponse = errors.New("generator returned no response")

// DocumentGenerator produces document content for a topic
type DocumentGenerator interface {
	GenerateDocument(ctx context.Context, req DocumentRequest) (*DocumentResponse, error)
}

// EmailDrafter composes an email draft from the compose form
type EmailDrafter interface {
	DraftEmail(ctx context.Context, req EmailDraftRequest) (*EmailDraftResponse, error)
}

// ImageGenerator renders an image for a prompt and returns it as a data URI
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// AnswerGenerator answers a general question or search query
type AnswerGenerator interface {
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error)
}

// StreamingAnswerGenerator is an AnswerGenerator that can also emit the
// answer incrementally. The callback receives each content delta; returning
// an error from it aborts the stream.
type StreamingAnswerGenerator interface {
	AnswerGenerator
	AnswerStream(ctx context.Context, req AnswerRequest, callback func(delta string) error) (*AnswerResponse, error)
}

// Embedder turns text into a vector for similarity lookups
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generators bundles the collaborators used by the dispatcher.
// A nil member makes the matching intent resolve to an error result.
type Generators struct {
	Documents DocumentGenerator
	Emails    EmailDrafter
	Images    ImageGenerator
	Answers   AnswerGenerator
}

// DocumentRequest asks for document content about Topic
type DocumentRequest struct {
	Topic string `json:"topic"`
}

// DocumentResponse carries the generated document body
type DocumentResponse struct {
	DocumentContent string `json:"documentContent"`
}

// EmailDraftRequest mirrors the compose form
type EmailDraftRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Intention string `json:"intention"`
}

// EmailDraftResponse carries the generated email body
type EmailDraftResponse struct {
	EmailDraft string `json:"emailDraft"`
}

// ImageRequest asks for an image matching Prompt
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse holds the rendered image as a data URI and the prompt used
type ImageResponse struct {
	ImageDataURI string `json:"imageDataUri"`
	Prompt       string `json:"prompt"`
}

// AnswerRequest is a free-form question or search query
type AnswerRequest struct {
	Query string `json:"query"`
}

// AnswerResponse carries the generated answer
type AnswerResponse struct {
	SearchResult string `json:"searchResult"`
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content (always present in streaming)
	Content string

	// Thinking/reasoning content (provider-specific, e.g., DeepSeek)
	ThinkingContent string

	Role string

	// Whether this is the final chunk
	Done bool
}

var (
	_ DocumentGenerator        = (*OpenAIClient)(nil)
	_ EmailDrafter             = (*OpenAIClient)(nil)
	_ StreamingAnswerGenerator = (*OpenAIClient)(nil)
	_ Embedder                 = (*OpenAIClient)(nil)

	_ DocumentGenerator = (*GeminiClient)(nil)
	_ EmailDrafter      = (*GeminiClient)(nil)
	_ ImageGenerator    = (*GeminiClient)(nil)
	_ AnswerGenerator   = (*GeminiClient)(nil)
	_ Embedder          = (*GeminiClient)(nil)

	_ ImageGenerator = (*OpenAIImageGenerator)(nil)
)
