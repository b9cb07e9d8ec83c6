package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jarvis/internal/config"
	"jarvis/internal/utils"

	"go.uber.org/zap"
)

// ErrOpenAIDisabled is returned when no API key is configured
var ErrOpenAIDisabled = errors.New("OpenAI API is not enabled (missing API key)")

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// OpenAIClient handles OpenAI-compatible API interactions.
// It serves documents, email drafts, answers (plain and streamed) and embeddings.
type OpenAIClient struct {
	config      *config.OpenAIConfig
	httpClient  *http.Client
	chunkParser StreamChunkParser
	extraBody   map[string]any
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client with auto-detection of provider
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("openai")

	parser := DetectChunkParser(cfg.APIBase)
	logger.Info("OpenAI-compatible client configured",
		zap.String("api_base", cfg.APIBase),
		zap.String("provider", parser.Name()),
		zap.String("chat_model", cfg.ChatModel),
		zap.String("embedding_model", cfg.EmbeddingModel),
	)

	c := &OpenAIClient{
		config:      cfg,
		chunkParser: parser,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}

	if cfg.ChatExtraBody != "" {
		if err := json.Unmarshal([]byte(cfg.ChatExtraBody), &c.extraBody); err != nil {
			logger.Warn("ignoring invalid OPENAI_CHAT_EXTRA_BODY", zap.Error(err))
			c.extraBody = nil
		}
	}

	return c
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ExtraBody      map[string]any  `json:"extra_body,omitempty"` // e.g. {"chat_template_kwargs": {"thinking": true}}
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// EmbeddingRequest represents an embedding request
type EmbeddingRequest struct {
	Model          string         `json:"model"`
	Input          []string       `json:"input"`
	Dimensions     int            `json:"dimensions,omitempty"`
	EncodingFormat string         `json:"encoding_format,omitempty"` // NVIDIA requires "float"
	ExtraBody      map[string]any `json:"extra_body,omitempty"`
}

// EmbeddingResponse represents the embedding API response
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// applyDefaults fills unset request fields from config
func (c *OpenAIClient) applyDefaults(req *ChatCompletionRequest) {
	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == 0 && c.config.ChatTemperature > 0 {
		req.Temperature = c.config.ChatTemperature
	}
	if req.TopP == 0 && c.config.ChatTopP > 0 {
		req.TopP = c.config.ChatTopP
	}
	if req.MaxTokens == 0 && c.config.ChatMaxTokens > 0 {
		req.MaxTokens = c.config.ChatMaxTokens
	}
	if req.ExtraBody == nil && c.extraBody != nil {
		req.ExtraBody = c.extraBody
	}
}

func (c *OpenAIClient) newRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.APIBase, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	return httpReq, nil
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, ErrOpenAIDisabled
	}

	c.applyDefaults(&req)
	req.Stream = false

	httpReq, err := c.newRequest(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("chat completion finished",
		zap.String("model", result.Model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return &result, nil
}

// ChatCompletionStream performs a streaming chat completion request
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error {
	if !c.config.Enabled {
		return ErrOpenAIDisabled
	}

	c.applyDefaults(&req)
	req.Stream = true

	httpReq, err := c.newRequest(ctx, "/chat/completions", req)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		line = bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(data)

			if bytes.Equal(data, []byte("[DONE]")) {
				return nil
			}

			chunk, perr := c.chunkParser.ParseChunk(data)
			if perr != nil {
				c.logger.Warn("failed to parse stream chunk", zap.Error(perr))
			} else if err := callback(chunk); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if eof {
			return nil
		}
	}
}

// completeJSON runs a JSON-mode chat completion and decodes the reply into target
func (c *OpenAIClient) completeJSON(ctx context.Context, systemPrompt, userPrompt string, target any) error {
	req := ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.ChatCompletion(ctx, req)
	if err != nil {
		return err
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("no response from model")
	}

	content := resp.Choices[0].Message.Content
	if err := utils.ParseAIJSON(content, target); err != nil {
		c.logger.Warn("failed to parse model response", zap.String("content", content), zap.Error(err))
		return fmt.Errorf("failed to parse model response: %w", err)
	}
	return nil
}

// GenerateDocument implements DocumentGenerator
func (c *OpenAIClient) GenerateDocument(ctx context.Context, req DocumentRequest) (*DocumentResponse, error) {
	var result DocumentResponse
	if err := c.completeJSON(ctx, documentSystemPrompt, documentUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.DocumentContent) == "" {
		return nil, fmt.Errorf("model returned empty document content")
	}
	return &result, nil
}

// DraftEmail implements EmailDrafter
func (c *OpenAIClient) DraftEmail(ctx context.Context, req EmailDraftRequest) (*EmailDraftResponse, error) {
	var result EmailDraftResponse
	if err := c.completeJSON(ctx, emailSystemPrompt, emailUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.EmailDraft) == "" {
		return nil, fmt.Errorf("model returned empty email draft")
	}
	return &result, nil
}

// Answer implements AnswerGenerator
func (c *OpenAIClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	var result AnswerResponse
	if err := c.completeJSON(ctx, answerSystemPrompt, answerUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.SearchResult) == "" {
		return nil, fmt.Errorf("model returned empty answer")
	}
	return &result, nil
}

// AnswerStream implements StreamingAnswerGenerator. Reasoning deltas from
// thinking models are logged but not forwarded.
func (c *OpenAIClient) AnswerStream(ctx context.Context, req AnswerRequest, callback func(delta string) error) (*AnswerResponse, error) {
	chatReq := ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: answerStreamSystemPrompt},
			{Role: "user", Content: answerUserPrompt(req)},
		},
	}

	var full strings.Builder
	var thinkingChars int

	err := c.ChatCompletionStream(ctx, chatReq, func(chunk *StreamChunk) error {
		thinkingChars += len(chunk.ThinkingContent)
		if chunk.Content == "" {
			return nil
		}
		full.WriteString(chunk.Content)
		return callback(chunk.Content)
	})
	if err != nil {
		return nil, fmt.Errorf("streaming error: %w", err)
	}

	c.logger.Debug("answer stream finished",
		zap.Int("content_chars", full.Len()),
		zap.Int("thinking_chars", thinkingChars),
	)

	answer := strings.TrimSpace(full.String())
	if answer == "" {
		return nil, fmt.Errorf("model returned empty answer")
	}
	return &AnswerResponse{SearchResult: answer}, nil
}

// Embed implements Embedder
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// CreateEmbeddings creates embeddings for the given texts
func (c *OpenAIClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.config.Enabled {
		return nil, ErrOpenAIDisabled
	}

	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	allEmbeddings := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))

		embeddings, err := c.createEmbeddingBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings for batch %d: %w", i/batchSize, err)
		}
		allEmbeddings = append(allEmbeddings, embeddings...)

		// Rate limiting: small delay between batches
		if end < len(texts) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}

	return allEmbeddings, nil
}

func (c *OpenAIClient) createEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := EmbeddingRequest{
		Model:          c.config.EmbeddingModel,
		Input:          texts,
		Dimensions:     c.config.EmbeddingDimensions,
		EncodingFormat: "float",
	}

	if c.config.EmbeddingExtraBody != "" {
		var extraBody map[string]any
		if err := json.Unmarshal([]byte(c.config.EmbeddingExtraBody), &extraBody); err == nil {
			req.ExtraBody = extraBody
		} else {
			c.logger.Warn("ignoring invalid OPENAI_EMBEDDING_EXTRA_BODY", zap.Error(err))
		}
	}

	httpReq, err := c.newRequest(ctx, "/embeddings", req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result EmbeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Extract embeddings in order
	embeddings := make([][]float32, len(texts))
	for _, item := range result.Data {
		if item.Index >= 0 && item.Index < len(embeddings) {
			embeddings[item.Index] = item.Embedding
		}
	}

	c.logger.Debug("created embeddings",
		zap.Int("count", len(embeddings)),
		zap.String("model", result.Model),
		zap.Int("tokens", result.Usage.TotalTokens),
	)

	return embeddings, nil
}
