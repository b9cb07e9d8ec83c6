package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"jarvis/internal/config"
	"jarvis/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient serves every generator contract from the Gemini API:
// JSON-mode text generation for documents, emails and answers, native
// image output for pictures, and embeddings for history lookups.
type GeminiClient struct {
	client *genai.Client
	config *config.GeminiConfig
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini client from config
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger = logger.Named("gemini")
	logger.Info("Gemini client configured",
		zap.String("text_model", cfg.TextModel),
		zap.String("image_model", cfg.ImageModel),
		zap.String("embedding_model", cfg.EmbeddingModel),
	)

	return &GeminiClient{client: client, config: cfg, logger: logger}, nil
}

// generateJSON asks the text model for a JSON reply and decodes it into target
func (g *GeminiClient) generateJSON(ctx context.Context, systemPrompt, userPrompt string, target any) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.config.TextModel, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return fmt.Errorf("gemini generate failed: %w", err)
	}

	content := resp.Text()
	if err := utils.ParseAIJSON(content, target); err != nil {
		g.logger.Warn("failed to parse model response", zap.String("content", content), zap.Error(err))
		return fmt.Errorf("failed to parse model response: %w", err)
	}
	return nil
}

// GenerateDocument implements DocumentGenerator
func (g *GeminiClient) GenerateDocument(ctx context.Context, req DocumentRequest) (*DocumentResponse, error) {
	var result DocumentResponse
	if err := g.generateJSON(ctx, documentSystemPrompt, documentUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.DocumentContent) == "" {
		return nil, fmt.Errorf("model returned empty document content")
	}
	return &result, nil
}

// DraftEmail implements EmailDrafter
func (g *GeminiClient) DraftEmail(ctx context.Context, req EmailDraftRequest) (*EmailDraftResponse, error) {
	var result EmailDraftResponse
	if err := g.generateJSON(ctx, emailSystemPrompt, emailUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.EmailDraft) == "" {
		return nil, fmt.Errorf("model returned empty email draft")
	}
	return &result, nil
}

// Answer implements AnswerGenerator
func (g *GeminiClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	var result AnswerResponse
	if err := g.generateJSON(ctx, answerSystemPrompt, answerUserPrompt(req), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.SearchResult) == "" {
		return nil, fmt.Errorf("model returned empty answer")
	}
	return &result, nil
}

// GenerateImage implements ImageGenerator. The image model must be asked
// for both text and image modalities or it refuses to render.
func (g *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.config.ImageModel, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image generation failed: %w", err)
	}

	dataURI, ok := imageDataURI(resp)
	if !ok {
		return nil, ErrNoImageData
	}

	return &ImageResponse{ImageDataURI: dataURI, Prompt: req.Prompt}, nil
}

// imageDataURI returns the first inline image of the first candidate as a data URI
func imageDataURI(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := part.InlineData.MIMEType
		if !strings.HasPrefix(mimeType, "image/") {
			continue
		}
		return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), true
	}
	return "", false
}

// Embed implements Embedder
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedConfig *genai.EmbedContentConfig
	if g.config.EmbeddingDimensions > 0 {
		embedConfig = &genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(g.config.EmbeddingDimensions)),
		}
	}

	result, err := g.client.Models.EmbedContent(ctx,
		g.config.EmbeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		embedConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}
