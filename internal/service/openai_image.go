package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jarvis/internal/config"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// DefaultImageModel is used when OPENAI_IMAGE_MODEL is unset
const DefaultImageModel = oai.ImageModelGPTImage1

// OpenAIImageGenerator implements ImageGenerator with the OpenAI Images API
type OpenAIImageGenerator struct {
	client oai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIImageGenerator creates an image generator from the OpenAI config
func NewOpenAIImageGenerator(cfg *config.OpenAIConfig, logger *zap.Logger) (*OpenAIImageGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai images: API key must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model := cfg.ImageModel
	if model == "" {
		model = DefaultImageModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.ImageAPIBase != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.ImageAPIBase))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}))
	}

	return &OpenAIImageGenerator{
		client: oai.NewClient(reqOpts...),
		model:  model,
		logger: logger.Named("openai-images"),
	}, nil
}

// GenerateImage implements ImageGenerator
func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	params := oai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  oai.ImageModel(g.model),
		N:      oai.Int(1),
	}
	// DALL-E models return URLs unless asked otherwise; gpt-image models
	// always return base64 and reject the parameter.
	if strings.HasPrefix(g.model, "dall-e") {
		params.ResponseFormat = oai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := g.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai images: generate: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrNoImageData
	}

	g.logger.Debug("image generated", zap.String("model", g.model))

	return &ImageResponse{
		ImageDataURI: "data:image/png;base64," + resp.Data[0].B64JSON,
		Prompt:       req.Prompt,
	}, nil
}
