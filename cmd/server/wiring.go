package main

import (
	"context"
	"fmt"

	"jarvis/internal/config"
	"jarvis/internal/repository"
	"jarvis/internal/service"

	"go.uber.org/zap"
)

// newGenerators builds the generation back-ends named by the config. A
// provider without an API key leaves its generators unset; the dispatcher
// then answers those commands with a "not configured" error result.
func newGenerators(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Generators, service.Embedder, error) {
	var (
		generators service.Generators
		embedder   service.Embedder
		gemini     *service.GeminiClient
	)

	geminiClient := func() (*service.GeminiClient, error) {
		if gemini != nil || !cfg.Gemini.Enabled {
			return gemini, nil
		}
		client, err := service.NewGeminiClient(ctx, &cfg.Gemini, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		gemini = client
		logger.Info("Gemini client initialized",
			zap.String("text_model", cfg.Gemini.TextModel),
			zap.String("image_model", cfg.Gemini.ImageModel),
		)
		return gemini, nil
	}

	switch cfg.Generator.Provider {
	case config.ProviderGemini:
		client, err := geminiClient()
		if err != nil {
			return generators, nil, err
		}
		if client == nil {
			logger.Warn("Gemini is disabled; set GEMINI_API_KEY to enable documents, emails and answers")
			break
		}
		generators.Documents = client
		generators.Emails = client
		generators.Answers = client
		if cfg.History.Embeddings {
			embedder = client
		}

	case config.ProviderOpenAI:
		if !cfg.OpenAI.Enabled {
			logger.Warn("OpenAI is disabled; set OPENAI_API_KEY to enable documents, emails and answers")
			break
		}
		client := service.NewOpenAIClient(&cfg.OpenAI, logger)
		logger.Info("OpenAI client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
		)
		generators.Documents = client
		generators.Emails = client
		generators.Answers = client
		if cfg.History.Embeddings {
			embedder = client
		}
	}

	switch cfg.Generator.ImageProvider {
	case config.ProviderGemini:
		client, err := geminiClient()
		if err != nil {
			return generators, nil, err
		}
		if client == nil {
			logger.Warn("Gemini is disabled; image generation will not work")
			break
		}
		generators.Images = client

	case config.ProviderOpenAI:
		if !cfg.OpenAI.Enabled {
			logger.Warn("OpenAI is disabled; image generation will not work")
			break
		}
		images, err := service.NewOpenAIImageGenerator(&cfg.OpenAI, logger)
		if err != nil {
			return generators, nil, fmt.Errorf("failed to create OpenAI image generator: %w", err)
		}
		logger.Info("OpenAI image generator initialized", zap.String("model", cfg.OpenAI.ImageModel))
		generators.Images = images
	}

	if cfg.History.Embeddings && embedder == nil {
		logger.Warn("HISTORY_EMBEDDINGS is on but no embedding provider is configured; similar-command lookup is off")
	}

	return generators, embedder, nil
}

// newHistoryStore opens the configured history backend
func newHistoryStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.HistoryStore, error) {
	if cfg.History.Backend != config.HistoryBackendPostgres {
		logger.Info("using in-memory command history", zap.Int("max_items", cfg.History.MaxItems))
		return repository.NewMemoryHistoryStore(cfg.History.MaxItems), nil
	}

	dims := 0
	if cfg.History.Embeddings {
		dims = cfg.History.EmbeddingDimensions
	}

	store, err := repository.NewPostgresHistoryStore(ctx, cfg.GetPostgreSQLDSN(), repository.PostgresOptions{
		MaxConnections:     cfg.PostgreSQL.MaxConnections,
		MaxIdleConnections: cfg.PostgreSQL.MaxIdleConnections,
		MaxItems:           cfg.History.MaxItems,
		EmbeddingDims:      dims,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to PostgreSQL command history",
		zap.Int("max_items", cfg.History.MaxItems),
		zap.Int("embedding_dims", dims),
	)
	return store, nil
}
