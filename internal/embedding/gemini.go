package embedding

import (
	"context"
	"fmt"
	"time"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/txerror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const providerName = "gemini"

// GeminiClient implements Client against the Google Gemini embedding API.
// Every call is bounded by a fixed timeout so the pipeline never blocks
// indefinitely on the provider.
type GeminiClient struct {
	model   *genai.EmbeddingModel
	timeout time.Duration
	log     logging.Logger
}

// NewGeminiClient creates a GeminiClient for the given model name.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{
		model:   client.EmbeddingModel(model),
		timeout: timeout,
		log:     logger,
	}, nil
}

// Embed requests an embedding for the given text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		c.log.WithError(err).Warn("Embedding request failed")
		return nil, &txerror.EmbeddingUnavailableError{Provider: providerName, Err: err}
	}

	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		err := fmt.Errorf("provider returned an empty embedding")
		c.log.WithError(err).Warn("Malformed embedding response")
		return nil, &txerror.EmbeddingUnavailableError{Provider: providerName, Err: err}
	}

	return resp.Embedding.Values, nil
}
