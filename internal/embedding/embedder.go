package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// Embedder turns document text into vectors with a Gemini embedding
// model.
type Embedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewEmbedder creates an Embedder authenticated with apiKey. An empty
// model name selects DefaultModel.
func NewEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{
		client: client,
		model:  client.EmbeddingModel(model),
	}, nil
}

// EmbedText returns the embedding vector for text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response carried no vector")
	}
	return resp.Embedding.Values, nil
}

// Close releases the underlying API client.
func (e *Embedder) Close() error {
	return e.client.Close()
}
