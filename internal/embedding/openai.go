// Package embedding converts article text into fixed-length semantic
// vectors. The model is an external collaborator; callers store the vector
// opaquely and never interpret its contents.
package embedding

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds embedding provider settings.
type Config struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// DefaultConfig returns embedding defaults.
func DefaultConfig() Config {
	return Config{Model: "text-embedding-ada-002"}
}

var modelNames = map[string]openai.EmbeddingModel{
	"text-embedding-ada-002":  openai.AdaEmbeddingV2,
	"text-search-ada-doc-001": openai.AdaSearchDocument,
}

// OpenAIEmbedder computes embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAI creates an embedder from configuration. Unknown model names
// fall back to ada-002.
func NewOpenAI(cfg Config) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model, ok := modelNames[cfg.Model]
	if !ok {
		model = openai.AdaEmbeddingV2
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Embed returns the embedding vector for the given text. Blocking; no
// retries. Any API failure surfaces directly to the calling mutation.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create embedding")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}
	return resp.Data[0].Embedding, nil
}
