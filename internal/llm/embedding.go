package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// embedBatchSize is the maximum number of contents per BatchEmbedContents call.
const embedBatchSize = 100

// EmbedTexts computes embedding vectors for a slice of texts using the
// configured embedding model. The result preserves input order.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	modelName := c.config.EmbeddingModel
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}
	em := c.client.EmbeddingModel(modelName)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch starting at %d: %w", start, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), end-start)
		}

		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("empty embedding for text %d", start+i)
			}
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}
