// Package voyage wraps the Voyage AI embeddings API.
package voyage

import (
	"context"
	"errors"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

const EMBEDDING_DIMENSIONS = 1024

const VOYAGEAI_EMBEDDING_MODEL = "voyage-3.5-lite"

type VoyageEmbeddingType string

const (
	VoyageEmbeddingTypeDocument VoyageEmbeddingType = "document"
	VoyageEmbeddingTypeQuery    VoyageEmbeddingType = "query"
	VoyageEmbeddingTypeDefault  VoyageEmbeddingType = ""
)

// embedder is the part of the Voyage SDK client the service uses
type embedder interface {
	Embed(texts []string, model string, opts *voyageai.EmbeddingRequestOpts) (*voyageai.EmbeddingResponse, error)
}

// voyageService generates embeddings for text
type voyageService struct {
	client     embedder
	dimensions int
	model      string
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(apiKey string) *voyageService {
	return &voyageService{
		client: voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		}),
		dimensions: EMBEDDING_DIMENSIONS,
		model:      VOYAGEAI_EMBEDDING_MODEL,
	}
}

// SetDimensions sets the output dimension of the embeddings
func (es *voyageService) SetDimensions(dimensions int) {
	es.dimensions = dimensions
}

// SetModel sets the embedding model
func (es *voyageService) SetModel(model string) {
	es.model = model
}

// GenerateEmbedding generates an embedding for a single text
func (es *voyageService) GenerateEmbedding(ctx context.Context, text string, embeddingType VoyageEmbeddingType) ([]float32, error) {
	data, err := es.GenerateEmbeddings(ctx, []string{text}, embeddingType)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("could not get embedding: empty response")
	}
	return data[0].Embedding, nil
}

// GenerateEmbeddings generates embeddings for multiple texts in one request
func (es *voyageService) GenerateEmbeddings(ctx context.Context, texts []string, embeddingType VoyageEmbeddingType) ([]voyageai.EmbeddingObject, error) {
	// The SDK does not take a context, so honor cancellation before the call
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dimensions := es.GetEmbeddingDimensions()

	embeddings, err := es.client.Embed(
		texts,
		es.model,
		&voyageai.EmbeddingRequestOpts{
			InputType:       parseEmbeddingType(embeddingType),
			OutputDimension: &dimensions,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not get embeddings: %w", err)
	}

	return embeddings.Data, nil
}

func parseEmbeddingType(embeddingType VoyageEmbeddingType) *string {
	if embeddingType != VoyageEmbeddingTypeDefault {
		value := string(embeddingType)
		return &value
	}
	return nil
}

// GetEmbeddingDimensions returns the dimension count for the embedding model
func (es *voyageService) GetEmbeddingDimensions() int {
	return es.dimensions
}
