package analyzer

import (
	"context"

	"github.com/FrenchMajesty/text-analyzer/pkg/types"
)

// TextClassifier is anything that must be loaded once and can then label text.
// Both the sarcasm model and the platform detector implement it, so callers
// can drive them the same way.
type TextClassifier interface {
	// Name identifies the classifier, e.g. "sarcasm".
	Name() string

	// Load prepares the classifier. It must succeed before Predict is called.
	Load(ctx context.Context) error

	// Predict labels text. It returns ErrNotLoaded before a successful Load.
	Predict(ctx context.Context, text string) (*Result, error)
}

// EmbeddingClient generates vector embeddings for text
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorClient performs vector similarity search and storage operations
type VectorClient interface {
	Search(ctx context.Context, vector []float32, topK int) ([]types.VectorMatch, error)
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error
}

// LLMClient classifies text into category labels
type LLMClient interface {
	Classify(ctx context.Context, text string) (string, error)
}
