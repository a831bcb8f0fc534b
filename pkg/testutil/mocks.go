// Package testutil provides in-memory fakes for the analyzer's external
// dependencies.
package testutil

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/FrenchMajesty/text-analyzer/model"
	"github.com/FrenchMajesty/text-analyzer/pkg/types"
)

const mockEmbeddingDimensions = 32

// MockEmbeddingClient is a mock implementation of EmbeddingClient for testing
type MockEmbeddingClient struct {
	GenerateEmbeddingFunc func(ctx context.Context, text string) ([]float32, error)
	mu                    sync.Mutex
	CallCount             int
	LastText              string
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastText = text
	m.mu.Unlock()

	if m.GenerateEmbeddingFunc != nil {
		return m.GenerateEmbeddingFunc(ctx, text)
	}
	return HashEmbedding(text), nil
}

// Calls returns the number of GenerateEmbedding calls
func (m *MockEmbeddingClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// HashEmbedding is a deterministic bag-of-words embedding: identical texts
// map to identical vectors and texts sharing words land close together.
func HashEmbedding(text string) []float32 {
	embedding := make([]float32, mockEmbeddingDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		embedding[h.Sum32()%mockEmbeddingDimensions]++
	}
	return embedding
}

// StoredVector is a vector held by MockVectorClient
type StoredVector struct {
	Vector   []float32
	Metadata map[string]any
}

// MockVectorClient is a mock implementation of VectorClient for testing. With
// no SearchFunc it runs cosine similarity over everything upserted.
type MockVectorClient struct {
	SearchFunc func(ctx context.Context, vector []float32, topK int) ([]types.VectorMatch, error)
	UpsertFunc func(ctx context.Context, id string, vector []float32, metadata map[string]any) error

	mu          sync.Mutex
	CallCount   int
	UpsertCount int
	Storage     map[string]StoredVector
}

func NewMockVectorClient() *MockVectorClient {
	return &MockVectorClient{
		Storage: make(map[string]StoredVector),
	}
}

func (m *MockVectorClient) Search(ctx context.Context, vector []float32, topK int) ([]types.VectorMatch, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, vector, topK)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]types.VectorMatch, 0, len(m.Storage))
	for id, stored := range m.Storage {
		matches = append(matches, types.VectorMatch{
			ID:       id,
			Score:    cosine(vector, stored.Vector),
			Metadata: stored.Metadata,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *MockVectorClient) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, id, vector, metadata); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCount++
	if m.Storage == nil {
		m.Storage = make(map[string]StoredVector)
	}
	m.Storage[id] = StoredVector{Vector: vector, Metadata: metadata}

	return nil
}

// Upserts returns the number of successful Upsert calls
func (m *MockVectorClient) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UpsertCount
}

// Stored returns a snapshot of the stored vectors
func (m *MockVectorClient) Stored() []StoredVector {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StoredVector, 0, len(m.Storage))
	for _, v := range m.Storage {
		out = append(out, v)
	}
	return out
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// MockLLMClient is a mock implementation of LLMClient for testing
type MockLLMClient struct {
	ClassifyFunc func(ctx context.Context, text string) (string, error)

	mu        sync.Mutex
	CallCount int
	LastText  string
}

func (m *MockLLMClient) Classify(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastText = text
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	// Default: hashtags read as twitter, everything else as reddit
	if strings.Contains(text, "#") {
		return "twitter", nil
	}
	return "reddit", nil
}

// Calls returns the number of Classify calls
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockModelSource is a mock implementation of model.Source for testing
type MockModelSource struct {
	LoadFunc func(ctx context.Context) (*model.Artifact, error)
	Artifact *model.Artifact

	mu        sync.Mutex
	LoadCount int
}

func (m *MockModelSource) Load(ctx context.Context) (*model.Artifact, error) {
	m.mu.Lock()
	m.LoadCount++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return m.Artifact, nil
}

// SarcasmArtifact is a small two-class model: class 1 (sarcastic) favours
// "awful", class 0 favours "great".
func SarcasmArtifact() *model.Artifact {
	return &model.Artifact{
		Vocab:         map[string]int{"great": 0, "awful": 1, "this": 2},
		Classes:       []model.ClassID{"0", "1"},
		ClassLogPrior: []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{
			{-1.0, -2.5, -1.5},
			{-2.5, -1.0, -1.5},
		},
	}
}
