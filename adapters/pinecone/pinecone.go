// Package pinecone wraps a Pinecone index namespace holding exemplar vectors.
package pinecone

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// Vector represents a vector with metadata (re-exported from SDK for convenience)
type Vector = pinecone.Vector

// QueryMatch represents a match from query results (re-exported from SDK for convenience)
type QueryMatch = pinecone.ScoredVector

// Metadata represents the metadata for a vector (re-exported from SDK for convenience)
type Metadata = pinecone.Metadata

// indexConn is the subset of *pinecone.IndexConnection used here
type indexConn interface {
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	DeleteVectorsById(ctx context.Context, ids []string) error
}

// pineconeService provides access to Pinecone indexes
type pineconeService struct {
	client *pinecone.Client
}

// IndexOperations provides operations for one namespace of a Pinecone index
type IndexOperations struct {
	index indexConn
}

// NewPineconeService creates a new Pinecone service
func NewPineconeService(apiKey string) (*pineconeService, error) {
	if apiKey == "" {
		return nil, errors.New("pinecone API key is required")
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinecone client: %w", err)
	}

	return &pineconeService{client: client}, nil
}

// ForIndex returns operations scoped to namespace of the index at host
func (ps *pineconeService) ForIndex(host string, namespace string) (*IndexOperations, error) {
	if host == "" {
		return nil, errors.New("pinecone index host is required")
	}

	conn, err := ps.client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to index %s: %w", host, err)
	}

	return &IndexOperations{index: conn}, nil
}

// Search performs a vector similarity search in the namespace
func (idx *IndexOperations) Search(ctx context.Context, queryVector []float32, topK int, filter map[string]any, includeMetadata bool) ([]QueryMatch, error) {
	queryRequest := &pinecone.QueryByVectorValuesRequest{
		Vector:          queryVector,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: includeMetadata,
	}

	if len(filter) > 0 {
		metadataFilter, err := structpb.NewStruct(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata filter: %w", err)
		}
		queryRequest.MetadataFilter = metadataFilter
	}

	queryResponse, err := idx.index.QueryByVectorValues(ctx, queryRequest)
	if err != nil {
		return nil, err
	}

	matches := make([]QueryMatch, 0, len(queryResponse.Matches))
	for _, match := range queryResponse.Matches {
		if match == nil || match.Vector == nil {
			continue
		}
		matches = append(matches, *match)
	}

	return matches, nil
}

// Upsert stores vectors in the namespace
func (idx *IndexOperations) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	pineconeVectors := make([]*pinecone.Vector, len(vectors))
	for i := range vectors {
		pineconeVectors[i] = &vectors[i]
	}

	_, err := idx.index.UpsertVectors(ctx, pineconeVectors)
	return err
}

// Delete removes vectors from the namespace
func (idx *IndexOperations) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return idx.index.DeleteVectorsById(ctx, ids)
}
