package store

import (
	"context"
	"fmt"

	"github.com/kart-io/docvault/pkg/llm"
)

// Metadata keys stored with every chunk.
const (
	MetaDocumentID = "document_id"
	MetaUserID     = "user_id"
	MetaSource     = "source"
)

// Chunk is a piece of document text to be indexed.
type Chunk struct {
	DocumentID string
	UserID     string
	Source     string
	Content    string
}

// SearchResult is a retrieved chunk. Results are ordered by decreasing
// relevance.
type SearchResult struct {
	Chunk
	Score float32
}

// VectorIndex embeds and stores chunks. Searches are always scoped to a
// single user.
type VectorIndex interface {
	Index(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, query string, k int, userID string) ([]SearchResult, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	Close() error
}

// VectorRecord is an embedded chunk as handed to a backend.
type VectorRecord struct {
	Chunk
	Embedding []float32
}

// VectorBackend stores already embedded records.
type VectorBackend interface {
	Insert(ctx context.Context, records []VectorRecord) error
	Search(ctx context.Context, vector []float32, k int, userID string) ([]SearchResult, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	Close() error
}

type vectorIndex struct {
	embedder  llm.EmbeddingProvider
	backend   VectorBackend
	batchSize int
}

// NewVectorIndex composes an embedding provider with a backend. Texts are
// embedded batchSize at a time and inserted together.
func NewVectorIndex(embedder llm.EmbeddingProvider, backend VectorBackend, batchSize int) VectorIndex {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &vectorIndex{embedder: embedder, backend: backend, batchSize: batchSize}
}

func (v *vectorIndex) Index(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	records := make([]VectorRecord, 0, len(chunks))
	for start := 0; start < len(chunks); start += v.batchSize {
		end := min(start+v.batchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}
		vectors, err := v.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
		}
		for i, c := range chunks[start:end] {
			records = append(records, VectorRecord{Chunk: c, Embedding: vectors[i]})
		}
	}

	return v.backend.Insert(ctx, records)
}

func (v *vectorIndex) Search(ctx context.Context, query string, k int, userID string) ([]SearchResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("search requires a user id")
	}
	if k <= 0 {
		return nil, nil
	}

	vector, err := v.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return v.backend.Search(ctx, vector, k, userID)
}

func (v *vectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	return v.backend.DeleteByDocument(ctx, documentID)
}

func (v *vectorIndex) Close() error {
	return v.backend.Close()
}
