package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/oklog/ulid/v2"

	"github.com/kart-io/docvault/pkg/component/milvus"
)

const contentField = "content"

// milvusClient is the subset of the Milvus component used here.
type milvusClient interface {
	EnsureCollection(ctx context.Context, schema *milvus.CollectionSchema) error
	Insert(ctx context.Context, collection string, data *milvus.InsertData) error
	Search(ctx context.Context, collection string, vector []float32, topK int, filter string, outputFields []string) ([]milvus.SearchResult, error)
	Delete(ctx context.Context, collection, expr string) error
	Close(ctx context.Context) error
}

// MilvusBackend stores chunks in one Milvus collection. The collection is
// created on first use; a failed attempt is retried on the next call.
type MilvusBackend struct {
	client     milvusClient
	collection string
	dimension  int

	mu    sync.Mutex
	ready bool
}

var _ VectorBackend = (*MilvusBackend)(nil)

// NewMilvusBackend creates the backend.
func NewMilvusBackend(client milvusClient, collection string, dimension int) *MilvusBackend {
	return &MilvusBackend{client: client, collection: collection, dimension: dimension}
}

func (b *MilvusBackend) schema() *milvus.CollectionSchema {
	return &milvus.CollectionSchema{
		Name:        b.collection,
		Description: "DocVault document chunks",
		Dimension:   b.dimension,
		MetaFields: []milvus.MetaField{
			{Name: MetaDocumentID, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: MetaUserID, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: MetaSource, DataType: entity.FieldTypeVarChar, MaxLen: 512},
			{Name: contentField, DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
}

func (b *MilvusBackend) ensure(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ready {
		return nil
	}
	if err := b.client.EnsureCollection(ctx, b.schema()); err != nil {
		return err
	}
	b.ready = true
	return nil
}

// Insert writes all records in a single insert.
func (b *MilvusBackend) Insert(ctx context.Context, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := b.ensure(ctx); err != nil {
		return err
	}

	n := len(records)
	data := &milvus.InsertData{
		IDs:        make([]string, n),
		Embeddings: make([][]float32, n),
		Metadata: map[string][]any{
			MetaDocumentID: make([]any, n),
			MetaUserID:     make([]any, n),
			MetaSource:     make([]any, n),
			contentField:   make([]any, n),
		},
	}
	for i, r := range records {
		if len(r.Embedding) != b.dimension {
			return fmt.Errorf("embedding has dimension %d, collection expects %d", len(r.Embedding), b.dimension)
		}
		data.IDs[i] = ulid.Make().String()
		data.Embeddings[i] = r.Embedding
		data.Metadata[MetaDocumentID][i] = r.DocumentID
		data.Metadata[MetaUserID][i] = r.UserID
		data.Metadata[MetaSource][i] = r.Source
		data.Metadata[contentField][i] = r.Content
	}
	return b.client.Insert(ctx, b.collection, data)
}

// Search filters by user_id inside Milvus so other users' chunks never
// leave the index.
func (b *MilvusBackend) Search(ctx context.Context, vector []float32, k int, userID string) ([]SearchResult, error) {
	if err := b.ensure(ctx); err != nil {
		return nil, err
	}

	hits, err := b.client.Search(ctx, b.collection, vector, k,
		milvus.EqualsExpr(MetaUserID, userID),
		[]string{MetaDocumentID, MetaUserID, MetaSource, contentField})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, SearchResult{
			Chunk: Chunk{
				DocumentID: metaString(h.Metadata, MetaDocumentID),
				UserID:     metaString(h.Metadata, MetaUserID),
				Source:     metaString(h.Metadata, MetaSource),
				Content:    metaString(h.Metadata, contentField),
			},
			Score: h.Score,
		})
	}
	return results, nil
}

// DeleteByDocument removes every chunk of the document. Deleting a
// document without chunks succeeds.
func (b *MilvusBackend) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := b.ensure(ctx); err != nil {
		return err
	}
	return b.client.Delete(ctx, b.collection, milvus.EqualsExpr(MetaDocumentID, documentID))
}

func (b *MilvusBackend) Close() error {
	return b.client.Close(context.Background())
}

func metaString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
