package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/testutil"
	"github.com/kart-io/docvault/pkg/component/milvus"
)

func chunksFor(docID, userID string, texts ...string) []Chunk {
	out := make([]Chunk, len(texts))
	for i, t := range texts {
		out[i] = Chunk{DocumentID: docID, UserID: userID, Source: docID + ".pdf", Content: t}
	}
	return out
}

func TestSearchIsScopedToUser(t *testing.T) {
	idx := NewVectorIndex(&testutil.Embedder{}, NewMemoryBackend(), 2)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, chunksFor("d1", "alice", "alice contract clause", "alice invoice")))
	require.NoError(t, idx.Index(ctx, chunksFor("d2", "bob", "bob contract clause")))

	res, err := idx.Search(ctx, "contract clause", 5, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	for _, r := range res {
		assert.Equal(t, "alice", r.UserID)
	}
	assert.Equal(t, "alice contract clause", res[0].Content)

	_, err = idx.Search(ctx, "contract", 5, "")
	assert.Error(t, err)
}

func TestSearchRespectsK(t *testing.T) {
	idx := NewVectorIndex(&testutil.Embedder{}, NewMemoryBackend(), 3)
	ctx := context.Background()

	var texts []string
	for i := 0; i < 8; i++ {
		texts = append(texts, fmt.Sprintf("chunk number %d", i))
	}
	require.NoError(t, idx.Index(ctx, chunksFor("d1", "alice", texts...)))

	res, err := idx.Search(ctx, "chunk", 5, "alice")
	require.NoError(t, err)
	assert.Len(t, res, 5)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
	}
}

func TestIndexBatchesEmbeddings(t *testing.T) {
	emb := &testutil.Embedder{}
	backend := NewMemoryBackend()
	idx := NewVectorIndex(emb, backend, 2)

	require.NoError(t, idx.Index(context.Background(), chunksFor("d1", "u", "a", "b", "c", "d", "e")))
	assert.Equal(t, 3, emb.Calls)
	assert.Equal(t, 5, backend.Count("d1"))
}

func TestIndexFailureInsertsNothing(t *testing.T) {
	emb := &testutil.Embedder{Err: fmt.Errorf("provider down")}
	backend := NewMemoryBackend()
	idx := NewVectorIndex(emb, backend, 2)

	assert.Error(t, idx.Index(context.Background(), chunksFor("d1", "u", "a", "b", "c")))
	assert.Zero(t, backend.Count("d1"))
}

func TestDeleteByDocumentCascade(t *testing.T) {
	backend := NewMemoryBackend()
	idx := NewVectorIndex(&testutil.Embedder{}, backend, 10)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, chunksFor("d1", "u", "a", "b")))
	require.NoError(t, idx.Index(ctx, chunksFor("d2", "u", "c")))

	require.NoError(t, idx.DeleteByDocument(ctx, "d1"))
	require.NoError(t, idx.DeleteByDocument(ctx, "d1"), "delete is idempotent")
	assert.Zero(t, backend.Count("d1"))
	assert.Equal(t, 1, backend.Count("d2"))

	res, err := idx.Search(ctx, "a b c", 5, "u")
	require.NoError(t, err)
	for _, r := range res {
		assert.Equal(t, "d2", r.DocumentID)
	}
}

type fakeMilvus struct {
	ensured  int
	inserted *milvus.InsertData
	filter   string
	deleted  string
}

func (f *fakeMilvus) EnsureCollection(context.Context, *milvus.CollectionSchema) error {
	f.ensured++
	return nil
}

func (f *fakeMilvus) Insert(_ context.Context, _ string, data *milvus.InsertData) error {
	f.inserted = data
	return nil
}

func (f *fakeMilvus) Search(_ context.Context, _ string, _ []float32, _ int, filter string, _ []string) ([]milvus.SearchResult, error) {
	f.filter = filter
	return []milvus.SearchResult{{
		ID:    "01J",
		Score: 0.5,
		Metadata: map[string]any{
			MetaDocumentID: "d1", MetaUserID: "alice", MetaSource: "a.pdf", contentField: "text",
		},
	}}, nil
}

func (f *fakeMilvus) Delete(_ context.Context, _ string, expr string) error {
	f.deleted = expr
	return nil
}

func (f *fakeMilvus) Close(context.Context) error { return nil }

func TestMilvusBackend(t *testing.T) {
	fm := &fakeMilvus{}
	b := NewMilvusBackend(fm, "chunks", 2)
	ctx := context.Background()

	require.NoError(t, b.Insert(ctx, []VectorRecord{{Chunk: Chunk{DocumentID: "d1", UserID: "alice", Source: "a.pdf", Content: "x"}, Embedding: []float32{1, 0}}}))
	require.NotNil(t, fm.inserted)
	assert.Len(t, fm.inserted.IDs[0], 26)
	assert.Equal(t, "alice", fm.inserted.Metadata[MetaUserID][0])

	res, err := b.Search(ctx, []float32{1, 0}, 5, `al"ice`)
	require.NoError(t, err)
	assert.Equal(t, `user_id == "al\"ice"`, fm.filter)
	require.Len(t, res, 1)
	assert.Equal(t, "text", res[0].Content)

	require.NoError(t, b.DeleteByDocument(ctx, "d1"))
	assert.Equal(t, `document_id == "d1"`, fm.deleted)
	assert.Equal(t, 1, fm.ensured, "collection is ensured once")

	assert.Error(t, b.Insert(ctx, []VectorRecord{{Embedding: []float32{1, 2, 3}}}), "dimension mismatch")
}
