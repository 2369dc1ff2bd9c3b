package memory

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func messageRecord(t *testing.T, id, content string, values []float32) core.VectorRecord {
	t.Helper()

	meta, err := core.NewMessageMetadata(content, "u1", "c1", testTime)
	require.NoError(t, err)
	return core.VectorRecord{ID: id, Values: values, Metadata: meta}
}

func TestUpsertReplacesById(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx, "p", []core.VectorRecord{
		messageRecord(t, "msg_1", "hello", []float32{1, 0}),
	}))
	require.NoError(t, idx.Upsert(ctx, "p", []core.VectorRecord{
		messageRecord(t, "msg_1", "hello again", []float32{0, 1}),
	}))

	assert.Equal(t, 1, idx.Len("p"))

	matches, err := idx.Query(ctx, "p", []float32{0, 1}, vectorstore.QueryOptions{TopK: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "hello again", matches[0].Metadata.Content)
}

func TestQueryRanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx, "p", []core.VectorRecord{
		messageRecord(t, "msg_1", "east", []float32{1, 0}),
		messageRecord(t, "msg_2", "north", []float32{0, 1}),
		messageRecord(t, "msg_3", "northeast", []float32{1, 1}),
	}))

	matches, err := idx.Query(ctx, "p", []float32{1, 0.1}, vectorstore.QueryOptions{TopK: 2})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "msg_1", matches[0].ID)
	assert.Equal(t, "msg_3", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestQueryFilter(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	social, err := core.NewSocialPostMetadata("see this", "u1", "c1", testTime, "https://x.com/a/status/1")
	require.NoError(t, err)

	require.NoError(t, idx.Upsert(ctx, "p", []core.VectorRecord{
		messageRecord(t, "msg_1", "hello", []float32{1, 0}),
		{ID: "msg_2", Values: []float32{0, 1}, Metadata: social},
	}))

	matches, err := idx.Query(ctx, "p", []float32{1, 1}, vectorstore.QueryOptions{
		TopK:   10,
		Filter: map[string]any{"type": "social_post"},
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "msg_2", matches[0].ID)
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx, "chat", []core.VectorRecord{
		messageRecord(t, "msg_1", "hello", []float32{1, 0}),
	}))

	matches, err := idx.Query(ctx, "documents", []float32{1, 0}, vectorstore.QueryOptions{TopK: 10})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx, "p", []core.VectorRecord{
		messageRecord(t, "msg_1", "hello", []float32{1, 0}),
		messageRecord(t, "msg_2", "world", []float32{0, 1}),
	}))
	require.NoError(t, idx.DeleteAll(ctx, "p"))

	matches, err := idx.Query(ctx, "p", []float32{1, 0}, vectorstore.QueryOptions{TopK: 10})
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 0, idx.Len("p"))
}

func TestEmptyNamespaceRejected(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	assert.ErrorIs(t, idx.Upsert(ctx, "", nil), vectorstore.ErrEmptyNamespace)
	assert.ErrorIs(t, idx.DeleteAll(ctx, ""), vectorstore.ErrEmptyNamespace)

	_, err := idx.Query(ctx, "", []float32{1}, vectorstore.QueryOptions{TopK: 1})
	assert.ErrorIs(t, err, vectorstore.ErrEmptyNamespace)
}
