package answerit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageSource and fakeFileSource are local test doubles for the
// source interfaces.
type fakeMessageSource struct {
	records []core.SourceRecord
	err     error
	limit   int
}

func (f *fakeMessageSource) RecentMessages(ctx context.Context, limit int) ([]core.SourceRecord, error) {
	f.limit = limit
	return f.records, f.err
}

type fakeFileSource struct {
	records []core.SourceRecord
	err     error
}

func (f *fakeFileSource) ListFiles(ctx context.Context) ([]core.SourceRecord, error) {
	return f.records, f.err
}

func newTestKB(t *testing.T, opts ...KnowledgeBaseOption) (*KnowledgeBase, *memory.Index, *mock.MockProvider) {
	t.Helper()

	idx := memory.NewIndex()
	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockEmbedder().Dimension = 8

	kb, err := New(provider, idx, append([]KnowledgeBaseOption{WithDimension(8)}, opts...)...)
	require.NoError(t, err)

	return kb, idx, provider
}

func TestNew(t *testing.T) {
	idx := memory.NewIndex()
	provider := mock.NewMockProvider()

	t.Run("requires a provider", func(t *testing.T) {
		_, err := New(nil, idx)
		assert.Error(t, err)
	})

	t.Run("requires an index", func(t *testing.T) {
		_, err := New(provider, nil)
		assert.Error(t, err)
	})

	t.Run("rejects colliding namespaces", func(t *testing.T) {
		_, err := New(provider, idx, WithNamespaces("same", "same"))
		assert.ErrorIs(t, err, ErrSameNamespace)
	})

	t.Run("defaults", func(t *testing.T) {
		kb, err := New(provider, idx)
		require.NoError(t, err)
		assert.Equal(t, DefaultChatNamespace, kb.chatNamespace)
		assert.Equal(t, DefaultDocumentNamespace, kb.documentNamespace)
	})
}

func TestIngestMessages(t *testing.T) {
	kb, idx, _ := newTestKB(t)

	src := &fakeMessageSource{records: []core.SourceRecord{
		{ID: "1", Text: "hello", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()},
		{ID: "2", Text: "see https://x.com/alice/status/42", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()},
	}}

	written, err := kb.IngestMessages(context.Background(), src, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, written)
	assert.Equal(t, DefaultMessageBatchSize, src.limit)
	assert.Equal(t, 2, idx.Len(DefaultChatNamespace))
	assert.Equal(t, 0, idx.Len(DefaultDocumentNamespace))
}

func TestIngestMessagesSourceFailure(t *testing.T) {
	kb, idx, _ := newTestKB(t)

	srcErr := errors.New("connection refused")
	written, err := kb.IngestMessages(context.Background(), &fakeMessageSource{err: srcErr}, 10)
	assert.ErrorIs(t, err, srcErr)
	assert.Zero(t, written)
	assert.Equal(t, 0, idx.Len(DefaultChatNamespace))
}

func TestIngestFiles(t *testing.T) {
	kb, idx, _ := newTestKB(t)

	src := &fakeFileSource{records: []core.SourceRecord{{
		ID:        "report.pdf",
		Text:      "File Name: report.pdf\nType: application/pdf",
		Origin:    core.OriginFile,
		CreatedAt: time.Now().UTC(),
		File:      &core.FileInfo{Name: "report.pdf", URL: "https://cdn/report.pdf", MimeType: "application/pdf", Size: 4096},
	}}}

	written, err := kb.IngestFiles(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, 1, idx.Len(DefaultChatNamespace))
}

func TestUploadDocumentsAndAsk(t *testing.T) {
	kb, idx, provider := newTestKB(t)
	provider.GetMockCompleter().Answer = "It is covered in the handbook."

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "handbook.txt"), []byte(strings.Repeat("vacation policy details. ", 10)), 0o644))

	written, err := kb.UploadDocuments(context.Background(), dir)
	require.NoError(t, err)
	require.Positive(t, written)
	assert.Equal(t, written, idx.Len(DefaultDocumentNamespace))

	answer, err := kb.Ask(context.Background(), "what is the vacation policy?", 0)
	require.NoError(t, err)
	assert.Equal(t, "It is covered in the handbook.", answer.Text)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "handbook.txt", answer.Sources[0].SourceID)
}

func TestSocialPosts(t *testing.T) {
	kb, _, _ := newTestKB(t)

	records := []core.SourceRecord{
		{ID: "1", Text: "plain message", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()},
		{ID: "2", Text: "https://x.com/alice/status/42", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()},
		{ID: "3", Text: "https://twitter.com/bob/status/7", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()},
	}
	_, err := kb.IngestMessages(context.Background(), &fakeMessageSource{records: records}, 10)
	require.NoError(t, err)

	posts, err := kb.SocialPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	for _, post := range posts {
		assert.Equal(t, core.ContentTypeSocialPost, post.Metadata.Type)
		assert.NotEmpty(t, post.Metadata.ReferenceURL)
	}
}

func TestPurge(t *testing.T) {
	kb, idx, _ := newTestKB(t)

	records := []core.SourceRecord{{ID: "1", Text: "hello", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()}}
	_, err := kb.IngestMessages(context.Background(), &fakeMessageSource{records: records}, 10)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("doc content"), 0o644))
	_, err = kb.UploadDocuments(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, kb.PurgeChat(context.Background()))
	assert.Equal(t, 0, idx.Len(DefaultChatNamespace))
	assert.Equal(t, 1, idx.Len(DefaultDocumentNamespace))

	require.NoError(t, kb.PurgeDocuments(context.Background()))
	assert.Equal(t, 0, idx.Len(DefaultDocumentNamespace))
}

func TestNamespaceIsolation(t *testing.T) {
	kb, _, provider := newTestKB(t, WithNamespaces("chat", "docs"))
	provider.GetMockCompleter().Answer = "answered"

	records := []core.SourceRecord{{ID: "1", Text: "chat content", Origin: core.OriginMessage, CreatedAt: time.Now().UTC()}}
	_, err := kb.IngestMessages(context.Background(), &fakeMessageSource{records: records}, 10)
	require.NoError(t, err)

	// Document-namespace questions never see chat vectors.
	answer, err := kb.Ask(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, answer.Sources)

	answer, err = kb.AskChat(context.Background(), "anything", 0)
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "chat content", answer.Sources[0].Text)
}

func TestClose(t *testing.T) {
	kb, _, _ := newTestKB(t)
	assert.NoError(t, kb.Close())
}
