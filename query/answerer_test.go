package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnswerer(t *testing.T) (*Answerer, *memory.Index, *mock.MockProvider) {
	t.Helper()

	idx := memory.NewIndex()
	provider := mock.NewMockProvider().(*mock.MockProvider)

	a, err := NewAnswerer(idx, provider)
	require.NoError(t, err)

	return a, idx, provider
}

func seedPassage(t *testing.T, idx *memory.Index, namespace, id, content string) {
	t.Helper()

	metadata, err := core.NewMessageMetadata(content, "u1", "c1", time.Now().UTC())
	require.NoError(t, err)

	err = idx.Upsert(context.Background(), namespace, []core.VectorRecord{{
		ID:       id,
		Values:   []float32{0.1, 0.2, 0.3},
		Metadata: metadata,
	}})
	require.NoError(t, err)
}

func TestNewAnswerer(t *testing.T) {
	t.Run("requires an index", func(t *testing.T) {
		_, err := NewAnswerer(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("requires a provider", func(t *testing.T) {
		_, err := NewAnswerer(memory.NewIndex(), nil)
		assert.ErrorIs(t, err, ErrProviderRequired)
	})
}

func TestAnswerRejectsBlankQuestions(t *testing.T) {
	a, _, provider := newTestAnswerer(t)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := a.Answer(context.Background(), question, "docs", 0)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}

	// Rejection happens before any service call.
	assert.Zero(t, provider.GetMockEmbedder().CallCount())
	assert.Zero(t, provider.GetMockCompleter().CallCount())
}

func TestAnswerRequiresNamespace(t *testing.T) {
	a, _, _ := newTestAnswerer(t)

	_, err := a.Answer(context.Background(), "anything", "", 0)
	assert.ErrorIs(t, err, ErrNamespaceRequired)
}

func TestAnswer(t *testing.T) {
	a, idx, provider := newTestAnswerer(t)
	seedPassage(t, idx, "docs", "msg_1", "deploys happen on Fridays")
	seedPassage(t, idx, "docs", "msg_2", "the staging cluster is eu-west-1")
	provider.GetMockCompleter().Answer = "Deploys happen on Fridays."

	answer, err := a.Answer(context.Background(), "when do we deploy?", "docs", 0)
	require.NoError(t, err)

	assert.Equal(t, "Deploys happen on Fridays.", answer.Text)
	require.Len(t, answer.Sources, 2)

	prompts := provider.GetMockCompleter().Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "when do we deploy?")
	assert.Contains(t, prompts[0], "deploys happen on Fridays")
	assert.Contains(t, prompts[0], "Source: msg_1")
	assert.True(t, strings.HasPrefix(prompts[0], "Please provide a brief, concise answer in 2-3 sentences:"))
}

func TestAnswerHonorsTopK(t *testing.T) {
	a, idx, _ := newTestAnswerer(t)
	for _, id := range []string{"msg_1", "msg_2", "msg_3", "msg_4", "msg_5"} {
		seedPassage(t, idx, "docs", id, "passage for "+id)
	}

	answer, err := a.Answer(context.Background(), "anything", "docs", 2)
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)

	// topK below one falls back to the default.
	answer, err = a.Answer(context.Background(), "anything", "docs", -3)
	require.NoError(t, err)
	assert.Len(t, answer.Sources, DefaultTopK)
}

func TestAnswerWithEmptyRetrieval(t *testing.T) {
	a, _, provider := newTestAnswerer(t)
	provider.GetMockCompleter().Answer = "I do not have that information."

	answer, err := a.Answer(context.Background(), "what is the meaning of life?", "docs", 0)
	require.NoError(t, err)

	// The completion model is still consulted with an empty context.
	assert.Equal(t, "I do not have that information.", answer.Text)
	assert.NotNil(t, answer.Sources)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 1, provider.GetMockCompleter().CallCount())
}

func TestAnswerPropagatesEmbedderErrors(t *testing.T) {
	a, _, provider := newTestAnswerer(t)

	embedErr := errors.New("quota exceeded")
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedErr
	}

	_, err := a.Answer(context.Background(), "anything", "docs", 0)
	assert.ErrorIs(t, err, embedErr)
	assert.Zero(t, provider.GetMockCompleter().CallCount())
}

func TestAnswerPropagatesCompleterErrors(t *testing.T) {
	a, idx, provider := newTestAnswerer(t)
	seedPassage(t, idx, "docs", "msg_1", "some passage")

	completeErr := errors.New("model overloaded")
	provider.GetMockCompleter().CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", completeErr
	}

	_, err := a.Answer(context.Background(), "anything", "docs", 0)
	assert.ErrorIs(t, err, completeErr)
}

func TestAnswerAttributesFilePassages(t *testing.T) {
	a, idx, _ := newTestAnswerer(t)

	metadata, err := core.NewFileMetadata(core.FileInfo{
		Name:     "handbook.pdf",
		URL:      "https://cdn/handbook.pdf",
		MimeType: "application/pdf",
		Size:     1024,
	}, "u1", "c1", time.Now().UTC())
	require.NoError(t, err)

	err = idx.Upsert(context.Background(), "docs", []core.VectorRecord{{
		ID:       "file_handbook.pdf",
		Values:   []float32{0.4, 0.5},
		Metadata: metadata,
	}})
	require.NoError(t, err)

	answer, err := a.Answer(context.Background(), "where is the handbook?", "docs", 0)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "handbook.pdf", answer.Sources[0].SourceID)
	assert.Equal(t, "handbook.pdf", answer.Sources[0].Text)
}
