package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnswerer is a local test double for the Answerer interface.
type fakeAnswerer struct {
	answer    core.Answer
	err       error
	called    int
	question  string
	namespace string
	topK      int
}

func (f *fakeAnswerer) Answer(ctx context.Context, question, namespace string, topK int) (core.Answer, error) {
	f.called++
	f.question = question
	f.namespace = namespace
	f.topK = topK
	if f.err != nil {
		return core.Answer{}, f.err
	}
	if strings.TrimSpace(question) == "" {
		return core.Answer{}, query.ErrEmptyQuestion
	}
	return f.answer, nil
}

func postQuery(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	t.Run("requires an answerer", func(t *testing.T) {
		_, err := New(nil, "docs")
		assert.ErrorIs(t, err, ErrAnswererRequired)
	})

	t.Run("requires a namespace", func(t *testing.T) {
		_, err := New(&fakeAnswerer{}, "")
		assert.ErrorIs(t, err, ErrNamespaceRequired)
	})
}

func TestHandleQuery(t *testing.T) {
	fake := &fakeAnswerer{
		answer: core.Answer{
			Text: "Deploys happen on Fridays.",
			Sources: []core.Passage{
				{SourceID: "msg_1", Text: "deploys happen on Fridays"},
			},
		},
	}

	s, err := New(fake, "docs")
	require.NoError(t, err)

	rec := postQuery(t, s.Handler(), `{"prompt": "when do we deploy?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Deploys happen on Fridays.", resp.Response)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "msg_1", resp.Sources[0].Source)
	assert.Equal(t, "deploys happen on Fridays", resp.Sources[0].Content)

	assert.Equal(t, "when do we deploy?", fake.question)
	assert.Equal(t, "docs", fake.namespace)
	assert.Zero(t, fake.topK)
}

func TestHandleQueryEmptySources(t *testing.T) {
	fake := &fakeAnswerer{answer: core.Answer{Text: "no idea", Sources: []core.Passage{}}}
	s, err := New(fake, "docs")
	require.NoError(t, err)

	rec := postQuery(t, s.Handler(), `{"prompt": "anything"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Sources serializes as [], never null.
	assert.Contains(t, rec.Body.String(), `"sources":[]`)
}

func TestHandleQueryBadRequests(t *testing.T) {
	fake := &fakeAnswerer{}
	s, err := New(fake, "docs")
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing prompt", `{}`},
		{"blank prompt", `{"prompt": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postQuery(t, s.Handler(), tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Prompt is required", resp.Error)
		})
	}

	// Rejection happens before the pipeline runs.
	assert.Zero(t, fake.called)
}

func TestHandleQueryPipelineFailure(t *testing.T) {
	fake := &fakeAnswerer{err: errors.New("pinecone http 429: too many requests")}
	s, err := New(fake, "docs")
	require.NoError(t, err)

	rec := postQuery(t, s.Handler(), `{"prompt": "anything"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Error processing query", resp.Error)

	// Upstream detail never leaks to the client.
	assert.NotContains(t, rec.Body.String(), "pinecone")
	assert.NotContains(t, rec.Body.String(), "429")
}

func TestCORSPreflight(t *testing.T) {
	s, err := New(&fakeAnswerer{}, "docs")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
