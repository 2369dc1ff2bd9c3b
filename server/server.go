// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/query"
)

// Answerer is the slice of the question pipeline the HTTP layer needs.
type Answerer interface {
	Answer(ctx context.Context, question, namespace string, topK int) (core.Answer, error)
}

// Server exposes the question endpoint over HTTP.
type Server struct {
	answerer  Answerer
	namespace string
	router    *mux.Router
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server that answers questions against the namespace.
func New(answerer Answerer, namespace string, opts ...Option) (*Server, error) {
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if namespace == "" {
		return nil, ErrNamespaceRequired
	}

	s := &Server{
		answerer:  answerer,
		namespace: namespace,
		router:    mux.NewRouter(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(s.requestID, s.cors, s.logRequests)
	s.router.HandleFunc("/api/query", s.handleQuery).Methods(http.MethodPost, http.MethodOptions)

	return s, nil
}

// Handler returns the HTTP handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until the context is canceled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

type queryRequest struct {
	Prompt string `json:"prompt"`
}

type querySource struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

type queryResponse struct {
	Response string        `json:"response"`
	Sources  []querySource `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt is required"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt is required"})
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req.Prompt, s.namespace, 0)
	if errors.Is(err, query.ErrEmptyQuestion) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt is required"})
		return
	}
	if err != nil {
		// Details stay server-side.
		s.logger.Error("query failed", "error", err, "request_id", requestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error processing query"})
		return
	}

	sources := make([]querySource, 0, len(answer.Sources))
	for _, p := range answer.Sources {
		sources = append(sources, querySource{Source: p.SourceID, Content: p.Text})
	}

	writeJSON(w, http.StatusOK, queryResponse{Response: answer.Text, Sources: sources})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
