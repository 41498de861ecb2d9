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

package preview

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/surface"
)

// DefaultSearchLimit caps search responses when the request has no limit.
const DefaultSearchLimit = 50

// snapshot is one loaded blob and the engine built from it.
type snapshot struct {
	blob        []byte
	fingerprint string
	engine      *surface.Engine
	loadedAt    time.Time
}

// Server is an http.Handler serving the most recently loaded catalog.
type Server struct {
	current     atomic.Pointer[snapshot]
	router      chi.Router
	logger      *slog.Logger
	engineOpts  []surface.Option
	searchLimit int
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEngineOptions passes options to every engine the server builds.
func WithEngineOptions(opts ...surface.Option) Option {
	return func(s *Server) error {
		s.engineOpts = append(s.engineOpts, opts...)
		return nil
	}
}

// WithSearchLimit sets the result cap used when a search request has no limit.
func WithSearchLimit(n int) Option {
	return func(s *Server) error {
		if n <= 0 {
			return fmt.Errorf("%w: search limit must be positive, got %d", ErrInvalidConfig, n)
		}
		s.searchLimit = n
		return nil
	}
}

// New creates a Server with no catalog loaded. API routes answer 503 until
// Load or LoadBlob succeeds.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:      slog.Default(),
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.health)
	r.Get("/catalog.bin", s.catalogBlob)
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/search", s.searchProducts)
	})
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Load reads the blob at path and swaps it in.
func (s *Server) Load(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return s.LoadBlob(blob)
}

// LoadBlob opens an engine over blob and swaps it in. When the blob is
// unavailable the previous engine, if any, keeps serving.
func (s *Server) LoadBlob(blob []byte) error {
	result := surface.Open(blob, append([]surface.Option{surface.WithLogger(s.logger)}, s.engineOpts...)...)
	if !result.OK() {
		if prev := s.current.Load(); prev != nil {
			s.logger.Warn("keeping previous catalog", "fingerprint", prev.fingerprint, "reason", result.Reason)
		}
		return result.Err()
	}

	next := &snapshot{
		blob:        blob,
		fingerprint: core.Fingerprint(blob),
		engine:      result.Engine(),
		loadedAt:    time.Now(),
	}
	s.current.Store(next)
	s.logger.Info("catalog loaded", "products", next.engine.Len(), "bytes", len(blob), "fingerprint", next.fingerprint)
	return nil
}

// Fingerprint returns the fingerprint of the serving blob, or "" when none is loaded.
func (s *Server) Fingerprint() string {
	if snap := s.current.Load(); snap != nil {
		return snap.fingerprint
	}
	return ""
}
