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

// Package vitrine publishes catalog blobs to a local registry and opens query
// engines over them.
package vitrine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/storage/badger"
	"github.com/poiesic/vitrine/surface"
)

var (
	// ErrInvalidName is returned for catalog names that are empty or contain
	// whitespace or a path separator.
	ErrInvalidName = errors.New("invalid catalog name")

	// ErrFingerprintMismatch is returned when a stored blob no longer matches
	// the fingerprint recorded at publish time.
	ErrFingerprintMismatch = errors.New("blob fingerprint mismatch")
)

type Registry struct {
	backend *badger.Backend
	blobs   storage.BlobRepository
	logger  *slog.Logger
	now     func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger   *slog.Logger
	inMemory bool
	now      func() time.Time
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// InMemory keeps the registry in memory. The path is ignored.
func InMemory() RegistryOption {
	return func(o *registryOptions) {
		o.inMemory = true
	}
}

// WithClock sets the time source used for publish timestamps.
func WithClock(now func() time.Time) RegistryOption {
	return func(o *registryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// OpenRegistry opens or creates a registry stored at filePath.
func OpenRegistry(filePath string, opts ...RegistryOption) (*Registry, error) {
	options := &registryOptions{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	backendOpts := []badger.BackendOption{badger.WithLogger(options.logger)}
	if options.inMemory {
		backendOpts = append(backendOpts, badger.InMemory())
	}
	backend, err := badger.OpenBackend(filePath, backendOpts...)
	if err != nil {
		return nil, err
	}

	blobs, err := badger.NewBlobRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Registry{
		backend: backend,
		blobs:   blobs,
		logger:  options.logger,
		now:     options.now,
	}, nil
}

func (r *Registry) Close() error {
	if err := r.blobs.Close(); err != nil {
		r.logger.Error("error closing blob repository", "err", err)
		return err
	}
	if err := r.backend.Close(); err != nil {
		r.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (r *Registry) BlobRepository() storage.BlobRepository {
	return r.blobs
}

// Publish stores blob under name after checking that it decodes.
// A corrupt blob is rejected and the previously published blob is kept.
func (r *Registry) Publish(ctx context.Context, name string, blob []byte) (*core.Manifest, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	catalog, err := storage.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("publish %q: %w", name, err)
	}

	manifest := storage.NewManifest(name, catalog, blob, r.now())
	if err := r.blobs.PutBlob(ctx, manifest, blob); err != nil {
		return nil, err
	}

	r.logger.Info("published catalog", "name", name, "products", manifest.ProductCount,
		"bytes", manifest.ByteSize, "fingerprint", manifest.Fingerprint)
	return manifest, nil
}

// Fetch returns the blob published under name and its manifest.
func (r *Registry) Fetch(ctx context.Context, name string) ([]byte, *core.Manifest, error) {
	manifest, err := r.blobs.GetManifest(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	blob, err := r.blobs.GetBlob(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if fp := core.Fingerprint(blob); fp != manifest.Fingerprint {
		return nil, nil, fmt.Errorf("%w: %q has %s, manifest records %s", ErrFingerprintMismatch, name, fp, manifest.Fingerprint)
	}
	return blob, manifest, nil
}

// List returns the manifests of every published catalog ordered by name.
func (r *Registry) List(ctx context.Context) ([]*core.Manifest, error) {
	return r.blobs.ListManifests(ctx)
}

// Remove deletes the catalog published under name.
func (r *Registry) Remove(ctx context.Context, name string) error {
	if err := r.blobs.DeleteBlob(ctx, name); err != nil {
		return err
	}
	r.logger.Info("removed catalog", "name", name)
	return nil
}

// Engine opens a query engine over the catalog published under name.
// Lookup failures are returned as errors; the blob's own outcome is the Result.
func (r *Registry) Engine(ctx context.Context, name string, opts ...surface.Option) (surface.Result, error) {
	blob, _, err := r.Fetch(ctx, name)
	if err != nil {
		return surface.Result{}, err
	}
	return surface.Open(blob, opts...), nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, " \t\r\n/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
