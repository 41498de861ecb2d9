package storage

import (
	"context"

	"github.com/poiesic/vitrine/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// BlobRepository stores published catalog blobs keyed by catalog name.
// Each blob is stored alongside a manifest describing it.
type BlobRepository interface {
	Repository

	// PutBlob stores a blob and its manifest under manifest.Name, replacing any
	// previously published blob of the same name.
	PutBlob(ctx context.Context, manifest *core.Manifest, blob []byte) error

	// GetBlob retrieves the blob published under name.
	// Returns ErrNotFound if no blob exists.
	GetBlob(ctx context.Context, name string) ([]byte, error)

	// GetManifest retrieves the manifest of the blob published under name.
	// Returns ErrNotFound if no blob exists.
	GetManifest(ctx context.Context, name string) (*core.Manifest, error)

	// ListManifests returns every stored manifest ordered by name.
	ListManifests(ctx context.Context) ([]*core.Manifest, error)

	// DeleteBlob removes a blob and its manifest.
	// Returns ErrNotFound if no blob exists.
	DeleteBlob(ctx context.Context, name string) error
}
