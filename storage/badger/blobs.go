package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
)

// BlobRepository implements storage.BlobRepository for BadgerDB.
type BlobRepository struct {
	backend *Backend
}

var _ storage.BlobRepository = (*BlobRepository)(nil)

// NewBlobRepository creates a new BlobRepository.
func NewBlobRepository(backend *Backend) (*BlobRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &BlobRepository{
		backend: backend,
	}, nil
}

// Close releases resources. BlobRepository has no resources to release;
// the backend is closed by its owner.
func (r *BlobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *BlobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutBlob stores the blob and its manifest in one transaction.
func (r *BlobRepository) PutBlob(ctx context.Context, manifest *core.Manifest, blob []byte) error {
	if manifest == nil || manifest.Name == "" {
		return errors.New("manifest name is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	put := func() error {
		return r.backend.WithTx(func(tx *badger.Txn) error {
			if err := tx.Set(makeBlobKey(manifest.Name), blob); err != nil {
				return err
			}
			if err := tx.Set(makeManifestKey(manifest.Name), storage.MarshalManifest(manifest)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	}
	if err := retryWithBackoff(ctx, put, isConflict, conflictAttempts, conflictBaseDelay); err != nil {
		return fmt.Errorf("put blob %q: %w", manifest.Name, err)
	}

	r.backend.logger.Debug("stored blob", "name", manifest.Name, "bytes", len(blob), "fingerprint", manifest.Fingerprint)
	return nil
}

// GetBlob retrieves the blob published under name.
func (r *BlobRepository) GetBlob(ctx context.Context, name string) ([]byte, error) {
	var blob []byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		blob, err = getValue(tx, makeBlobKey(name))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// GetManifest retrieves the manifest of the blob published under name.
func (r *BlobRepository) GetManifest(ctx context.Context, name string) (*core.Manifest, error) {
	var manifest *core.Manifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		val, err := getValue(tx, makeManifestKey(name))
		if err != nil {
			return err
		}
		manifest, err = storage.UnmarshalManifest(val)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

// ListManifests returns every stored manifest ordered by name.
func (r *BlobRepository) ListManifests(ctx context.Context) ([]*core.Manifest, error) {
	manifests := []*core.Manifest{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(manifestPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var manifest *core.Manifest
			err := iter.Item().Value(func(val []byte) error {
				var err error
				manifest, err = storage.UnmarshalManifest(val)
				return err
			})
			if err != nil {
				return err
			}
			manifests = append(manifests, manifest)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return manifests, nil
}

// DeleteBlob removes a blob and its manifest.
func (r *BlobRepository) DeleteBlob(ctx context.Context, name string) error {
	del := func() error {
		return r.backend.WithTx(func(tx *badger.Txn) error {
			if _, err := tx.Get(makeManifestKey(name)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(makeManifestKey(name)); err != nil {
				return err
			}
			if err := tx.Delete(makeBlobKey(name)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	}
	return retryWithBackoff(ctx, del, isConflict, conflictAttempts, conflictBaseDelay)
}
