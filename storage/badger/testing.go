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

package badger

import "github.com/poiesic/vitrine/storage"

// NewMemoryBlobRepository creates an in-memory blob repository for testing.
// Closing the returned repository also closes its backend.
func NewMemoryBlobRepository() (storage.BlobRepository, error) {
	backend, err := OpenBackend("", InMemory())
	if err != nil {
		return nil, err
	}

	repo, err := NewBlobRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &ownedBlobRepository{BlobRepository: repo}, nil
}

// ownedBlobRepository closes its backend on Close.
type ownedBlobRepository struct {
	*BlobRepository
}

func (r *ownedBlobRepository) Close() error {
	return r.backend.Close()
}
