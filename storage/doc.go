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

// Package storage provides the catalog blob codec and the storage abstraction
// layer for vitrine.
//
// Encode and Decode convert between a core.Catalog and the versioned binary blob
// loaded by the query engine. Decode treats its input as untrusted: every length
// and count is checked against the bytes that remain before anything is
// allocated.
//
// The repository interfaces decouple blob persistence from the registry that
// publishes blobs. The BadgerDB implementation lives in storage/badger.
//
// # Usage
//
// Encode a catalog and store it:
//
//	blob, err := storage.Encode(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	manifest := storage.NewManifest("shop", catalog, blob, time.Now())
//	err = repo.PutBlob(ctx, manifest, blob)
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryBlobRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines. Encode and Decode keep no
// shared state.
package storage
