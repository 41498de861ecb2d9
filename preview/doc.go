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

// Package preview serves one catalog blob over HTTP for local development.
//
// The server exposes the raw blob and JSON views of the same engine a storefront
// would embed:
//
//	GET /healthz                  engine status
//	GET /catalog.bin              the blob, with its fingerprint as ETag
//	GET /api/products             every product in catalog order
//	GET /api/search?q=&limit=     ranked search results
//
// Watch rebuilds the engine whenever the blob file is rewritten. A rebuild that
// fails to decode leaves the previous engine serving.
//
// Usage:
//
//	srv, err := preview.New(preview.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := srv.Load("catalog.bin"); err != nil {
//		logger.Warn("catalog unavailable", "err", err)
//	}
//	go srv.Watch(ctx, "catalog.bin")
//	http.ListenAndServe(":8080", srv)
package preview
