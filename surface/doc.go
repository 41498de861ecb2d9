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

// Package surface is the query API handed to a host page.
//
// Open turns a catalog blob into a ready Engine or a tagged unavailable result;
// there is no partially constructed engine. After that, All and Search cannot
// fail. Results are ProductView values that carry everything a host needs to
// render a result card, including display prices and a capped set of badges.
//
// Init wraps Open for hosts: it takes the host's configuration explicitly and
// returns a Handle that renders the configured view and skips repeated queries.
package surface
