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

// Package search ranks catalog products against free-text queries.
//
// A Searcher holds one immutable catalog and matches queries against each
// product's precomputed search text. Results fall into three tiers:
//   - the whole normalized query occurs as a substring
//   - every query token occurs
//   - some query tokens occur, scored by the fraction matched
//
// Products matching no token are excluded. Within a tier, higher scores rank
// first, then earlier first-match positions for partial matches, then catalog
// order. All token occurrences in a product are found in a single pass with an
// Aho-Corasick automaton compiled once per query.
//
// A Searcher never mutates its catalog, so concurrent calls are safe.
package search
